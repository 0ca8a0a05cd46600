package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/asnlabels/pkg/buildinfo"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"generate", "labels", "serve", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered (err=%v)", name, err)
		}
	}
}

func TestVersion(t *testing.T) {
	root, _ := newRoot(&bytes.Buffer{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), buildinfo.Version) || !strings.Contains(out.String(), projectHomepage) {
		t.Errorf("--version output = %q", out.String())
	}
}

func TestVerboseSetsDebugLevel(t *testing.T) {
	root, c := newRoot(&bytes.Buffer{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"-v", "labels"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "4731") {
		t.Errorf("labels output does not list 4731: %q", out.String())
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
