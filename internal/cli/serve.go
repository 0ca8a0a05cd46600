package cli

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asnlabels/internal/server"
)

// serveCommand creates the serve command running the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxLabels int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered label sheets over HTTP",
		Long: `Serve starts an HTTP server that renders label sheets on request.

Routes:
  GET /healthz       liveness probe
  GET /labels        supported label sheets as JSON
  GET /render.pdf    render a sheet, options as query parameters
  GET /render.png    render the first page as PNG

Query parameters use the keys of the TOML config file, e.g.
  /render.pdf?label_type=4731&first_asn=190&number=21&bar_width=2mm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			srv := server.New(c.newRunner(), logger)
			srv.SetMaxLabels(maxLabels)

			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
			err := srv.ListenAndServe(cmd.Context(), addr)
			if stderrors.Is(err, context.Canceled) {
				printInfo("Stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxLabels, "max-labels", server.DefaultMaxLabels, "maximum labels per request, sub-labels included")
	return cmd
}

// displayAddr turns a listen address into something a browser accepts.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
