// Package canvas holds what the concrete label canvases share: the
// translation state stack behind Translate, SaveState and RestoreState.
//
// Backends live in the subpackages [pdf] (vector output via gopdf) and [png]
// (raster previews via gg).
package canvas

// Stack tracks the current translation and the states saved with Save.
// The zero value is ready to use.
type Stack struct {
	x, y  float64
	saved [][2]float64
}

// Translate moves the origin by (dx, dy).
func (s *Stack) Translate(dx, dy float64) {
	s.x += dx
	s.y += dy
}

// Save pushes the current translation.
func (s *Stack) Save() {
	s.saved = append(s.saved, [2]float64{s.x, s.y})
}

// Restore pops the most recently saved translation. Unbalanced calls are
// ignored.
func (s *Stack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	top := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.x, s.y = top[0], top[1]
}

// Reset clears the translation and all saved states, as on a new page.
func (s *Stack) Reset() {
	s.x, s.y = 0, 0
	s.saved = s.saved[:0]
}

// Apply maps (x, y) in the current user space to page space.
func (s *Stack) Apply(x, y float64) (float64, float64) {
	return s.x + x, s.y + y
}

// Depth returns the number of unrestored saves.
func (s *Stack) Depth() int { return len(s.saved) }
