// Package render produces images from composed scenes. Backends implement
// one rendering strategy each; a Chain tries them in priority order until
// one yields an image that passes quality validation.
package render

import (
	"fmt"
	"image"

	"github.com/chazu/veneer/pkg/scene"
)

// Result is the outcome of one backend attempt. A nil Image means the
// attempt failed and Reason says why. Backends never raise past their own
// boundary; every backend-specific error becomes a failed Result.
type Result struct {
	Image   image.Image
	Backend string
	Reason  string
}

// Failed reports whether the attempt produced no image.
func (r Result) Failed() bool { return r.Image == nil }

// failure builds a failed Result for a backend.
func failure(backend, format string, args ...any) Result {
	return Result{Backend: backend, Reason: fmt.Sprintf(format, args...)}
}

// Backend is one rendering strategy. Render must be total: it converts all
// internal errors (including panics) into a failed Result.
type Backend interface {
	Name() string
	Render(s *scene.Scene) Result
}
