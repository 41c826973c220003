package geometry

import "fmt"

// LoadError reports that a geometry file could not be turned into a usable
// shape: missing or unreadable file, unsupported format, or structurally
// empty geometry. A LoadError is fatal for the file and is not retried.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DegenerateError reports that a mesh has a near-zero bounding extent after
// centering, so it cannot be meaningfully framed by a camera. Fatal for the
// file.
type DegenerateError struct {
	Extent float64
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate geometry: bounding extent %g below minimum %g", e.Extent, MinExtent)
}
