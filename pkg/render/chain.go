package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/chazu/veneer/pkg/scene"
)

// AttemptTimeout is the default wall-clock budget for a single backend
// attempt. A timed-out attempt is that backend's failure, not the chain's.
const AttemptTimeout = 60 * time.Second

// ExhaustedError reports that every applicable backend failed or was
// rejected by the validator. It carries each per-backend reason.
type ExhaustedError struct {
	Reasons []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all render backends failed: %s", strings.Join(e.Reasons, "; "))
}

// Chain is an ordered list of rendering strategies tried until one yields
// an image the validator accepts.
type Chain struct {
	Backends  []Backend
	Validator Validator
	// Timeout bounds each backend attempt. Zero means AttemptTimeout.
	Timeout time.Duration
}

// NewMeshChain returns the backend order for mesh geometry: the fauxgl
// software rasterizer first, the legacy OpenGL rasterizer as fallback.
func NewMeshChain() *Chain {
	return &Chain{
		Backends: []Backend{
			NewRasterizer(),
			NewGLRasterizer(),
		},
	}
}

// NewSolidChain returns the backend order for solid geometry: the
// raytracing backend alone, which consumes the solid without meshing.
func NewSolidChain() *Chain {
	return &Chain{
		Backends: []Backend{NewRaymarcher()},
	}
}

// Render tries each backend in order and returns the first result that
// passes validation. When every backend fails or is rejected, it returns
// an ExhaustedError listing each attempt's reason.
func (c *Chain) Render(s *scene.Scene) (Result, error) {
	var reasons []string
	for _, b := range c.Backends {
		res := c.attempt(b, s)
		if res.Failed() {
			reasons = append(reasons, fmt.Sprintf("%s: %s", b.Name(), res.Reason))
			continue
		}
		if err := c.Validator.Check(res.Image); err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: rejected: %v", b.Name(), err))
			continue
		}
		return res, nil
	}
	return Result{}, &ExhaustedError{Reasons: reasons}
}

// attempt runs one backend on its own goroutine, bounded by the chain
// timeout and insulated from panics.
func (c *Chain) attempt(b Backend, s *scene.Scene) Result {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = AttemptTimeout
	}

	ch := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- failure(b.Name(), "panic: %v", r)
			}
		}()
		ch <- b.Render(s)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res
	case <-timer.C:
		return failure(b.Name(), "timed out after %s", timeout)
	}
}
