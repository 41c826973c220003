package render

import (
	"os"
	"sync"
)

// EnvConfig is the process-wide software rendering configuration. Several
// backends assume a software-only graphics context, so the config must be
// applied once, before any backend is constructed, and never mutated
// afterwards.
type EnvConfig struct {
	// ForceSoftware forces CPU rasterization in the GL stack.
	ForceSoftware bool
	// GLVersion overrides the minimum reported GL version, e.g. "3.3".
	GLVersion string
	// GLSLVersion overrides the minimum shading-language version, e.g. "330".
	GLSLVersion string
	// GalliumDriver selects the fallback software driver, e.g. "llvmpipe".
	GalliumDriver string
}

// DefaultEnvConfig returns the configuration for headless batch rendering.
func DefaultEnvConfig() EnvConfig {
	return EnvConfig{
		ForceSoftware: true,
		GLVersion:     "3.3",
		GLSLVersion:   "330",
		GalliumDriver: "llvmpipe",
	}
}

var envOnce sync.Once

// SetupEnvironment applies the configuration to the process environment.
// Only the first call has any effect.
func SetupEnvironment(cfg EnvConfig) {
	envOnce.Do(func() {
		if cfg.ForceSoftware {
			os.Setenv("LIBGL_ALWAYS_SOFTWARE", "1")
		}
		if cfg.GLVersion != "" {
			os.Setenv("MESA_GL_VERSION_OVERRIDE", cfg.GLVersion)
		}
		if cfg.GLSLVersion != "" {
			os.Setenv("MESA_GLSL_VERSION_OVERRIDE", cfg.GLSLVersion)
		}
		if cfg.GalliumDriver != "" {
			os.Setenv("GALLIUM_DRIVER", cfg.GalliumDriver)
		}
	})
}
