// Command veneer renders a single CAD file (mesh or solid script) into a
// raster image. It is the per-file unit of work invoked by veneer-batch:
// exit code 0 signals an accepted image, nonzero a failure, with the
// failure reason on standard error.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/chazu/veneer/pkg/dataset"
	"github.com/chazu/veneer/pkg/geometry"
	"github.com/chazu/veneer/pkg/pipeline"
	"github.com/chazu/veneer/pkg/render"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	outDir := flag.String("out", "renders", "output directory for rendered images")
	materialDir := flag.String("material-dir", "materials", "directory holding materials.json")
	materialName := flag.String("material", "", "material name to bind (unknown names fall back to metal)")
	views := flag.Bool("views", false, "render six canonical views instead of a single image")
	datasetDir := flag.String("dataset", "", "dataset directory to record the accepted render into")
	background := flag.String("background", "", "background image composited behind dataset renders")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: veneer [flags] <cad-file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := log.New(os.Stderr, "veneer: ", log.LstdFlags)

	// Software rendering toggles must be in place before any backend is
	// constructed; several assume a software-only GL context.
	render.SetupEnvironment(render.DefaultEnvConfig())

	p, err := pipeline.New(pipeline.Config{
		OutDir:      *outDir,
		MaterialDir: *materialDir,
		Material:    *materialName,
		Debug:       *debug,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *views {
		paths, err := p.RenderViews(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, out := range paths {
			logger.Printf("saved view: %s", out)
		}
		return
	}

	outcome, err := p.RenderFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Printf("saved render: %s (backend %s)", outcome.OutputPath, outcome.Backend)

	if *datasetDir != "" {
		if err := recordInDataset(*datasetDir, *background, path, *materialName, outcome, logger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// recordInDataset composites and stores the accepted render with its
// annotation, appending to any dataset already on disk.
func recordInDataset(dir, background, sourcePath, materialName string, outcome *pipeline.Outcome, logger *log.Logger) error {
	mgr, err := dataset.NewManager(dir)
	if err != nil {
		return err
	}

	var bg image.Image
	if background != "" {
		bg, err = imgio.Open(background)
		if err != nil {
			return fmt.Errorf("open background %s: %w", background, err)
		}
	}
	img := dataset.Composite(outcome.Image, bg)

	objType := "mesh"
	if geometry.Classify(sourcePath) == geometry.KindSolid {
		objType = "brep"
	}
	anno, err := mgr.AddRendering(img, sourcePath, objType, materialName)
	if err != nil {
		return err
	}
	if _, err := mgr.SaveAnnotations(); err != nil {
		return err
	}
	logger.Printf("dataset entry %d: %s", anno.ID, anno.FileName)
	return nil
}
