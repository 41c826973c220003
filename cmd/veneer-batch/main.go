// Command veneer-batch renders every CAD file under a dataset directory by
// invoking veneer once per file in an isolated subprocess with a wall-clock
// timeout. Progress and failures are persisted under file_lists/ so an
// interrupted run can be resumed with -resume, retrying only files not yet
// known-processed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/veneer/pkg/geometry"
)

// progressBatchSize is how many completed files accumulate before the
// processed list is flushed, bounding the risk of partial writes.
const progressBatchSize = 10

type config struct {
	dataDir  string
	listsDir string
	outDir   string
	bin      string
	timeout  time.Duration
	resume   bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.dataDir, "data", "data_samples", "directory to scan for CAD files")
	flag.StringVar(&cfg.listsDir, "lists", "file_lists", "directory for progress/failure lists")
	flag.StringVar(&cfg.outDir, "out", "renders", "output directory passed to the renderer")
	flag.StringVar(&cfg.bin, "bin", "veneer", "path to the veneer binary")
	flag.DurationVar(&cfg.timeout, "timeout", 60*time.Second, "per-file rendering timeout")
	flag.BoolVar(&cfg.resume, "resume", false, "skip files already recorded in processed.txt")
	flag.Parse()

	logFile, err := os.OpenFile("batch_render.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer logFile.Close()
	logger := log.New(io.MultiWriter(os.Stdout, logFile), "", log.LstdFlags)

	if err := run(cfg, logger); err != nil {
		logger.Printf("batch failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *log.Logger) error {
	if _, err := os.Stat(cfg.dataDir); err != nil {
		return fmt.Errorf("dataset directory not found: %s", cfg.dataDir)
	}

	files, err := findCADFiles(cfg.dataDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no CAD files found in %s", cfg.dataDir)
	}
	logger.Printf("found %d CAD files", len(files))

	if err := os.MkdirAll(cfg.listsDir, 0o755); err != nil {
		return fmt.Errorf("create lists dir: %w", err)
	}
	allPath := filepath.Join(cfg.listsDir, "all_files.txt")
	if err := os.WriteFile(allPath, []byte(strings.Join(files, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", allPath, err)
	}

	processedPath := filepath.Join(cfg.listsDir, "processed.txt")
	if cfg.resume {
		done, err := readLines(processedPath)
		if err != nil {
			return err
		}
		files = skipProcessed(files, done)
		if len(files) == 0 {
			logger.Printf("no files to process, all files already completed")
			return nil
		}
		logger.Printf("resuming: %d files remain", len(files))
	}

	var succeeded int
	var failed []string
	var pending []string

	for i, path := range files {
		logger.Printf("processing file %d/%d: %s", i+1, len(files), path)
		if reason, ok := processFile(cfg, path); ok {
			succeeded++
			logger.Printf("render succeeded")
		} else {
			failed = append(failed, path)
			logger.Printf("render failed: %s", reason)
		}
		pending = append(pending, path)
		if len(pending) >= progressBatchSize {
			if err := appendLines(processedPath, pending); err != nil {
				return err
			}
			pending = pending[:0]
		}
	}
	if len(pending) > 0 {
		if err := appendLines(processedPath, pending); err != nil {
			return err
		}
	}

	logger.Println(strings.Repeat("=", 50))
	logger.Printf("BATCH RENDER SUMMARY")
	logger.Printf("files attempted: %d", len(files))
	logger.Printf("succeeded: %d", succeeded)
	logger.Printf("failed: %d", len(failed))
	if len(failed) > 0 {
		failedPath := filepath.Join(cfg.listsDir, "failed_files.txt")
		if err := appendLines(failedPath, failed); err != nil {
			return err
		}
		logger.Printf("failed files saved to %s", failedPath)
	}
	return nil
}

// findCADFiles walks root collecting files the renderer can consume.
func findCADFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && geometry.Classify(path) != geometry.KindUnknown {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}

// processFile renders one file in an isolated subprocess bounded by the
// per-file timeout. A timed-out or crashed invocation is recorded as that
// file's failure and does not affect other files.
func processFile(cfg config, path string) (reason string, ok bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.bin, "-out", cfg.outDir, path)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return "", true
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("timed out after %s", cfg.timeout), false
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return msg, false
}

func readLines(path string) (map[string]bool, error) {
	set := make(map[string]bool)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			set[line] = true
		}
	}
	return set, nil
}

func skipProcessed(files []string, done map[string]bool) []string {
	out := files[:0]
	for _, f := range files {
		if !done[f] {
			out = append(out, f)
		}
	}
	return out
}

func appendLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return nil
}
