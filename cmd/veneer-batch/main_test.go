package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSkipProcessed(t *testing.T) {
	files := []string{"a.obj", "b.stl", "c.ply", "d.csg"}
	done := map[string]bool{"b.stl": true, "d.csg": true}

	got := skipProcessed(append([]string(nil), files...), done)
	want := []string{"a.obj", "c.ply"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("skipProcessed() = %v, want %v", got, want)
	}
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.txt")
	content := "a.obj\n\n  b.stl  \nc.ply\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || !got["a.obj"] || !got["b.stl"] || !got["c.ply"] {
		t.Errorf("readLines() = %v, want the three trimmed entries", got)
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	got, err := readLines(filepath.Join(t.TempDir(), "nope.txt"))
	if err != nil {
		t.Fatalf("readLines() on a missing file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("readLines() = %v, want an empty set", got)
	}
}

func TestFindCADFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.obj", "sub/b.STL", "sub/c.csg", "notes.txt", "d.step"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := findCADFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("findCADFiles() returned %d files, want 3: %v", len(files), files)
	}
	for _, f := range files {
		switch filepath.Base(f) {
		case "a.obj", "b.STL", "c.csg":
		default:
			t.Errorf("unexpected file discovered: %s", f)
		}
	}
}

func TestAppendLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := appendLines(path, []string{"one", "two"}); err != nil {
		t.Fatal(err)
	}
	if err := appendLines(path, []string{"three"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\ntwo\nthree\n" {
		t.Errorf("file content = %q, want appended lines in order", string(data))
	}
}
