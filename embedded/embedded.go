// Package embedded holds the runtime side of a generated exercise table. The
// generated file declares a *Files literal; the consuming program reads
// payloads from it and restores them to disk.
package embedded

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.scnd.dev/open/lessonpack/utility/manifest"
	"go.scnd.dev/open/lessonpack/utility/resource"
)

type ExerciseFiles struct {
	Exercise []byte
	Solution []byte
	DirIndex int
}

type ExerciseDir struct {
	Name   string
	Readme []byte
}

type Files struct {
	InfoFile      string
	Fingerprint   string
	Layout        *resource.Layout
	ExerciseFiles []ExerciseFiles
	ExerciseDirs  []ExerciseDir

	once     sync.Once
	manifest *manifest.Manifest
	err      error
}

// Manifest parses InfoFile once and caches the outcome.
func (r *Files) Manifest() (*manifest.Manifest, error) {
	r.once.Do(func() {
		r.manifest, r.err = manifest.Parse(context.Background(), []byte(r.InfoFile))
		if r.err == nil && len(r.manifest.Exercises) != len(r.ExerciseFiles) {
			r.manifest, r.err = nil, fmt.Errorf("manifest declares %d exercises, table embeds %d", len(r.manifest.Exercises), len(r.ExerciseFiles))
		}
	})
	return r.manifest, r.err
}

func (r *Files) Exercise(i int) (*ExerciseFiles, error) {
	if i < 0 || i >= len(r.ExerciseFiles) {
		return nil, fmt.Errorf("exercise index %d out of range [0, %d)", i, len(r.ExerciseFiles))
	}
	return &r.ExerciseFiles[i], nil
}

func (r *Files) Dir(i int) (*ExerciseDir, error) {
	if i < 0 || i >= len(r.ExerciseDirs) {
		return nil, fmt.Errorf("directory index %d out of range [0, %d)", i, len(r.ExerciseDirs))
	}
	return &r.ExerciseDirs[i], nil
}

func (r *Files) Lookup(name string) (int, bool) {
	m, err := r.Manifest()
	if err != nil {
		return 0, false
	}
	return m.Lookup(name)
}

func (r *Files) layout() *resource.Layout {
	if r.Layout == nil {
		return resource.DefaultLayout()
	}
	return r.Layout
}

// names resolves the exercise name and group of entry i.
func (r *Files) names(i int) (string, string, error) {
	m, err := r.Manifest()
	if err != nil {
		return "", "", err
	}
	exercise, err := r.Exercise(i)
	if err != nil {
		return "", "", err
	}
	dir, err := r.Dir(exercise.DirIndex)
	if err != nil {
		return "", "", err
	}
	return m.Exercises[i].Name, dir.Name, nil
}

// InitDirectory writes every readme and exercise stub below root. It refuses
// to touch an existing exercise root.
func (r *Files) InitDirectory(root string) error {
	layout := r.layout()
	exerciseRoot := filepath.Join(root, filepath.FromSlash(layout.ExerciseRoot))

	// * check existing
	if _, err := os.Stat(exerciseRoot); err == nil {
		return fmt.Errorf("directory %s already exists", exerciseRoot)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to stat %s: %w", exerciseRoot, err)
	}

	// * write readmes
	for _, dir := range r.ExerciseDirs {
		if err := writeFile(filepath.Join(root, filepath.FromSlash(layout.ReadmePath(dir.Name))), dir.Readme); err != nil {
			return err
		}
	}

	// * write stubs
	for i := range r.ExerciseFiles {
		name, group, err := r.names(i)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(root, filepath.FromSlash(layout.ExercisePath(group, name))), r.ExerciseFiles[i].Exercise); err != nil {
			return err
		}
	}

	slog.Debug("embedded.init", "root", root, "exercises", len(r.ExerciseFiles), "dirs", len(r.ExerciseDirs))
	return nil
}

// WriteExercise restores the stub of exercise i to path.
func (r *Files) WriteExercise(i int, path string) error {
	exercise, err := r.Exercise(i)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, exercise.Exercise, 0o644); err != nil {
		return fmt.Errorf("unable to write exercise %s: %w", path, err)
	}
	return nil
}

// WriteSolution writes the solution of exercise i below root and returns the
// path it was written to.
func (r *Files) WriteSolution(root string, i int) (string, error) {
	name, group, err := r.names(i)
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, filepath.FromSlash(r.layout().SolutionPath(group, name)))
	if err := writeFile(path, r.ExerciseFiles[i].Solution); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}
