package resource

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Layout maps a (group, name) pair onto the slash separated paths of its
// stub, its solution and its group readme.
type Layout struct {
	ExerciseRoot string `json:"exercise_root" yaml:"exercise_root"`
	SolutionRoot string `json:"solution_root" yaml:"solution_root"`
	Extension    string `json:"extension" yaml:"extension"`
	Readme       string `json:"readme" yaml:"readme"`
}

func DefaultLayout() *Layout {
	return &Layout{
		ExerciseRoot: "exercises",
		SolutionRoot: "solutions",
		Extension:    "rs",
		Readme:       "README.md",
	}
}

func (r *Layout) ExercisePath(group string, name string) string {
	return path.Join(r.ExerciseRoot, group, r.file(name))
}

func (r *Layout) SolutionPath(group string, name string) string {
	return path.Join(r.SolutionRoot, group, r.file(name))
}

func (r *Layout) ReadmePath(group string) string {
	return path.Join(r.ExerciseRoot, group, r.Readme)
}

func (r *Layout) file(name string) string {
	return name + "." + strings.TrimPrefix(r.Extension, ".")
}

func (r *Layout) Validate() error {
	for key, root := range map[string]string{
		"exercise root": r.ExerciseRoot,
		"solution root": r.SolutionRoot,
	} {
		if !fs.ValidPath(root) {
			return fmt.Errorf("%s %q is not a relative slash separated path", key, root)
		}
	}
	if r.ExerciseRoot == r.SolutionRoot {
		return fmt.Errorf("exercise and solution roots are both %q", r.ExerciseRoot)
	}
	if strings.TrimPrefix(r.Extension, ".") == "" {
		return fmt.Errorf("extension is empty")
	}
	if r.Readme == "" || strings.ContainsAny(r.Readme, `/\`) {
		return fmt.Errorf("readme %q is not a file name", r.Readme)
	}
	return nil
}
