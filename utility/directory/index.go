package directory

import (
	"context"
	"log/slog"

	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/utility/manifest"
)

// Index is the deduplicated group table of a manifest. Groups is in
// first-occurrence order and Indices[i] is the position of exercise i's
// group in Groups.
type Index struct {
	Groups  []string `json:"groups"`
	Indices []int    `json:"indices"`
	lookup  map[string]int
}

func New(ctx context.Context, exercises []*manifest.Exercise) *Index {
	// * start span
	s, _ := lessonpack.With(ctx)
	defer s.End()

	index := &Index{
		Groups:  make([]string, 0, 32),
		Indices: make([]int, len(exercises)),
		lookup:  make(map[string]int),
	}

	for i, exercise := range exercises {
		index.Indices[i] = index.insert(exercise.Dir)
	}

	s.Variable("groups", len(index.Groups))
	slog.Debug("directory.index", "exercises", len(exercises), "groups", len(index.Groups))

	return index
}

func (r *Index) insert(group string) int {
	// * exercises of one group are usually declared together
	if last := len(r.Groups) - 1; last >= 0 && r.Groups[last] == group {
		return last
	}

	if i, ok := r.lookup[group]; ok {
		return i
	}

	r.Groups = append(r.Groups, group)
	r.lookup[group] = len(r.Groups) - 1
	return len(r.Groups) - 1
}

// Group returns the group of exercise i.
func (r *Index) Group(i int) string {
	return r.Groups[r.Indices[i]]
}

// Members returns the exercise indices of group g in manifest order.
func (r *Index) Members(g int) []int {
	members := make([]int, 0)
	for i, index := range r.Indices {
		if index == g {
			members = append(members, i)
		}
	}
	return members
}
