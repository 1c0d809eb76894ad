package table

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
	"go.scnd.dev/open/lessonpack/utility/resource"
)

type Exercise struct {
	Name         string `json:"name"`
	ExercisePath string `json:"exercise_path"`
	SolutionPath string `json:"solution_path"`
	Exercise     []byte `json:"-"`
	Solution     []byte `json:"-"`
	GroupIndex   int    `json:"group_index"`
}

type Group struct {
	Name       string `json:"name"`
	ReadmePath string `json:"readme_path"`
	Readme     []byte `json:"-"`
}

// Table is the compiled resource table. Exercises is index aligned with the
// manifest and Groups is in first-occurrence order.
type Table struct {
	Manifest  string           `json:"manifest"`
	Layout    *resource.Layout `json:"layout"`
	Exercises []*Exercise      `json:"exercises"`
	Groups    []*Group         `json:"groups"`
}

func (r *Table) Size() int64 {
	var size int64
	for _, exercise := range r.Exercises {
		size += int64(len(exercise.Exercise) + len(exercise.Solution))
	}
	for _, group := range r.Groups {
		size += int64(len(group.Readme))
	}
	return size
}

// Fingerprint digests the manifest, the layout and every payload. It only
// changes when the generated table would change.
func (r *Table) Fingerprint() string {
	hasher := xxh3.New()
	write := func(content []byte) {
		_, _ = hasher.Write(binary.LittleEndian.AppendUint64(nil, uint64(len(content))))
		_, _ = hasher.Write(content)
	}

	write([]byte(r.Manifest))
	if r.Layout != nil {
		write([]byte(r.Layout.ExerciseRoot))
		write([]byte(r.Layout.SolutionRoot))
		write([]byte(r.Layout.Extension))
		write([]byte(r.Layout.Readme))
	}
	for _, exercise := range r.Exercises {
		write(exercise.Exercise)
		write(exercise.Solution)
		write(binary.LittleEndian.AppendUint64(nil, uint64(exercise.GroupIndex)))
	}
	for _, group := range r.Groups {
		write([]byte(group.Name))
		write(group.Readme)
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}
