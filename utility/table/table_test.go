package table

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	_ "go.scnd.dev/open/lessonpack/core"
	"go.scnd.dev/open/lessonpack/package/erroring"
	"go.scnd.dev/open/lessonpack/utility/directory"
	"go.scnd.dev/open/lessonpack/utility/manifest"
	"go.scnd.dev/open/lessonpack/utility/resource"
)

const scenario = `[[exercises]]
name = "a"
dir = "g1"

[[exercises]]
name = "b"
dir = "g2"

[[exercises]]
name = "c"
dir = "g1"
`

func scenarioFS() fstest.MapFS {
	return fstest.MapFS{
		"info.toml":              {Data: []byte(scenario)},
		"exercises/g1/README.md": {Data: []byte("# g1\n")},
		"exercises/g2/README.md": {Data: []byte("# g2\n")},
		"exercises/g1/a.rs":      {Data: []byte("// a\n")},
		"exercises/g2/b.rs":      {Data: []byte("// b\x00\xff\n")},
		"exercises/g1/c.rs":      {Data: []byte("// c\r\n")},
		"solutions/g1/a.rs":      {Data: []byte("// a solved\n")},
		"solutions/g2/b.rs":      {Data: []byte("// b solved\n")},
		"solutions/g1/c.rs":      {Data: []byte("// c solved\n")},
		"exercises/g3/README.md": {Data: []byte("# unused\n")},
		"solutions/g3/unused.rs": {Data: []byte("unused")},
	}
}

func TestCompileScenario(t *testing.T) {
	ctx := context.Background()
	files := scenarioFS()
	table, err := Compile(ctx, []byte(scenario), resource.NewFS(files), nil)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}

	if table.Manifest != scenario {
		t.Error("Expected manifest text to be kept verbatim")
	}

	// * groups in first-occurrence order
	if len(table.Groups) != 2 || table.Groups[0].Name != "g1" || table.Groups[1].Name != "g2" {
		t.Fatalf("Unexpected groups %+v", table.Groups)
	}

	// * exercises index aligned with the manifest
	names := []string{"a", "b", "c"}
	indices := []int{0, 1, 0}
	if len(table.Exercises) != len(names) {
		t.Fatalf("Expected %d exercises, got %d", len(names), len(table.Exercises))
	}
	for i, exercise := range table.Exercises {
		if exercise.Name != names[i] {
			t.Errorf("Exercise %d: expected %s, got %s", i, names[i], exercise.Name)
		}
		if exercise.GroupIndex != indices[i] {
			t.Errorf("Exercise %d: expected group index %d, got %d", i, indices[i], exercise.GroupIndex)
		}
	}
}

func TestCompileRoundTrip(t *testing.T) {
	ctx := context.Background()
	files := scenarioFS()
	layout := resource.DefaultLayout()
	table, err := Compile(ctx, []byte(scenario), resource.NewFS(files), layout)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}

	for i, exercise := range table.Exercises {
		group := table.Groups[exercise.GroupIndex].Name

		// * paths rebuilt from the group table match the embedded ones
		if path := layout.ExercisePath(group, exercise.Name); path != exercise.ExercisePath {
			t.Errorf("Exercise %d: expected path %s, got %s", i, path, exercise.ExercisePath)
		}
		if path := layout.SolutionPath(group, exercise.Name); path != exercise.SolutionPath {
			t.Errorf("Exercise %d: expected solution path %s, got %s", i, path, exercise.SolutionPath)
		}

		// * payloads are the exact file contents
		if string(files[exercise.ExercisePath].Data) != string(exercise.Exercise) {
			t.Errorf("Exercise %d: stub bytes differ", i)
		}
		if string(files[exercise.SolutionPath].Data) != string(exercise.Solution) {
			t.Errorf("Exercise %d: solution bytes differ", i)
		}
	}

	for _, group := range table.Groups {
		if string(files[layout.ReadmePath(group.Name)].Data) != string(group.Readme) {
			t.Errorf("Group %s: readme bytes differ", group.Name)
		}
	}
}

func TestCompileMissingExercise(t *testing.T) {
	ctx := context.Background()
	files := scenarioFS()
	delete(files, "exercises/g2/b.rs")

	table, err := Compile(ctx, []byte(scenario), resource.NewFS(files), nil)
	if table != nil {
		t.Fatal("Expected no table on failure")
	}

	var missingErr *erroring.MissingResourceError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Expected MissingResourceError, got %v", err)
	}
	if missingErr.Path != "exercises/g2/b.rs" {
		t.Errorf("Expected path exercises/g2/b.rs, got %s", missingErr.Path)
	}
	if missingErr.Kind != erroring.ResourceKindExercise {
		t.Errorf("Expected exercise kind, got %s", missingErr.Kind)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("Expected cause to be fs.ErrNotExist")
	}
}

func TestCompileMissingSolutionAndReadme(t *testing.T) {
	ctx := context.Background()

	files := scenarioFS()
	delete(files, "solutions/g1/c.rs")
	_, err := Compile(ctx, []byte(scenario), resource.NewFS(files), nil)
	var missingErr *erroring.MissingResourceError
	if !errors.As(err, &missingErr) || missingErr.Path != "solutions/g1/c.rs" || missingErr.Kind != erroring.ResourceKindSolution {
		t.Errorf("Expected missing solutions/g1/c.rs, got %v", err)
	}

	files = scenarioFS()
	delete(files, "exercises/g2/README.md")
	_, err = Compile(ctx, []byte(scenario), resource.NewFS(files), nil)
	if !errors.As(err, &missingErr) || missingErr.Path != "exercises/g2/README.md" || missingErr.Kind != erroring.ResourceKindReadme {
		t.Errorf("Expected missing exercises/g2/README.md, got %v", err)
	}
}

func TestCompileMalformedManifest(t *testing.T) {
	ctx := context.Background()
	text := "[[exercises]]\ndir = \"g1\"\n"
	table, err := Compile(ctx, []byte(text), resource.NewFS(scenarioFS()), nil)
	if table != nil {
		t.Fatal("Expected no table on failure")
	}

	var formatErr *erroring.ManifestFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected ManifestFormatError, got %v", err)
	}
}

func TestCompileFrom(t *testing.T) {
	ctx := context.Background()
	builder := NewBuilder(resource.NewFS(scenarioFS()), nil)

	table, err := builder.CompileFrom(ctx, "info.toml")
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	if len(table.Exercises) != 3 {
		t.Errorf("Expected 3 exercises, got %d", len(table.Exercises))
	}

	_, err = builder.CompileFrom(ctx, "missing.toml")
	var missingErr *erroring.MissingResourceError
	if !errors.As(err, &missingErr) || missingErr.Kind != erroring.ResourceKindManifest {
		t.Errorf("Expected missing manifest error, got %v", err)
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compile(ctx, []byte(scenario), resource.NewFS(scenarioFS()), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	var missingErr *erroring.MissingResourceError
	if errors.As(err, &missingErr) {
		t.Error("Expected cancellation not to be reported as a missing resource")
	}
}

func TestBuildIndexMismatch(t *testing.T) {
	ctx := context.Background()
	m, err := manifest.Parse(ctx, []byte(scenario))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	index := directory.New(ctx, m.Exercises[:2])
	if _, err := NewBuilder(resource.NewFS(scenarioFS()), nil).Build(ctx, m, index); err == nil {
		t.Error("Expected mismatched index to be rejected")
	}
}

func TestFingerprint(t *testing.T) {
	ctx := context.Background()
	files := scenarioFS()

	first, err := Compile(ctx, []byte(scenario), resource.NewFS(files), nil)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	second, err := Compile(ctx, []byte(scenario), resource.NewFS(files), nil)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Error("Expected identical inputs to produce identical fingerprints")
	}
	if len(first.Fingerprint()) != 16 {
		t.Errorf("Expected 16 hex digits, got %s", first.Fingerprint())
	}

	files["solutions/g1/a.rs"] = &fstest.MapFile{Data: []byte("// a solved differently\n")}
	third, err := Compile(ctx, []byte(scenario), resource.NewFS(files), nil)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	if first.Fingerprint() == third.Fingerprint() {
		t.Error("Expected a payload change to change the fingerprint")
	}
}

type countingInstrument struct {
	mu        sync.Mutex
	exercises int
	groups    int
	missing   []string
	compiles  []bool
}

func (r *countingInstrument) ExerciseEmbedded(ctx context.Context, group string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises++
}

func (r *countingInstrument) GroupEmbedded(ctx context.Context, group string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups++
}

func (r *countingInstrument) ResourceMissing(ctx context.Context, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing = append(r.missing, kind)
}

func (r *countingInstrument) CompileDuration(ctx context.Context, duration time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiles = append(r.compiles, success)
}

func TestBuilderInstrument(t *testing.T) {
	ctx := context.Background()
	instrument := new(countingInstrument)

	builder := NewBuilder(resource.NewFS(scenarioFS()), nil)
	builder.Instrument = instrument
	if _, err := builder.Compile(ctx, []byte(scenario)); err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	if instrument.exercises != 3 || instrument.groups != 2 {
		t.Errorf("Expected 3 exercises and 2 groups, got %d and %d", instrument.exercises, instrument.groups)
	}

	files := scenarioFS()
	delete(files, "solutions/g2/b.rs")
	builder.Resolver = resource.NewFS(files)
	if _, err := builder.Compile(ctx, []byte(scenario)); err == nil {
		t.Fatal("Expected compile to fail")
	}
	if len(instrument.missing) != 1 || instrument.missing[0] != "solution" {
		t.Errorf("Expected one missing solution, got %v", instrument.missing)
	}
	if len(instrument.compiles) != 2 || !instrument.compiles[0] || instrument.compiles[1] {
		t.Errorf("Expected compile outcomes [true false], got %v", instrument.compiles)
	}
}
