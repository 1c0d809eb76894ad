package canvas

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/bsthun/gut"
	_ "go.scnd.dev/open/lessonpack/core"
	"go.scnd.dev/open/lessonpack/utility/resource"
	"go.scnd.dev/open/lessonpack/utility/table"
)

const manifestText = `[[exercises]]
name = "a"
dir = "g1"

[[exercises]]
name = "b"
dir = "g2"

[[exercises]]
name = "c"
dir = "g1"
`

func compileScenario(t *testing.T) *table.Table {
	t.Helper()
	files := fstest.MapFS{
		"exercises/g1/README.md": {Data: []byte("# g1 `quoted`\n")},
		"exercises/g2/README.md": {Data: []byte("# g2\n")},
		"exercises/g1/a.rs":      {Data: []byte("fn main() {\n\tprintln!(\"a\");\n}\n")},
		"exercises/g2/b.rs":      {Data: []byte("\x00\x01\xfe\xff binary")},
		"exercises/g1/c.rs":      {Data: []byte("")},
		"solutions/g1/a.rs":      {Data: []byte("// a solved\r\n")},
		"solutions/g2/b.rs":      {Data: []byte("// b solved ✓\n")},
		"solutions/g1/c.rs":      {Data: []byte("// c solved\n")},
	}

	compiled, err := table.Compile(context.Background(), []byte(manifestText), resource.NewFS(files), nil)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	return compiled
}

// byteLiterals collects the string literals wrapped in []byte conversions in
// source order.
func byteLiterals(t *testing.T, file *ast.File) []string {
	t.Helper()
	var literals []string
	ast.Inspect(file, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok || len(call.Args) != 1 {
			return true
		}
		if _, ok := call.Fun.(*ast.ArrayType); !ok {
			return true
		}
		literal, ok := call.Args[0].(*ast.BasicLit)
		if !ok || literal.Kind != token.STRING {
			return true
		}
		value, err := strconv.Unquote(literal.Value)
		if err != nil {
			t.Fatalf("Failed to unquote %s: %v", literal.Value, err)
		}
		literals = append(literals, value)
		return true
	})
	return literals
}

func keyedLiteral(t *testing.T, file *ast.File, key string) string {
	t.Helper()
	var value *string
	ast.Inspect(file, func(node ast.Node) bool {
		pair, ok := node.(*ast.KeyValueExpr)
		if !ok || value != nil {
			return true
		}
		ident, ok := pair.Key.(*ast.Ident)
		if !ok || ident.Name != key {
			return true
		}
		literal, ok := pair.Value.(*ast.BasicLit)
		if !ok {
			return true
		}
		unquoted, err := strconv.Unquote(literal.Value)
		if err != nil {
			t.Fatalf("Failed to unquote %s: %v", literal.Value, err)
		}
		value = &unquoted
		return false
	})
	if value == nil {
		t.Fatalf("Key %s not found", key)
	}
	return *value
}

func TestRenderRoundTrip(t *testing.T) {
	compiled := compileScenario(t)
	source, err := Render(context.Background(), compiled, nil)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	fileSet := token.NewFileSet()
	file, err := parser.ParseFile(fileSet, "embedded_files.go", source, parser.ParseComments)
	if err != nil {
		t.Fatalf("Generated source does not parse: %v\n%s", err, source)
	}

	if !ast.IsGenerated(file) {
		t.Error("Expected generated code marker")
	}
	if !IsGenerated(source) {
		t.Error("Expected IsGenerated to recognise rendered output")
	}
	if file.Name.Name != "main" {
		t.Errorf("Expected package main, got %s", file.Name.Name)
	}

	// * payloads unquote to the exact bytes in manifest order
	var expected []string
	for _, exercise := range compiled.Exercises {
		expected = append(expected, string(exercise.Exercise), string(exercise.Solution))
	}
	for _, group := range compiled.Groups {
		expected = append(expected, string(group.Readme))
	}
	literals := byteLiterals(t, file)
	if len(literals) != len(expected) {
		t.Fatalf("Expected %d payloads, got %d", len(expected), len(literals))
	}
	for i := range expected {
		if literals[i] != expected[i] {
			t.Errorf("Payload %d: expected %q, got %q", i, expected[i], literals[i])
		}
	}

	if info := keyedLiteral(t, file, "InfoFile"); info != manifestText {
		t.Errorf("Expected manifest text verbatim, got %q", info)
	}
	if fingerprint := keyedLiteral(t, file, "Fingerprint"); fingerprint != compiled.Fingerprint() {
		t.Errorf("Expected fingerprint %s, got %s", compiled.Fingerprint(), fingerprint)
	}
	if root := keyedLiteral(t, file, "ExerciseRoot"); root != "exercises" {
		t.Errorf("Expected exercise root exercises, got %s", root)
	}

	// * group indices
	if !strings.Contains(string(source), "DirIndex: 1,") {
		t.Error("Expected a second group index in output")
	}
}

func TestRenderStable(t *testing.T) {
	compiled := compileScenario(t)
	first, err := Render(context.Background(), compiled, nil)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	second, err := Render(context.Background(), compileScenario(t), nil)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	if string(first) != string(second) {
		t.Error("Expected identical inputs to render identical output")
	}
}

func TestRenderOption(t *testing.T) {
	compiled := compileScenario(t)
	source, err := Render(context.Background(), compiled, &Option{
		Package:  gut.Ptr("content"),
		Variable: gut.Ptr("lesson_files"),
		Source:   gut.Ptr("../info.toml"),
	})
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	file, err := parser.ParseFile(token.NewFileSet(), "", source, parser.ParseComments)
	if err != nil {
		t.Fatalf("Generated source does not parse: %v", err)
	}
	if file.Name.Name != "content" {
		t.Errorf("Expected package content, got %s", file.Name.Name)
	}
	if file.Scope.Lookup("LessonFiles") == nil {
		t.Error("Expected variable LessonFiles")
	}
	if !strings.HasPrefix(string(source), "// Code generated by lessonpack from ../info.toml. DO NOT EDIT.\n") {
		t.Errorf("Unexpected header: %s", strings.SplitN(string(source), "\n", 2)[0])
	}
}

func TestRenderInvalidOption(t *testing.T) {
	compiled := compileScenario(t)
	invalid := []*Option{
		{Package: gut.Ptr("func"), Variable: nil, Source: nil},
		{Package: gut.Ptr("my-package"), Variable: nil, Source: nil},
		{Package: nil, Variable: gut.Ptr("1files"), Source: nil},
		{Package: nil, Variable: gut.Ptr("embedded"), Source: nil},
		{Package: nil, Variable: gut.Ptr("_"), Source: nil},
	}
	for _, option := range invalid {
		if _, err := Render(context.Background(), compiled, option); err == nil {
			t.Errorf("Expected option %+v to be rejected", option)
		}
	}
}

func TestIdentifier(t *testing.T) {
	if id := Identifier("embedded_files"); id != "EmbeddedFiles" {
		t.Errorf("Expected EmbeddedFiles, got %s", id)
	}
	if id := Identifier("embeddedFiles"); id != "embeddedFiles" {
		t.Errorf("Expected embeddedFiles, got %s", id)
	}
}

func TestImport(t *testing.T) {
	imports := new(Import)
	if err := imports.AddImport(&ImportItem{Alias: nil, Path: gut.Ptr(PathEmbedded)}); err != nil {
		t.Fatalf("Failed to add import: %v", err)
	}
	if err := imports.AddImport(&ImportItem{Alias: nil, Path: gut.Ptr(PathEmbedded)}); err != nil {
		t.Errorf("Expected duplicate path to be ignored: %v", err)
	}
	if err := imports.AddImport(&ImportItem{Alias: nil, Path: gut.Ptr("example.com/other/embedded")}); err == nil {
		t.Error("Expected alias collision")
	}
	if err := imports.AddImport(&ImportItem{Alias: gut.Ptr("other"), Path: gut.Ptr("example.com/other/embedded")}); err != nil {
		t.Errorf("Failed to add aliased import: %v", err)
	}
	if len(imports.Imports) != 2 {
		t.Fatalf("Expected 2 imports, got %d", len(imports.Imports))
	}
	if spec := imports.Imports[0].Spec(); spec != `"go.scnd.dev/open/lessonpack/embedded"` {
		t.Errorf("Unexpected spec %s", spec)
	}
	if spec := imports.Imports[1].Spec(); spec != `other "example.com/other/embedded"` {
		t.Errorf("Unexpected spec %s", spec)
	}
}
