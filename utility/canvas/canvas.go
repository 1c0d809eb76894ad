package canvas

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"go/token"
	"log/slog"
	"strconv"
	"strings"
	"text/template"

	"github.com/bsthun/gut"
	"github.com/lithammer/dedent"
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/util"
	"go.scnd.dev/open/lessonpack/utility/resource"
	"go.scnd.dev/open/lessonpack/utility/table"
)

const (
	HeaderPrefix = "// Code generated by lessonpack"

	PathEmbedded = "go.scnd.dev/open/lessonpack/embedded"
	PathResource = "go.scnd.dev/open/lessonpack/utility/resource"
)

type Option struct {
	Package  *string `yaml:"package"`
	Variable *string `yaml:"variable"`
	Source   *string `yaml:"-"`
}

func DefaultOption() *Option {
	return &Option{
		Package:  gut.Ptr("main"),
		Variable: gut.Ptr("EmbeddedFiles"),
		Source:   gut.Ptr("info.toml"),
	}
}

var fileTemplate = template.Must(template.New("embedded").Parse(strings.TrimLeft(dedent.Dedent(`
	{{ .Header }} from {{ .Source }}. DO NOT EDIT.

	package {{ .Package }}

	import (
	{{- range .Imports }}
		{{ .Spec }}
	{{- end }}
	)

	var {{ .Variable }} = &embedded.Files{
		InfoFile:    {{ .InfoFile }},
		Fingerprint: {{ .Fingerprint }},
		Layout: &resource.Layout{
			ExerciseRoot: {{ .Layout.ExerciseRoot }},
			SolutionRoot: {{ .Layout.SolutionRoot }},
			Extension:    {{ .Layout.Extension }},
			Readme:       {{ .Layout.Readme }},
		},
		ExerciseFiles: []embedded.ExerciseFiles{
		{{- range .Exercises }}
			{
				Exercise: []byte({{ .Exercise }}),
				Solution: []byte({{ .Solution }}),
				DirIndex: {{ .DirIndex }},
			},
		{{- end }}
		},
		ExerciseDirs: []embedded.ExerciseDir{
		{{- range .Dirs }}
			{
				Name:   {{ .Name }},
				Readme: []byte({{ .Readme }}),
			},
		{{- end }}
		},
	}
`), "\n")))

type fileData struct {
	Header      string
	Source      string
	Package     string
	Variable    string
	Imports     []*ImportItem
	InfoFile    string
	Fingerprint string
	Layout      *layoutData
	Exercises   []*exerciseData
	Dirs        []*dirData
}

type layoutData struct {
	ExerciseRoot string
	SolutionRoot string
	Extension    string
	Readme       string
}

type exerciseData struct {
	Exercise string
	Solution string
	DirIndex int
}

type dirData struct {
	Name   string
	Readme string
}

// Render produces the gofmt'ed Go source declaring the table as a package
// level variable. Payloads are emitted as quoted literals.
func Render(ctx context.Context, t *table.Table, option *Option) ([]byte, error) {
	// * start span
	s, ctx := lessonpack.With(ctx)
	defer s.End()

	// * resolve option
	option = resolveOption(option)
	packageName := *option.Package
	if !token.IsIdentifier(packageName) || packageName == "_" {
		return nil, s.Error(fmt.Sprintf("invalid package name %q", packageName), nil)
	}
	variable := Identifier(*option.Variable)
	if !token.IsIdentifier(variable) || variable == "_" {
		return nil, s.Error(fmt.Sprintf("invalid variable name %q", *option.Variable), nil)
	}

	// * construct imports
	imports := new(Import)
	for _, path := range []string{PathEmbedded, PathResource} {
		if err := imports.AddImport(&ImportItem{Alias: nil, Path: gut.Ptr(path)}); err != nil {
			return nil, s.Error("unable to add import", err)
		}
	}
	if imports.Has(variable) {
		return nil, s.Error(fmt.Sprintf("variable name %q shadows an import", variable), nil)
	}

	// * construct data
	layout := t.Layout
	if layout == nil {
		layout = resource.DefaultLayout()
	}
	data := &fileData{
		Header:      HeaderPrefix,
		Source:      strings.ReplaceAll(*option.Source, "\n", " "),
		Package:     packageName,
		Variable:    variable,
		Imports:     imports.Imports,
		InfoFile:    strconv.Quote(t.Manifest),
		Fingerprint: strconv.Quote(t.Fingerprint()),
		Layout: &layoutData{
			ExerciseRoot: strconv.Quote(layout.ExerciseRoot),
			SolutionRoot: strconv.Quote(layout.SolutionRoot),
			Extension:    strconv.Quote(layout.Extension),
			Readme:       strconv.Quote(layout.Readme),
		},
		Exercises: make([]*exerciseData, 0, len(t.Exercises)),
		Dirs:      make([]*dirData, 0, len(t.Groups)),
	}
	for _, exercise := range t.Exercises {
		data.Exercises = append(data.Exercises, &exerciseData{
			Exercise: strconv.Quote(string(exercise.Exercise)),
			Solution: strconv.Quote(string(exercise.Solution)),
			DirIndex: exercise.GroupIndex,
		})
	}
	for _, group := range t.Groups {
		data.Dirs = append(data.Dirs, &dirData{
			Name:   strconv.Quote(group.Name),
			Readme: strconv.Quote(string(group.Readme)),
		})
	}

	// * execute template
	var buffer bytes.Buffer
	if err := fileTemplate.Execute(&buffer, data); err != nil {
		return nil, s.Error("unable to execute template", err)
	}

	// * format source
	source, err := format.Source(buffer.Bytes())
	if err != nil {
		return nil, s.Error("unable to format generated source", err)
	}

	s.Variable("bytes", len(source))
	slog.Debug("canvas.render", "package", packageName, "variable", variable, "bytes", len(source))

	return source, nil
}

// Identifier turns snake or kebab case into an exported identifier and
// leaves anything else untouched.
func Identifier(name string) string {
	if strings.ContainsAny(name, "_-") {
		return util.ToTitleCase(name)
	}
	return name
}

// IsGenerated reports whether content was written by Render.
func IsGenerated(content []byte) bool {
	return bytes.HasPrefix(content, []byte(HeaderPrefix))
}

func resolveOption(option *Option) *Option {
	defaults := DefaultOption()
	if option == nil {
		return defaults
	}

	resolved := *option
	if resolved.Package == nil || *resolved.Package == "" {
		resolved.Package = defaults.Package
	}
	if resolved.Variable == nil || *resolved.Variable == "" {
		resolved.Variable = defaults.Variable
	}
	if resolved.Source == nil || *resolved.Source == "" {
		resolved.Source = defaults.Source
	}
	return &resolved
}
