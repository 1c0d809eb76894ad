package erroring

import (
	"fmt"
	"strings"
)

type ResourceKind string

const (
	ResourceKindManifest ResourceKind = "manifest"
	ResourceKindExercise ResourceKind = "exercise"
	ResourceKindSolution ResourceKind = "solution"
	ResourceKindReadme   ResourceKind = "readme"
)

// ManifestFormatError reports a manifest that does not match the expected
// schema. Entry is 1-based; Row and Column are zero when the decoder gave no
// position.
type ManifestFormatError struct {
	Entry   *int    `json:"entry,omitempty"`
	Field   *string `json:"field,omitempty"`
	Row     int     `json:"row,omitempty"`
	Column  int     `json:"column,omitempty"`
	Message string  `json:"message"`
	Err     error   `json:"-"`
}

func (r *ManifestFormatError) Error() string {
	var builder strings.Builder
	builder.WriteString("malformed manifest")
	if r.Row > 0 {
		fmt.Fprintf(&builder, " at line %d, column %d", r.Row, r.Column)
	}
	if r.Entry != nil {
		fmt.Fprintf(&builder, ", exercise #%d", *r.Entry)
	}
	if r.Field != nil {
		fmt.Fprintf(&builder, ", field %q", *r.Field)
	}
	builder.WriteString(": ")
	builder.WriteString(r.Message)
	return builder.String()
}

func (r *ManifestFormatError) Unwrap() error {
	return r.Err
}

// MissingResourceError reports a path that could not be read while building
// the table. Owner names the manifest entry or group that needed it.
type MissingResourceError struct {
	Kind  ResourceKind `json:"kind"`
	Path  string       `json:"path"`
	Owner string       `json:"owner,omitempty"`
	Err   error        `json:"-"`
}

func (r *MissingResourceError) Error() string {
	message := fmt.Sprintf("missing %s resource %q", r.Kind, r.Path)
	if r.Owner != "" {
		message += " required by " + r.Owner
	}
	if r.Err != nil {
		message += ": " + r.Err.Error()
	}
	return message
}

func (r *MissingResourceError) Unwrap() error {
	return r.Err
}

type EncodingError struct {
	Offset int `json:"offset"`
}

func (r *EncodingError) Error() string {
	return fmt.Sprintf("manifest is not valid UTF-8 at byte offset %d", r.Offset)
}
