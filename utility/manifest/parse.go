package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/package/erroring"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// * report manifest keys instead of struct field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Parse decodes manifest text. Carriage returns are dropped before anything
// else so the embedded copy is identical on every platform. On error no
// manifest is returned.
func Parse(ctx context.Context, text []byte) (*Manifest, error) {
	// * start span
	s, _ := lessonpack.With(ctx)
	defer s.End()

	// * normalize line endings
	normalized := Normalize(text)

	// * check encoding
	if offset := invalidOffset(normalized); offset >= 0 {
		return nil, s.Error("manifest is not valid text", &erroring.EncodingError{Offset: offset})
	}

	// * decode structure
	manifest := new(Manifest)
	if err := toml.Unmarshal(normalized, manifest); err != nil {
		return nil, s.Error("unable to decode manifest", decodeError(err))
	}
	manifest.Raw = string(normalized)

	// * validate entries
	if err := Validate(manifest); err != nil {
		return nil, s.Error("invalid manifest", err)
	}

	s.Variable("exercises", len(manifest.Exercises))
	slog.Debug("manifest.parse", "exercises", len(manifest.Exercises), "bytes", len(normalized))

	return manifest, nil
}

// Validate checks the structural rules the decoder cannot express.
func Validate(manifest *Manifest) error {
	if len(manifest.Exercises) == 0 {
		return &erroring.ManifestFormatError{Message: "no exercises declared"}
	}

	seen := make(map[string]int, len(manifest.Exercises))
	for i, exercise := range manifest.Exercises {
		entry := i + 1
		if exercise == nil {
			return &erroring.ManifestFormatError{Entry: &entry, Message: "empty entry"}
		}

		// * check required fields
		if err := validate.Struct(exercise); err != nil {
			return fieldError(entry, err)
		}

		// * check directory shape
		if !fs.ValidPath(exercise.Dir) || exercise.Dir == "." {
			field := "dir"
			return &erroring.ManifestFormatError{
				Entry:   &entry,
				Field:   &field,
				Message: fmt.Sprintf("%q is not a relative slash separated path", exercise.Dir),
			}
		}

		// * check duplicates
		if first, ok := seen[exercise.Name]; ok {
			field := "name"
			return &erroring.ManifestFormatError{
				Entry:   &entry,
				Field:   &field,
				Message: fmt.Sprintf("exercise %q is already declared as exercise #%d", exercise.Name, first),
			}
		}
		seen[exercise.Name] = entry
	}

	return nil
}

// Normalize removes every carriage return.
func Normalize(text []byte) []byte {
	return bytes.ReplaceAll(text, []byte{'\r'}, nil)
}

func invalidOffset(text []byte) int {
	if utf8.Valid(text) {
		return -1
	}
	for offset := 0; offset < len(text); {
		r, size := utf8.DecodeRune(text[offset:])
		if r == utf8.RuneError && size <= 1 {
			return offset
		}
		offset += size
	}
	return -1
}

func decodeError(err error) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, column := decodeErr.Position()
		return &erroring.ManifestFormatError{
			Row:     row,
			Column:  column,
			Message: decodeErr.Error(),
			Err:     err,
		}
	}

	return &erroring.ManifestFormatError{
		Message: err.Error(),
		Err:     err,
	}
}

func fieldError(entry int, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &erroring.ManifestFormatError{Entry: &entry, Message: err.Error(), Err: err}
	}

	fieldErr := validationErrors[0]
	field := fieldErr.Field()

	var message string
	switch fieldErr.Tag() {
	case "required":
		message = "is required"
	case "excludesall":
		message = fmt.Sprintf("%q must not contain path separators", fieldErr.Value())
	default:
		message = fmt.Sprintf("failed %q validation", fieldErr.Tag())
	}

	return &erroring.ManifestFormatError{
		Entry:   &entry,
		Field:   &field,
		Message: message,
		Err:     err,
	}
}
