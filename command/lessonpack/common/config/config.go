package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bsthun/gut"
	"gopkg.in/yaml.v3"
)

type Defaulter interface {
	Default()
}

// New reads name below directory. A missing file yields the defaults; the
// result is validated either way.
func New[T any](directory string, name string) (*T, error) {
	// * construct config file path
	configPath := name
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(directory, name)
	}

	// * create new config instance
	config := new(T)

	// * read config file
	bytes, err := os.ReadFile(configPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to read configuration file: %w", err)
	}

	if err == nil {
		// * process template replacements
		templated, err := Template(bytes)
		if err != nil {
			return nil, fmt.Errorf("error processing templates: %w", err)
		}

		// * parse config
		if err := yaml.Unmarshal(templated, config); err != nil {
			return nil, fmt.Errorf("unable to parse configuration file %s: %w", configPath, err)
		}
	}

	// * fill defaults
	if defaulter, ok := any(config).(Defaulter); ok {
		defaulter.Default()
	}

	// * validate config
	if err := gut.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

var templateRegex = regexp.MustCompile(`\{\{\s*([^}]+)\s*}}`)

func Template(bytes []byte) ([]byte, error) {
	processed := templateRegex.ReplaceAllFunc(bytes, func(match []byte) []byte {
		// * extract content inside braces
		content := strings.TrimSpace(string(match[2 : len(match)-2]))

		// * split by separator
		parts := strings.Split(content, "||")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}

		// * check each part
		for _, part := range parts {
			if strings.HasPrefix(part, "env.") {
				key := strings.TrimPrefix(part, "env.")
				value := os.Getenv(key)
				if value != "" {
					return []byte(value)
				}
			} else if part != "" {
				value, err := Nested(part)
				if err != nil {
					return []byte(part)
				}
				return []byte(value)
			}
		}

		// * no valid value found, return empty
		return []byte("")
	})

	return processed, nil
}

func Nested(value string) (string, error) {
	// * try to parse as json
	var result any
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return "", err
	}

	// * convert back to yaml
	bytes, err := yaml.Marshal(result)
	if err != nil {
		return "", err
	}

	// * remove trailing newline
	return strings.TrimSuffix(string(bytes), "\n"), nil
}
