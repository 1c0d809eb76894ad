package manifest

// Exercise is one [[exercises]] entry. Only Name and Dir are needed to build
// the table; the remaining fields belong to the consuming CLI and are kept
// so it can re-read them from the embedded manifest.
type Exercise struct {
	Name              string  `toml:"name" validate:"required,excludesall=/\\"`
	Dir               string  `toml:"dir" validate:"required"`
	Hint              *string `toml:"hint"`
	Test              *bool   `toml:"test"`
	StrictClippy      *bool   `toml:"strict_clippy"`
	SkipCheckUnsolved *bool   `toml:"skip_check_unsolved"`
}

type Manifest struct {
	Raw            string      `toml:"-"`
	FormatVersion  *int        `toml:"format_version"`
	WelcomeMessage *string     `toml:"welcome_message"`
	FinalMessage   *string     `toml:"final_message"`
	Exercises      []*Exercise `toml:"exercises"`
}

// Lookup returns the declaration index of the named exercise.
func (r *Manifest) Lookup(name string) (int, bool) {
	for i, exercise := range r.Exercises {
		if exercise.Name == name {
			return i, true
		}
	}
	return -1, false
}
