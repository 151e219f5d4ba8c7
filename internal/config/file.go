package config

// File represents the structure of the .navcheck configuration file.
//
// Every field is optional. Pointer fields distinguish "not set" from the
// zero value so that a file can turn strict mode off explicitly.
type File struct {
	// Strict makes warnings fail the run.
	Strict *bool `yaml:"strict,omitempty"`

	// Exclude are glob patterns of documents and directories to skip.
	Exclude []string `yaml:"exclude,omitempty"`

	// IgnoreTargets are glob patterns of link targets that are never reported.
	IgnoreTargets []string `yaml:"ignoreTargets,omitempty"`

	// Extensions are the file extensions treated as markdown.
	Extensions []string `yaml:"extensions,omitempty"`

	// Workers is the number of documents parsed concurrently.
	Workers int `yaml:"workers,omitempty"`
}

// Flag names that a File can supply. They match the CLI flag names so that
// cobra's Flags().Changed can be passed to Apply directly.
const (
	FlagStrict        = "strict"
	FlagExclude       = "exclude"
	FlagIgnoreTargets = "ignore-target"
	FlagExtensions    = "ext"
	FlagWorkers       = "workers"
)

// Apply copies the file's values into c for every option the user did not
// set on the command line. changed reports whether a flag was given; a nil
// changed means no flag was given.
func (f *File) Apply(c *Config, changed func(name string) bool) {
	if f == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if f.Strict != nil && !changed(FlagStrict) {
		c.Strict = *f.Strict
	}
	if len(f.Exclude) > 0 && !changed(FlagExclude) {
		c.Exclude = append([]string(nil), f.Exclude...)
	}
	if len(f.IgnoreTargets) > 0 && !changed(FlagIgnoreTargets) {
		c.IgnoreTargets = append([]string(nil), f.IgnoreTargets...)
	}
	if len(f.Extensions) > 0 && !changed(FlagExtensions) {
		c.Extensions = append([]string(nil), f.Extensions...)
	}
	if f.Workers != 0 && !changed(FlagWorkers) {
		c.Workers = f.Workers
	}
}
