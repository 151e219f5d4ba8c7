package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrEmptyRoot is returned when the root directory is an empty string.
	ErrEmptyRoot = errors.New("invalid root: must not be empty")

	// ErrInvalidFormat is returned when the report format is not text, json or markdown.
	ErrInvalidFormat = errors.New("invalid format: must be one of text, json, markdown")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidExtension is returned when an extension does not start with a dot.
	ErrInvalidExtension = errors.New("invalid extension: must start with '.' (for example .md)")

	// ErrInvalidPattern is returned when an exclude or ignore pattern is malformed.
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidDebounce is returned when the watch debounce is not positive.
	ErrInvalidDebounce = errors.New("invalid watch debounce: must be positive")

	// ErrConflictingOutput is returned when --watch is combined with --output.
	// Watch mode prints each run to the terminal; a file would only keep the last one.
	ErrConflictingOutput = errors.New("conflicting options: --watch cannot be used with --output")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFile is returned when the configuration file cannot be decoded.
	ErrInvalidConfigFile = errors.New("invalid configuration file")
)
