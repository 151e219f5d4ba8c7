package pipeline

import "errors"

// ErrRootUnreadable is returned when the validation root does not exist,
// is not a directory, or cannot be listed. It is the only error that stops
// a run; problems with individual files become findings.
var ErrRootUnreadable = errors.New("root directory is not readable")
