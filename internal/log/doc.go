// Package log provides the application's slog setup.
//
// Log output goes to stderr and is kept apart from the report on stdout.
// The PathHandler wrapper rewrites the user's home directory to "~" in
// every string attribute, error attribute and message, so logs pasted into
// issues or CI output do not leak local account names.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("discovered documents", "root", "/home/alice/docs")
//	// root=~/docs
package log
