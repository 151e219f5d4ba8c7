// Package config provides configuration structures and utilities for navcheck.
// It defines the validation options (root, strict mode, exclusions), output
// preferences, and the optional .navcheck YAML file that supplies defaults
// for a documentation tree.
package config
