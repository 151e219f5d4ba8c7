// Package graph cross-references extracted links against the document
// index and the filesystem and produces findings.
//
// The checker never touches the real filesystem directly: it works on an
// fs.FS rooted at the validation root, which keeps it side-effect free and
// lets tests run against fstest.MapFS.
package graph
