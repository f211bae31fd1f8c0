// Package model defines the data structures shared by the validation coverage analyzer.
package model

// Path represents a file system path.
type Path string

// File identifies a Python source unit on disk together with a fingerprint
// of the content that was analyzed.
type File struct {
	Path Path   `yaml:"path"`
	Hash string `yaml:"hash"`
}

// Source is one analyzable unit discovered by the filesystem adapter.
type Source struct {
	Origin *File
	// Err is set when the unit was found but could not be read.
	Err error
}
