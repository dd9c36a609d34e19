// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// File represents a source code file.
type File struct {
	ShortPath Path // relative to the project root
	FullPath  Path
	Hash      string
}

// Source represents a Go source file selected for mutation together with the
// project it belongs to.
type Source struct {
	Root   Path
	Origin *File
}
