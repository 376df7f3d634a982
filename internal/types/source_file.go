package types

import "time"

// SourceFile is the metadata a graph's file_index keeps about an indexed
// file, independent of the nodes it contains.
type SourceFile struct {
	Path      string
	SizeBytes int64
	LineCount int
	ModTime   time.Time
}

// NewSourceFile builds a SourceFile record.
func NewSourceFile(path string, sizeBytes int64, lineCount int) SourceFile {
	return SourceFile{Path: path, SizeBytes: sizeBytes, LineCount: lineCount}
}
