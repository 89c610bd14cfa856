package source

import "sync"

type (
	// FileID uniquely identifies a source buffer within a FileSet.
	FileID uint32 // identity of the buffer a span points into
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHasBOM                        // начинается с UTF-8 BOM
	FileHasCRLF                       // встречается \r\n
)

// File captures metadata and content for a single source buffer.
// Content is never mutated after the file is added to a FileSet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	// строится лениво при первом запросе позиции
	lineOnce sync.Once
	lineIdx  []uint32
}

// LineCol represents a human-readable position in a source file.
// Col counts Unicode scalar values, not bytes.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
