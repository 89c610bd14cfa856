package source

import (
	"bytes"
	"path/filepath"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// detectLayout только смотрит на содержимое: BOM и \r\n остаются в буфере,
// лексер отдаёт их как Invalid и Whitespace.
func detectLayout(content []byte) FileFlags {
	var flags FileFlags
	if bytes.HasPrefix(content, utf8BOM) {
		flags |= FileHasBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	return flags
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// lineStart returns the 0-based line number and the byte offset where that line starts.
func lineStart(lineIdx []uint32, off uint32) (line int, start uint32) {
	// бинпоиск: находим количество '\n' строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0, 0
	}
	return lo, lineIdx[lo-1] + 1
}

func toLineCol(content []byte, lineIdx []uint32, off uint32) LineCol {
	if off > uint32(len(content)) {
		off = uint32(len(content))
	}
	line, start := lineStart(lineIdx, off)
	col := utf8.RuneCount(content[start:off])
	return LineCol{Line: uint32(line + 1), Col: uint32(col + 1)}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
