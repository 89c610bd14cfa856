package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"nafi/internal/source"
)

// combineDigest: H(content || salt1 || salt2 ...). Порядок соли фиксирован.
func combineDigest(content Digest, salts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, s := range salts {
		_, _ = h.Write(s)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// cacheKey mixes the tree schema into the file hash so that a schema bump
// never reads payloads written by an older build.
func cacheKey(file *source.File) Digest {
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	return combineDigest(Digest(file.Hash), []byte("nafi-syntax"), schema[:])
}
