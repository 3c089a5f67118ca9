package utils

import (
	"encoding/binary"
	"hash/fnv"
	"io"
)

// U64ToBytes returns u in big-endian order, the layout Mix64 hashes.
func U64ToBytes(u uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), u)
}

// FingerprintString is the fnv-64a hash of s. Node fingerprints are
// built from it.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, s)
	return h.Sum64()
}
