package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough to key an RNG stream.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// DatasetHash fingerprints the raw values a simulation was run on.
type DatasetHash Hash

func (h DatasetHash) String() string { return Hash(h).String() }

// HashFloats fingerprints one or more numeric columns. Column boundaries are
// part of the hash, so ([1,2],[3]) and ([1],[2,3]) differ.
func HashFloats(columns ...[]float64) DatasetHash {
	buf := make([]byte, 0, 64)
	var word [8]byte
	for _, col := range columns {
		binary.LittleEndian.PutUint64(word[:], uint64(len(col)))
		buf = append(buf, word[:]...)
		for _, v := range col {
			binary.LittleEndian.PutUint64(word[:], math.Float64bits(v))
			buf = append(buf, word[:]...)
		}
	}
	return DatasetHash(NewHash(buf))
}

// HashInts fingerprints integer-valued data such as label pools.
func HashInts(values ...int) DatasetHash {
	buf := make([]byte, 0, 8*len(values))
	var word [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(word[:], uint64(int64(v)))
		buf = append(buf, word[:]...)
	}
	return DatasetHash(NewHash(buf))
}

// HashString fingerprints a symbol sequence.
func HashString(s string) DatasetHash {
	return DatasetHash(NewHash([]byte(s)))
}
