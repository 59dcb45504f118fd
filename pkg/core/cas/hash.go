package cas

import (
	"encoding/binary"
	"math"

	"github.com/mr-tron/base58"
)

// hashCombiner accumulates an FNV-1a style structural hash: combine(kind,
// children hashes in child order). Every node kind uses the same combiner
// so that equal values always produce equal hashes regardless of which
// algebra they belong to.
type hashCombiner struct {
	h uint64
}

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func newHash() hashCombiner { return hashCombiner{h: fnvOffset64} }

func (c hashCombiner) mix(x uint64) hashCombiner {
	c.h ^= x
	c.h *= fnvPrime64
	return c
}

func (c hashCombiner) mixString(s string) hashCombiner {
	h := c
	for i := 0; i < len(s); i++ {
		h.h ^= uint64(s[i])
		h.h *= fnvPrime64
	}
	return h
}

func (c hashCombiner) mixFloat(f float64) hashCombiner {
	return c.mix(math.Float64bits(f))
}

func (c hashCombiner) sum() uint64 { return c.h }

// encodeID renders a structural hash as a short, collision-resistant,
// non-numeric identifier — used by the ID() method of each expression
// type for debug output.
func encodeID(h uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h)
	return base58.Encode(buf[:])
}
