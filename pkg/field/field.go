// Package field holds the little-endian bit-decomposition and fixed-width
// byte-encoding helpers used by pkg/pedersen (the circuit gadgets use
// api.ToBinary/api.FromBinary directly).
// Every scalar in this system is fixed-width (config.HashSize bytes,
// config.NumBits bits); these helpers encode that shape once instead of
// scattering buffer-sizing logic across callers.
package field

import (
	"fmt"
	"math/big"
)

// LEBits returns the n-bit little-endian bit decomposition of v (v.Bit(0)
// first). This is the out-of-circuit twin of api.ToBinary(v, n).
func LEBits(v *big.Int, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = v.Bit(i) == 1
	}
	return bits
}

// FromLEBits reconstructs the scalar a little-endian bit vector encodes —
// the weighted sum Σ bits[i]·2^i — the out-of-circuit twin of
// api.FromBinary(bits...). The result is not reduced to any field; callers
// reduce modulo the relevant modulus themselves.
func FromLEBits(bits []bool) *big.Int {
	out := new(big.Int)
	weight := new(big.Int).SetInt64(1)
	for _, b := range bits {
		if b {
			out.Add(out, weight)
		}
		weight.Lsh(weight, 1)
	}
	return out
}

// ToFixedBytes encodes v as size big-endian bytes, reusing buf's backing
// array when its capacity is at least size (buf may be nil). It panics if v does not fit —
// callers are expected to have already reduced v modulo a size-byte field.
func ToFixedBytes(v *big.Int, size int, buf []byte) []byte {
	if cap(buf) < size {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
		for i := range buf {
			buf[i] = 0
		}
	}
	vb := v.Bytes()
	if len(vb) > size {
		panic(fmt.Sprintf("field: value does not fit in %d bytes", size))
	}
	copy(buf[size-len(vb):], vb)
	return buf
}

// ReverseBytes returns a newly allocated, byte-order-reversed copy of b —
// the big-endian/little-endian conversion every scalar on the wire needs,
// since gnark-crypto's canonical Element encoding is big-endian but
// spec.md §6 fixes the wire format as little-endian.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
