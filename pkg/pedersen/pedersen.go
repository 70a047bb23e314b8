// Package pedersen implements the out-of-circuit twin of the Pedersen-hash
// gadget used inside every circuit in this system: witness preparation,
// Merkle tree construction, and the FFI façade's jubjub_hash entry point
// all call CombineHash directly so that values computed outside a circuit
// agree bit-for-bit with values the circuit itself constrains.
package pedersen

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	tedwards "github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"

	"github.com/linbeier/zk-transfer/config"
	"github.com/linbeier/zk-transfer/pkg/field"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
)

// CombineHash hashes xl and xr by decomposing each into its
// config.NumBits-length little-endian bit vector, concatenating
// (xl bits || xr bits), and evaluating the windowed, domain-separated
// Pedersen hash for personalization p: the concatenated bit vector is
// split into independent-generator windows and their contributions summed
// as curve points (see hashBits). It returns the x-coordinate of the
// resulting Jubjub point, reduced to the canonical BLS12-381 scalar-field
// representative.
func CombineHash(p jubjub.Personalization, xl, xr *big.Int) *big.Int {
	bits := make([]bool, 0, 2*config.NumBits)
	bits = appendLEBits(bits, xl, config.NumBits)
	bits = appendLEBits(bits, xr, config.NumBits)
	return hashBits(p, bits)
}

// hashBits evaluates the windowed Pedersen hash of bits: the bit vector is
// split into config.PedersenWindowBits-wide windows, each window's bits
// are reconstructed into a scalar exponent (a weighted sum of powers of
// two — exactly what the in-circuit api.FromBinary gadget computes over
// the same slice), reduced modulo the SNARK scalar field the way every
// in-circuit value inherently is, and scalar-multiplied against that
// window's own independent generator. The per-window points are summed,
// not the exponents — a single scalar multiplication of one shared
// generator would make the hash a group homomorphism of the reconstructed
// integer and trivially non-collision-resistant (any two preimages
// congruent mod the subgroup order would hash identically, and simple
// linear algebra over the windows would produce one on demand).
func hashBits(p jubjub.Personalization, bits []bool) *big.Int {
	cp := jubjub.Curve()

	var acc tedwards.PointAffine
	acc.X.SetZero()
	acc.Y.SetOne()

	windowBits := config.PedersenWindowBits
	for start, window := 0, 0; start < len(bits); start, window = start+windowBits, window+1 {
		end := start + windowBits
		if end > len(bits) {
			end = len(bits)
		}

		value := field.FromLEBits(bits[start:end])
		value.Mod(value, fr.Modulus())
		value.Mod(value, &cp.Order)

		g := jubjub.WindowGenerator(p, window)
		var term tedwards.PointAffine
		term.ScalarMultiplication(&g, value)

		var next tedwards.PointAffine
		next.Add(&acc, &term)
		acc = next
	}

	var result big.Int
	acc.X.BigInt(&result)
	return &result
}

func appendLEBits(bits []bool, v *big.Int, n int) []bool {
	return append(bits, field.LEBits(v, n)...)
}

// EncodeScalar serializes a scalar to config.HashSize little-endian bytes,
// the canonical wire format spec.md §6 mandates.
func EncodeScalar(v *big.Int) ([]byte, error) {
	var e fr.Element
	e.SetBigInt(v)

	be := e.Bytes() // canonical big-endian, config.HashSize bytes
	if len(be) != config.HashSize {
		return nil, fmt.Errorf("pedersen: unexpected scalar width %d", len(be))
	}
	return field.ReverseBytes(be[:]), nil
}

// DecodeScalar parses config.HashSize little-endian bytes into a scalar,
// rejecting values that are not a canonical representative in [0, r).
func DecodeScalar(b []byte) (*big.Int, error) {
	if len(b) != config.HashSize {
		return nil, fmt.Errorf("pedersen: expected %d bytes, got %d", config.HashSize, len(b))
	}
	be := field.ReverseBytes(b)

	v := new(big.Int).SetBytes(be)
	if v.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("pedersen: scalar %s is not a canonical representative mod r", v.String())
	}
	return v, nil
}
