// Package gadgets holds the in-circuit building blocks shared by the three
// top-level circuits: the domain-separated Pedersen combine-hash, the
// Merkle tree/path gadgets built on it, field equality, boolean
// publication, and the friend-counting/threshold check.
package gadgets

import (
	"math/big"

	tedwardsID "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	native "github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/linbeier/zk-transfer/config"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
)

// NewCurve instantiates the Jubjub-over-BLS12-381 in-circuit curve gadget
// for the lifetime of a single Define call.
func NewCurve(api frontend.API) (*native.Curve, error) {
	curve, err := native.NewEdCurve(api, tedwardsID.BLS12_381)
	if err != nil {
		return nil, err
	}
	return &curve, nil
}

// generatorPoint returns the circuit-constant generator point for p,
// derived once (process-wide, via pkg/jubjub) and baked in as a pair of
// frontend.Variable constants, the same way circuits/fsp/circuit.go bakes
// in its zero-subtree hashes.
func generatorPoint(p jubjub.Personalization) native.Point {
	x, y := jubjub.GeneratorCoords(p)
	return native.Point{
		X: frontend.Variable(new(big.Int).Set(x)),
		Y: frontend.Variable(new(big.Int).Set(y)),
	}
}

// windowGeneratorPoint returns the circuit-constant generator point
// assigned to window index `window` of personalization p's Pedersen
// combine-hash — the in-circuit twin of jubjub.WindowGeneratorCoords.
func windowGeneratorPoint(p jubjub.Personalization, window int) native.Point {
	x, y := jubjub.WindowGeneratorCoords(p, window)
	return native.Point{
		X: frontend.Variable(new(big.Int).Set(x)),
		Y: frontend.Variable(new(big.Int).Set(y)),
	}
}

// CombineHash decomposes xl and xr into config.NumBits-length little-endian
// bit vectors, concatenates them (xl bits || xr bits), and evaluates the
// windowed, domain-separated Pedersen hash for personalization p: the
// concatenated bit vector is split into config.PedersenWindowBits-wide
// windows, each window's bits are reconstructed into its own exponent via
// api.FromBinary and scalar-multiplied against that window's own
// independent generator, and the window terms are summed as curve points.
// It returns the x-coordinate of the resulting point. A single scalar
// multiplication of one shared generator over the whole reconstructed
// integer would make the hash a group homomorphism — and so trivially
// non-collision-resistant, since any two preimages congruent modulo the
// subgroup order would hash identically and a colliding preimage could be
// solved for directly. Every call site must use the tag the statement
// requires — mixing tags breaks soundness.
func CombineHash(api frontend.API, curve *native.Curve, p jubjub.Personalization, xl, xr frontend.Variable) frontend.Variable {
	xlBits := api.ToBinary(xl, config.NumBits)
	xrBits := api.ToBinary(xr, config.NumBits)

	preimage := make([]frontend.Variable, 0, len(xlBits)+len(xrBits))
	preimage = append(preimage, xlBits...)
	preimage = append(preimage, xrBits...)

	windowBits := config.PedersenWindowBits
	acc := native.Point{X: frontend.Variable(0), Y: frontend.Variable(1)}
	for start, window := 0, 0; start < len(preimage); start, window = start+windowBits, window+1 {
		end := start + windowBits
		if end > len(preimage) {
			end = len(preimage)
		}

		value := api.FromBinary(preimage[start:end]...)
		term := curve.ScalarMul(windowGeneratorPoint(p, window), value)
		acc = curve.Add(acc, term)
	}

	return acc.X
}
