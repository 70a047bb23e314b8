// Package crypto holds the scalar-generation helpers shared by witness
// preparation and the test suites: random BLS12-381 scalar-field elements,
// drawn from a caller-supplied io.Reader (nonces, passphrases, random
// Merkle path siblings). Groth16 key setup in pkg/setup does not use these
// helpers; gnark draws its own setup randomness.
package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
)

// GenerateScalar draws a uniformly random element of the BLS12-381 scalar
// field from r, the same io.Reader contract spec.md §5 asks every
// parameter-generation and proving call to accept.
func GenerateScalar(r io.Reader) (*big.Int, error) {
	v, err := rand.Int(r, ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("crypto: generate scalar: %w", err)
	}
	return v, nil
}

// GenerateNonZeroScalar draws a random, non-zero BLS12-381 scalar. Nonces,
// passphrases, and verification nonces in this system must not be the
// sentinel "empty" value of 0.
func GenerateNonZeroScalar(r io.Reader) (*big.Int, error) {
	for {
		v, err := GenerateScalar(r)
		if err != nil {
			return nil, err
		}
		if v.Sign() != 0 {
			return v, nil
		}
	}
}
