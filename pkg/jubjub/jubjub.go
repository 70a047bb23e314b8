// Package jubjub holds the single piece of process-wide state this system
// depends on: the Jubjub-over-BLS12-381 curve parameters and the table of
// domain-separation generator points used by every Pedersen hash in the
// system. The curve parameters are derived lazily, once, under sync.Once;
// each generator point is derived on first use of its tag and cached in a
// mutex-guarded map for the remaining lifetime of the process — callers
// never mutate either.
package jubjub

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"sync"

	tedwards "github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

// NumBits is the number of low-order little-endian bits a scalar is
// decomposed into before being fed to combine_hash. It matches the bit
// length of the BLS12-381 scalar field used throughout this system.
const NumBits = 255

// Personalization domain-separates a Pedersen hash invocation. It is either
// the note-commitment tag or a Merkle-tree level tag, mirroring the two
// cases lib.rs's _jubjub_hash dispatches on.
type Personalization struct {
	merkle bool
	level  int
}

// NoteCommitment is the personalization used for non-tree commitment hops
// (commit roots, target commit roots, verification tokens).
func NoteCommitment() Personalization {
	return Personalization{}
}

// MerkleTree is the personalization used at Merkle tree level (depth-from-
// leaves) level.
func MerkleTree(level int) Personalization {
	return Personalization{merkle: true, level: level}
}

func (p Personalization) tag() string {
	if !p.merkle {
		return "note-commitment"
	}
	return fmt.Sprintf("merkle-tree-%d", p.level)
}

// EncodedTag mirrors the FFI convention of lib.rs's _jubjub_hash: -1 for
// NoteCommitment, level>=0 for MerkleTree(level).
func (p Personalization) EncodedTag() int {
	if !p.merkle {
		return -1
	}
	return p.level
}

// DecodeTag builds a Personalization from the FFI encoding above.
func DecodeTag(tag int) Personalization {
	if tag < 0 {
		return NoteCommitment()
	}
	return MerkleTree(tag)
}

var (
	curveOnce   sync.Once
	curveParams tedwards.CurveParams

	genMu    sync.Mutex
	genCache = map[string]tedwards.PointAffine{}
)

// Curve returns the Jubjub-over-BLS12-381 curve parameters, deriving them
// exactly once for the process lifetime.
func Curve() tedwards.CurveParams {
	curveOnce.Do(func() {
		curveParams = tedwards.GetEdwardsCurve()
	})
	return curveParams
}

// Generator returns the domain-separation base point for p. The point is
// derived once per distinct tag (hash-to-scalar of the tag string, times
// the curve's base point) and cached for the remaining process lifetime,
// so every caller — witness preparation, circuit constants, the FFI
// façade's jubjub_hash — observes the exact same point.
func Generator(p Personalization) tedwards.PointAffine {
	return namedGenerator(p.tag())
}

// WindowGenerator returns the independent base point assigned to window
// index `window` of personalization p's Pedersen combine-hash. Every
// window gets its own generator, derived from a tag that includes both
// p's own tag and the window index, so the windows of the hash cannot be
// collapsed into a single scalar multiplication of one shared base.
func WindowGenerator(p Personalization, window int) tedwards.PointAffine {
	return namedGenerator(fmt.Sprintf("%s/window/%d", p.tag(), window))
}

func namedGenerator(tag string) tedwards.PointAffine {
	genMu.Lock()
	if g, ok := genCache[tag]; ok {
		genMu.Unlock()
		return g
	}
	genMu.Unlock()

	cp := Curve()
	h := sha256.Sum256([]byte("zk-transfer/pedersen-generator/" + tag))
	scalar := new(big.Int).SetBytes(h[:])
	scalar.Mod(scalar, &cp.Order)

	var g tedwards.PointAffine
	g.ScalarMultiplication(&cp.Base, scalar)

	genMu.Lock()
	genCache[tag] = g
	genMu.Unlock()
	return g
}

// GeneratorCoords returns the affine X,Y coordinates of Generator(p) as
// big.Ints, the form circuit code bakes in as frontend.Variable constants.
func GeneratorCoords(p Personalization) (x, y *big.Int) {
	return coords(Generator(p))
}

// WindowGeneratorCoords returns the affine X,Y coordinates of
// WindowGenerator(p, window), the form circuit code bakes in as
// frontend.Variable constants.
func WindowGeneratorCoords(p Personalization, window int) (x, y *big.Int) {
	return coords(WindowGenerator(p, window))
}

func coords(g tedwards.PointAffine) (x, y *big.Int) {
	var xi, yi big.Int
	g.X.BigInt(&xi)
	g.Y.BigInt(&yi)
	return &xi, &yi
}
