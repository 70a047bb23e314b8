package gadgets

import (
	"github.com/consensys/gnark/frontend"
	native "github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/linbeier/zk-transfer/pkg/jubjub"
)

// PathStep is one hop of an authenticated Merkle path: the sibling at that
// level and a boolean direction ({0,1} frontend.Variable). Direction 0
// means the current node is the left child and Sibling the right child;
// 1 means swapped.
type PathStep struct {
	Sibling   frontend.Variable
	Direction frontend.Variable
}

// MerkleRootFromPath hashes leaf up through path, personalizing level i
// (0 at the leaf's parent) as jubjub.MerkleTree(i), and returns the
// resulting root.
func MerkleRootFromPath(api frontend.API, curve *native.Curve, leaf frontend.Variable, path []PathStep) frontend.Variable {
	cur := leaf
	for i, step := range path {
		api.AssertIsBoolean(step.Direction)

		left := api.Select(step.Direction, step.Sibling, cur)
		right := api.Select(step.Direction, cur, step.Sibling)

		cur = CombineHash(api, curve, jubjub.MerkleTree(i), left, right)
	}
	return cur
}

// BuildMerkleTree combines adjacent pairs of leaves bottom-up,
// personalizing level ℓ (0 at the leaves' parents) as
// jubjub.MerkleTree(ℓ). len(leaves) must be a positive power of two; this
// is a circuit-shape precondition checked at Define time, not a
// witness-dependent failure, so a violation panics.
func BuildMerkleTree(api frontend.API, curve *native.Curve, leaves []frontend.Variable) frontend.Variable {
	n := len(leaves)
	if n == 0 || n&(n-1) != 0 {
		panic("gadgets: BuildMerkleTree requires a positive power-of-two leaf count")
	}

	cur := make([]frontend.Variable, n)
	copy(cur, leaves)

	for level := 0; len(cur) > 1; level++ {
		next := make([]frontend.Variable, len(cur)/2)
		tag := jubjub.MerkleTree(level)
		for i := range next {
			next[i] = CombineHash(api, curve, tag, cur[2*i], cur[2*i+1])
		}
		cur = next
	}
	return cur[0]
}
