// Package merkle builds and opens the two Merkle trees this system uses —
// the depth-4 friend-address tree and the depth-32 verification tree —
// over Pedersen-hash nodes, outside any circuit. It is the witness-side
// twin of circuits/gadgets.BuildMerkleTree/MerkleRootFromPath: both sides
// call pkg/pedersen.CombineHash with the same per-level personalization,
// so a path produced here verifies inside the circuit.
package merkle

import (
	"fmt"
	"math/big"

	"github.com/linbeier/zk-transfer/pkg/jubjub"
	"github.com/linbeier/zk-transfer/pkg/pedersen"
)

// Step is one hop of an authenticated Merkle path: the sibling hash at that
// level, and the direction of the current node (false = current is the
// left child, sibling is the right child; true = swapped).
type Step struct {
	Sibling   *big.Int
	Direction bool
}

// BuildTree combines adjacent pairs of leaves bottom-up with
// pedersen.CombineHash, personalizing level ℓ (0 at the leaves' parents) as
// jubjub.MerkleTree(ℓ). len(leaves) must be a positive power of two.
func BuildTree(leaves []*big.Int) (*big.Int, error) {
	n := len(leaves)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("merkle: leaf count %d is not a positive power of two", n)
	}

	cur := make([]*big.Int, n)
	copy(cur, leaves)

	for level := 0; len(cur) > 1; level++ {
		next := make([]*big.Int, len(cur)/2)
		tag := jubjub.MerkleTree(level)
		for i := range next {
			next[i] = pedersen.CombineHash(tag, cur[2*i], cur[2*i+1])
		}
		cur = next
	}
	return cur[0], nil
}

// Path returns the authenticated path from leaves[index] to the tree's
// root: one Step per level, leaves-first.
func Path(leaves []*big.Int, index int) ([]Step, error) {
	n := len(leaves)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("merkle: leaf count %d is not a positive power of two", n)
	}
	if index < 0 || index >= n {
		return nil, fmt.Errorf("merkle: index %d out of range [0,%d)", index, n)
	}

	cur := make([]*big.Int, n)
	copy(cur, leaves)
	idx := index

	var path []Step
	for level := 0; len(cur) > 1; level++ {
		siblingIdx := idx ^ 1
		path = append(path, Step{
			Sibling:   cur[siblingIdx],
			Direction: idx%2 == 1,
		})

		next := make([]*big.Int, len(cur)/2)
		tag := jubjub.MerkleTree(level)
		for i := range next {
			next[i] = pedersen.CombineHash(tag, cur[2*i], cur[2*i+1])
		}
		cur = next
		idx /= 2
	}
	return path, nil
}

// RootFromPath recomputes the root implied by leaf and its authenticated
// path, personalizing level i (0 at the leaf's parent) as
// jubjub.MerkleTree(i). This is the out-of-circuit twin of
// circuits/gadgets.MerkleRootFromPath.
func RootFromPath(leaf *big.Int, path []Step) *big.Int {
	cur := leaf
	for i, step := range path {
		tag := jubjub.MerkleTree(i)
		var l, r *big.Int
		if step.Direction {
			l, r = step.Sibling, cur
		} else {
			l, r = cur, step.Sibling
		}
		cur = pedersen.CombineHash(tag, l, r)
	}
	return cur
}

// PadFriends returns a friend-address slice of exactly n entries, filling
// missing or nil slots with the sentinel empty-friend value 0. Entries
// beyond the first n are dropped without an error.
func PadFriends(addrs []*big.Int, n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		if i < len(addrs) && addrs[i] != nil {
			out[i] = addrs[i]
		} else {
			out[i] = big.NewInt(0)
		}
	}
	return out
}
