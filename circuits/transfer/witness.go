package transfer

import (
	"fmt"
	"math/big"

	"github.com/linbeier/zk-transfer/pkg/jubjub"
	"github.com/linbeier/zk-transfer/pkg/merkle"
	"github.com/linbeier/zk-transfer/pkg/pedersen"
)

// CommitRoot computes H(H(H(build_merkle_tree(addresses), passphrase), threshold), nonce),
// exactly as spec.md §3/§4.7 defines it.
func CommitRoot(addresses []*big.Int, passphrase, threshold, nonce *big.Int) (*big.Int, error) {
	padded := merkle.PadFriends(addresses, NumFriends)
	addrRoot, err := merkle.BuildTree(padded)
	if err != nil {
		return nil, fmt.Errorf("transfer: build address tree: %w", err)
	}

	t1 := pedersen.CombineHash(jubjub.NoteCommitment(), addrRoot, passphrase)
	t := pedersen.CombineHash(jubjub.NoteCommitment(), t1, threshold)
	return pedersen.CombineHash(jubjub.NoteCommitment(), t, nonce), nil
}

// BuildAssignment constructs a full witness assignment for Circuit.
// addresses and vlist are both padded/validated to NumFriends entries.
func BuildAssignment(addresses []*big.Int, passphrase, threshold, nonce *big.Int, vlist []bool) (*Circuit, error) {
	if len(vlist) != NumFriends {
		return nil, fmt.Errorf("transfer: vlist must have %d entries, got %d", NumFriends, len(vlist))
	}

	commitRoot, err := CommitRoot(addresses, passphrase, threshold, nonce)
	if err != nil {
		return nil, err
	}

	padded := merkle.PadFriends(addresses, NumFriends)
	c := &Circuit{
		CommitRoot: commitRoot,
		Passphrase: passphrase,
		Threshold:  threshold,
		Nonce:      nonce,
	}
	for i, a := range padded {
		c.Addresses[i] = a
	}
	for i, v := range vlist {
		c.Vlist[i] = boolScalar(v)
	}
	return c, nil
}

func boolScalar(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

// PublicInputs returns the public-input vector in the exact order
// spec.md §4.7 and §6 mandate: commit_root, vlist[0..NumFriends].
func PublicInputs(commitRoot *big.Int, vlist []bool) []*big.Int {
	out := make([]*big.Int, 0, 1+NumFriends)
	out = append(out, commitRoot)
	for _, v := range vlist {
		out = append(out, boolScalar(v))
	}
	return out
}

// CountValid returns the out-of-circuit count of indices where vlist[i] is
// true and addresses[i] != 0 (padded to NumFriends) — the witness-side
// twin of circuits/gadgets.CountValidAddresses, used by tests and callers
// that want to check the threshold predicate before proving.
func CountValid(addresses []*big.Int, vlist []bool) int {
	padded := merkle.PadFriends(addresses, NumFriends)
	n := 0
	for i, v := range vlist {
		if v && padded[i].Sign() != 0 {
			n++
		}
	}
	return n
}
