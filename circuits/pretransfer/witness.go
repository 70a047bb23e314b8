package pretransfer

import (
	"fmt"
	"math/big"

	"github.com/linbeier/zk-transfer/pkg/jubjub"
	"github.com/linbeier/zk-transfer/pkg/merkle"
	"github.com/linbeier/zk-transfer/pkg/pedersen"
)

// Roots computes addr_root, T, CommitRoot, and CommitRootT from raw
// scalars, exactly as spec.md §3/§4.5 defines them.
func Roots(addresses []*big.Int, passphrase, threshold, addressNew, nonce *big.Int) (commitRoot, commitRootT *big.Int, err error) {
	padded := merkle.PadFriends(addresses, NumFriends)
	addrRoot, err := merkle.BuildTree(padded)
	if err != nil {
		return nil, nil, fmt.Errorf("pretransfer: build address tree: %w", err)
	}

	t1 := pedersen.CombineHash(jubjub.NoteCommitment(), addrRoot, passphrase)
	t := pedersen.CombineHash(jubjub.NoteCommitment(), t1, threshold)

	commitRoot = pedersen.CombineHash(jubjub.NoteCommitment(), t, nonce)
	commitRootT = pedersen.CombineHash(jubjub.NoteCommitment(), t, addressNew)
	return commitRoot, commitRootT, nil
}

// BuildAssignment constructs a full witness assignment for Circuit from
// raw scalars, padding addresses to NumFriends entries with the sentinel
// empty-friend value 0.
func BuildAssignment(addresses []*big.Int, passphrase, threshold, addressNew, nonce *big.Int) (*Circuit, error) {
	commitRoot, commitRootT, err := Roots(addresses, passphrase, threshold, addressNew, nonce)
	if err != nil {
		return nil, err
	}

	padded := merkle.PadFriends(addresses, NumFriends)
	c := &Circuit{
		CommitRoot:  commitRoot,
		CommitRootT: commitRootT,
		AddressNew:  addressNew,
		Nonce:       nonce,
		Passphrase:  passphrase,
		Threshold:   threshold,
	}
	for i, a := range padded {
		c.Addresses[i] = a
	}
	return c, nil
}

// PublicInputs returns the public-input vector in the exact order
// spec.md §4.5 and §6 mandate: commit_root, commit_root_t, address_new, nonce.
func PublicInputs(commitRoot, commitRootT, addressNew, nonce *big.Int) []*big.Int {
	return []*big.Int{commitRoot, commitRootT, addressNew, nonce}
}
