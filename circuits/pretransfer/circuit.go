package pretransfer

import (
	"github.com/consensys/gnark/frontend"

	"github.com/linbeier/zk-transfer/circuits/gadgets"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
)

// Circuit proves: there exist addresses, passphrase, threshold such that,
// letting AR = build_merkle_tree(addresses) and T = H(H(AR, passphrase), threshold):
//
//	H(T, nonce)       = CommitRoot
//	H(T, address_new) = CommitRootT
//
// Public inputs, in order: CommitRoot, CommitRootT, AddressNew, Nonce.
// Declaration order fixes gnark's public-witness order — do not reorder
// these fields.
type Circuit struct {
	CommitRoot  frontend.Variable `gnark:",public"`
	CommitRootT frontend.Variable `gnark:",public"`
	AddressNew  frontend.Variable `gnark:",public"`
	Nonce       frontend.Variable `gnark:",public"`

	Addresses  [NumFriends]frontend.Variable
	Passphrase frontend.Variable
	Threshold  frontend.Variable
}

func (c *Circuit) Define(api frontend.API) error {
	curve, err := gadgets.NewCurve(api)
	if err != nil {
		return err
	}

	addrRoot := gadgets.BuildMerkleTree(api, curve, c.Addresses[:])

	t1 := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), addrRoot, c.Passphrase)
	t := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), t1, c.Threshold)

	commitRoot := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), t, c.Nonce)
	commitRootT := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), t, c.AddressNew)

	api.AssertIsEqual(commitRoot, c.CommitRoot)
	api.AssertIsEqual(commitRootT, c.CommitRootT)

	return nil
}
