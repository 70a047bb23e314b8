package transfer

import (
	"github.com/consensys/gnark/frontend"

	"github.com/linbeier/zk-transfer/circuits/gadgets"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
)

// Circuit proves:
//
//  1. H(H(H(build_merkle_tree(Addresses), Passphrase), Threshold), Nonce) = CommitRoot.
//  2. check_address_cnt(count_valid_addresses(Addresses, Vlist), Threshold) = true.
//
// Vlist is the public "which friends approved" bitmap; the prover
// demonstrates it covers between Threshold and Threshold+ThresholdWindow-1
// non-empty friend slots from the committed set (so with Threshold 0, all
// NumFriends slots approved is rejected).
//
// Public inputs, in order: CommitRoot, Vlist[0..NumFriends] (as {0,1}
// scalars). Declaration order fixes gnark's public-witness order — do not
// reorder these fields.
type Circuit struct {
	CommitRoot frontend.Variable              `gnark:",public"`
	Vlist      [NumFriends]frontend.Variable   `gnark:",public"`

	Addresses  [NumFriends]frontend.Variable
	Passphrase frontend.Variable
	Threshold  frontend.Variable
	Nonce      frontend.Variable
}

func (c *Circuit) Define(api frontend.API) error {
	curve, err := gadgets.NewCurve(api)
	if err != nil {
		return err
	}

	for i := range c.Vlist {
		gadgets.AssertBoolean(api, c.Vlist[i])
	}

	addrRoot := gadgets.BuildMerkleTree(api, curve, c.Addresses[:])
	t1 := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), addrRoot, c.Passphrase)
	t := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), t1, c.Threshold)
	commitRoot := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), t, c.Nonce)
	api.AssertIsEqual(commitRoot, c.CommitRoot)

	count := gadgets.CountValidAddresses(api, c.Addresses[:], c.Vlist[:])
	ok := gadgets.CheckAddressCnt(api, count, c.Threshold, ThresholdWindow)
	api.AssertIsEqual(ok, 1)

	return nil
}
