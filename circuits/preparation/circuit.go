package preparation

import (
	"github.com/consensys/gnark/frontend"

	"github.com/linbeier/zk-transfer/circuits/gadgets"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
)

// Circuit proves:
//
//  1. Letting AR = merkle_root_from_path(FriendAddress, zip(FriendPath, FriendDirections)),
//     H(H(H(AR, Passphrase), Threshold), Nonce) = CommitRoot.
//  2. addr_nonzero = (FriendAddress != 0).
//  3. V' = H(H(H(PreTransferIndex, VerificationNonce1), FriendAddress), VerificationNonce2)
//     and verification_eq = (V' == Verification).
//  4. VR' = merkle_root_from_path(Verification, zip(VerificationPath, VerificationDirections))
//     and verification_exists = (VR' == VerificationRoot).
//  5. addr_nonzero ∧ ¬(verification_eq ∧ verification_exists) = false — if the
//     friend slot is non-empty, the verification token must be well-formed
//     and present in the verification tree. Empty slots (FriendAddress = 0)
//     trivially succeed for padding.
//
// Public inputs, in order: CommitRoot, FriendDirections[0..FriendsDepth],
// Nonce, PreTransferIndex, VerificationRoot. VerificationPath and
// VerificationDirections are entirely private, matching
// original_source/librustzk/src/zk.rs's synthesize (only friend_directions
// are inputized; verification_directions never are). Declaration order
// fixes gnark's public-witness order — do not reorder these fields.
type Circuit struct {
	CommitRoot       frontend.Variable                `gnark:",public"`
	FriendDirections [FriendsDepth]frontend.Variable   `gnark:",public"`
	Nonce            frontend.Variable                `gnark:",public"`
	PreTransferIndex frontend.Variable                `gnark:",public"`
	VerificationRoot frontend.Variable                `gnark:",public"`

	FriendAddress          frontend.Variable
	FriendPath             [FriendsDepth]frontend.Variable
	Passphrase             frontend.Variable
	Threshold              frontend.Variable
	Verification           frontend.Variable
	VerificationNonce1     frontend.Variable
	VerificationNonce2     frontend.Variable
	VerificationPath       [VerificationDepth]frontend.Variable
	VerificationDirections [VerificationDepth]frontend.Variable
}

func (c *Circuit) Define(api frontend.API) error {
	curve, err := gadgets.NewCurve(api)
	if err != nil {
		return err
	}

	for i := range c.FriendDirections {
		gadgets.AssertBoolean(api, c.FriendDirections[i])
	}

	friendPath := make([]gadgets.PathStep, FriendsDepth)
	for i := range friendPath {
		friendPath[i] = gadgets.PathStep{Sibling: c.FriendPath[i], Direction: c.FriendDirections[i]}
	}
	ar := gadgets.MerkleRootFromPath(api, curve, c.FriendAddress, friendPath)

	t1 := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), ar, c.Passphrase)
	t := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), t1, c.Threshold)
	commitRoot := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), t, c.Nonce)
	api.AssertIsEqual(commitRoot, c.CommitRoot)

	addrNonZero := api.Sub(1, api.IsZero(c.FriendAddress))

	vp1 := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), c.PreTransferIndex, c.VerificationNonce1)
	vp2 := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), vp1, c.FriendAddress)
	vPrime := gadgets.CombineHash(api, curve, jubjub.NoteCommitment(), vp2, c.VerificationNonce2)
	verificationEq := gadgets.FrEq(api, vPrime, c.Verification)

	verificationPath := make([]gadgets.PathStep, VerificationDepth)
	for i := range verificationPath {
		verificationPath[i] = gadgets.PathStep{Sibling: c.VerificationPath[i], Direction: c.VerificationDirections[i]}
	}
	vrPrime := gadgets.MerkleRootFromPath(api, curve, c.Verification, verificationPath)
	verificationExists := gadgets.FrEq(api, vrPrime, c.VerificationRoot)

	verified := api.And(verificationEq, verificationExists)
	notVerified := api.Sub(1, verified)
	violation := api.And(addrNonZero, notVerified)
	api.AssertIsEqual(violation, 0)

	return nil
}
