package preparation

import (
	"fmt"
	"io"
	"math/big"

	"github.com/linbeier/zk-transfer/pkg/crypto"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
	"github.com/linbeier/zk-transfer/pkg/merkle"
	"github.com/linbeier/zk-transfer/pkg/pedersen"
)

// VerificationToken computes V = H(H(H(pre_transfer_index, nonce1), friendAddress), nonce2),
// exactly as spec.md §3/§4.6 defines it.
func VerificationToken(preTransferIndex, nonce1, friendAddress, nonce2 *big.Int) *big.Int {
	v1 := pedersen.CombineHash(jubjub.NoteCommitment(), preTransferIndex, nonce1)
	v2 := pedersen.CombineHash(jubjub.NoteCommitment(), v1, friendAddress)
	return pedersen.CombineHash(jubjub.NoteCommitment(), v2, nonce2)
}

// RandomVerificationPath builds a VerificationDepth-long authenticated
// path with random siblings and directions — standing in for an actual
// query against the (out-of-scope) public ledger tree, the same way
// original_source/librustzk/src/zk.rs's test_merkle_root_from_path
// exercises the gadget against a random path rather than a materialized
// tree. RootFromPath only ever needs the path, never the full tree, so
// this is sufficient to build a self-consistent witness.
func RandomVerificationPath(r io.Reader) ([]merkle.Step, error) {
	path := make([]merkle.Step, VerificationDepth)
	for i := range path {
		sibling, err := crypto.GenerateScalar(r)
		if err != nil {
			return nil, fmt.Errorf("preparation: random verification path: %w", err)
		}
		dirScalar, err := crypto.GenerateScalar(r)
		if err != nil {
			return nil, fmt.Errorf("preparation: random verification path: %w", err)
		}
		path[i] = merkle.Step{Sibling: sibling, Direction: dirScalar.Bit(0) == 1}
	}
	return path, nil
}

// BuildAssignment constructs a full witness assignment for Circuit.
// friends is padded to FriendsDepth's 1<<FriendsDepth entries; friendIndex
// selects which padded slot this proof is for. verificationPath is the
// caller-supplied VerificationDepth-long authenticated path for the
// verification token this friend posted (see RandomVerificationPath for a
// test-only stand-in).
func BuildAssignment(
	friends []*big.Int,
	friendIndex int,
	passphrase, threshold, nonce *big.Int,
	preTransferIndex *big.Int,
	verificationNonce1, verificationNonce2 *big.Int,
	verificationPath []merkle.Step,
) (*Circuit, error) {
	const friendsLen = 1 << FriendsDepth
	if len(verificationPath) != VerificationDepth {
		return nil, fmt.Errorf("preparation: verification path must have %d steps, got %d", VerificationDepth, len(verificationPath))
	}

	padded := merkle.PadFriends(friends, friendsLen)
	friendPath, err := merkle.Path(padded, friendIndex)
	if err != nil {
		return nil, fmt.Errorf("preparation: friend path: %w", err)
	}
	friendAddress := padded[friendIndex]

	ar := merkle.RootFromPath(friendAddress, friendPath)
	t1 := pedersen.CombineHash(jubjub.NoteCommitment(), ar, passphrase)
	t := pedersen.CombineHash(jubjub.NoteCommitment(), t1, threshold)
	commitRoot := pedersen.CombineHash(jubjub.NoteCommitment(), t, nonce)

	verification := VerificationToken(preTransferIndex, verificationNonce1, friendAddress, verificationNonce2)
	verificationRoot := merkle.RootFromPath(verification, verificationPath)

	c := &Circuit{
		CommitRoot:       commitRoot,
		Nonce:            nonce,
		PreTransferIndex: preTransferIndex,
		VerificationRoot: verificationRoot,

		FriendAddress:      friendAddress,
		Passphrase:         passphrase,
		Threshold:          threshold,
		Verification:       verification,
		VerificationNonce1: verificationNonce1,
		VerificationNonce2: verificationNonce2,
	}
	for i, step := range friendPath {
		c.FriendPath[i] = step.Sibling
		c.FriendDirections[i] = directionVar(step.Direction)
	}
	for i, step := range verificationPath {
		c.VerificationPath[i] = step.Sibling
		c.VerificationDirections[i] = directionVar(step.Direction)
	}
	return c, nil
}

func directionVar(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

// PublicInputs returns the public-input vector in the exact order
// spec.md §4.6 and §6 mandate: commit_root, friend_directions[0..4],
// nonce, pre_transfer_index, verification_root.
func PublicInputs(commitRoot *big.Int, friendDirections []bool, nonce, preTransferIndex, verificationRoot *big.Int) []*big.Int {
	out := make([]*big.Int, 0, 1+FriendsDepth+3)
	out = append(out, commitRoot)
	for _, d := range friendDirections {
		out = append(out, directionVar(d))
	}
	out = append(out, nonce, preTransferIndex, verificationRoot)
	return out
}
