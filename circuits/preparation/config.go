// Package preparation implements the PreparationCircuit: a friend proves
// membership in the committed friend set and, unless their slot is empty,
// that they posted a well-formed verification token to the public ledger.
package preparation

import "github.com/linbeier/zk-transfer/config"

const (
	// FriendsDepth is the depth of the friend-address tree.
	FriendsDepth = config.FriendsMerkleDepth

	// VerificationDepth is the depth of the on-chain verification tree.
	VerificationDepth = config.VerificationMerkleDepth
)
