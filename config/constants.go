// Package config holds the fixed shape constants shared by every circuit
// and by the out-of-circuit witness-preparation code. All implementations
// of this system must agree on these values; they are not configurable at
// runtime.
package config

const (
	// FriendsMerkleDepth is the depth of the friend-address tree.
	FriendsMerkleDepth = 4

	// MaxFriendsLen is the fixed number of friend-address slots, 1<<FriendsMerkleDepth.
	MaxFriendsLen = 1 << FriendsMerkleDepth

	// VerificationMerkleDepth is the depth of the on-chain verification tree.
	VerificationMerkleDepth = 32

	// HashSize is the number of bytes in a serialized scalar (little-endian).
	HashSize = 32

	// NumBits is the number of low-order bits of a BLS12-381 scalar-field
	// element retained by every bit-decomposition gadget.
	NumBits = 255

	// PedersenWindowBits is the width of one window in the windowed
	// Pedersen combine-hash: each window is scalar-multiplied against its
	// own independent, tag-and-index-derived generator and the window
	// terms are summed as curve points, so the hash is not a single
	// scalar multiplication of one generator. 85 divides NumBits evenly
	// (255 = 3*85), giving exactly 3 windows per NumBits-wide preimage
	// half and 6 windows total per CombineHash call, each window value
	// far below the Jubjub subgroup order (2^85 vs. a ~252-bit order) so
	// no window wraps independently of the others.
	PedersenWindowBits = 85
)
