// Package pretransfer implements the PreTransferCircuit: a prover who
// knows the opening of a commit root declares a new address by producing a
// target commit root derived from the same (addr_root, passphrase,
// threshold) prefix.
package pretransfer

import "github.com/linbeier/zk-transfer/config"

// NumFriends is the fixed number of friend-address slots the circuit's
// Merkle accumulator is built over.
const NumFriends = config.MaxFriendsLen
