// Package transfer implements the TransferCircuit: given a public approval
// bitmap (vlist), the prover demonstrates that at least threshold, and at
// most threshold+ThresholdWindow-1, non-empty friend slots from the
// committed friend set are marked approved.
package transfer

import "github.com/linbeier/zk-transfer/config"

// NumFriends is the fixed number of friend-address/vlist slots.
const NumFriends = config.MaxFriendsLen

// ThresholdWindow is the width of the check_address_cnt acceptance window
// (spec.md §4.4: count ∈ {threshold, ..., threshold+window-1}).
const ThresholdWindow = NumFriends
