package gadgets

import (
	"github.com/consensys/gnark/frontend"
)

// CountValidAddresses returns a field element equal to the number of
// indices i where vlist[i] is true and addresses[i] != 0. For each i it
// computes valid_i = vlist[i] ∧ (addresses[i] ≠ 0) and accumulates the
// count as a single running linear combination — the re-allocation of a
// fresh boolean per valid_i that spec.md §4.4 describes is semantic noise
// once the sum is enforced directly over the booleans computed here, as
// the spec explicitly permits eliding.
func CountValidAddresses(api frontend.API, addresses, vlist []frontend.Variable) frontend.Variable {
	if len(addresses) != len(vlist) {
		panic("gadgets: CountValidAddresses requires addresses and vlist of equal length")
	}

	count := frontend.Variable(0)
	for i := range addresses {
		nonZero := api.Sub(1, api.IsZero(addresses[i]))
		valid := api.And(vlist[i], nonZero)
		count = api.Add(count, valid)
	}
	return count
}

// CheckAddressCnt returns a boolean {0,1} equal to 1 iff
// count ∈ {threshold, threshold+1, ..., threshold+window-1}, realized by
// computing FrEq(count, threshold+k) for k in [0,window) and OR-ing the
// results, exactly as spec.md §4.4 describes. Callers must ensure
// threshold ≤ window's natural bound (spec.md §9's threshold-predicate
// open question): for threshold values above that bound every offset
// threshold+k is unreachable by a count in [0,window) and the predicate
// unconditionally rejects.
func CheckAddressCnt(api frontend.API, count, threshold frontend.Variable, window int) frontend.Variable {
	anyMatch := frontend.Variable(0)
	for k := 0; k < window; k++ {
		candidate := api.Add(threshold, k)
		eq := FrEq(api, count, candidate)
		anyMatch = api.Or(anyMatch, eq)
	}
	return anyMatch
}
