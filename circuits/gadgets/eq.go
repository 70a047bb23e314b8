package gadgets

import (
	"github.com/consensys/gnark/frontend"

	"github.com/linbeier/zk-transfer/config"
)

// FrEq decomposes a and b into config.NumBits-length little-endian bit
// vectors and computes the AND of the per-bit XNOR, returning a boolean
// {0,1} equal to 1 iff a == b as field elements. This is exact field-
// element equality, cost linear in config.NumBits.
func FrEq(api frontend.API, a, b frontend.Variable) frontend.Variable {
	aBits := api.ToBinary(a, config.NumBits)
	bBits := api.ToBinary(b, config.NumBits)

	result := frontend.Variable(1)
	for i := range aBits {
		xor := api.Xor(aBits[i], bBits[i])
		xnor := api.Sub(1, xor)
		result = api.And(result, xnor)
	}
	return result
}

// AssertBoolean constrains a public struct field to be a {0,1} scalar:
// since gnark fixes public/private witness shape at struct-field
// declaration time rather than allocating inputs mid-circuit, publishing a
// boolean reduces to declaring it as a public field, constraining it to be
// boolean here, and using the field itself wherever the circuit needs the
// bit. Call this once per public boolean field at the top of Define.
func AssertBoolean(api frontend.API, field frontend.Variable) {
	api.AssertIsBoolean(field)
}
