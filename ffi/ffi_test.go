package ffi_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark/backend/groth16"

	"github.com/linbeier/zk-transfer/circuits/pretransfer"
	"github.com/linbeier/zk-transfer/ffi"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
	"github.com/linbeier/zk-transfer/pkg/pedersen"
	"github.com/linbeier/zk-transfer/pkg/setup"
)

func encodeScalar(t *testing.T, v *big.Int) []byte {
	t.Helper()
	b, err := pedersen.EncodeScalar(v)
	if err != nil {
		t.Fatalf("encode scalar: %v", err)
	}
	return b
}

// TestJubjubHashMatchesPedersenCombineHash exercises the jubjub_hash FFI
// row end to end: byte-encoded inputs in, byte-encoded x-coordinate out,
// matching pedersen.CombineHash computed directly from the same scalars.
func TestJubjubHashMatchesPedersenCombineHash(t *testing.T) {
	a := big.NewInt(111)
	b := big.NewInt(222)

	want := pedersen.CombineHash(jubjub.NoteCommitment(), a, b)
	wantBytes := encodeScalar(t, want)

	got, err := ffi.JubjubHash(-1, encodeScalar(t, a), encodeScalar(t, b))
	if err != nil {
		t.Fatalf("JubjubHash: %v", err)
	}
	if !bytes.Equal(got, wantBytes) {
		t.Fatalf("JubjubHash mismatch: got %x, want %x", got, wantBytes)
	}
}

// TestPreTransferProveVerifyRoundTrip exercises GeneratePreTransferProof
// and VerifyPreTransferProof against a freshly generated dev key pair,
// reproducing the PreTransfer happy-path scenario over the byte-buffer
// FFI surface rather than the in-process circuit API.
func TestPreTransferProveVerifyRoundTrip(t *testing.T) {
	ccs, err := setup.CompileCircuit(&pretransfer.Circuit{})
	if err != nil {
		t.Fatalf("compile circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("groth16 setup: %v", err)
	}

	var pkBuf, vkBuf bytes.Buffer
	if _, err := pk.WriteTo(&pkBuf); err != nil {
		t.Fatalf("serialize pk: %v", err)
	}
	if _, err := vk.WriteTo(&vkBuf); err != nil {
		t.Fatalf("serialize vk: %v", err)
	}

	addresses := make([]*big.Int, pretransfer.NumFriends)
	for i := range addresses {
		addresses[i] = big.NewInt(0)
	}
	passphrase := big.NewInt(222222)
	threshold := big.NewInt(111111)
	nonce := big.NewInt(333333)
	addressNew := big.NewInt(444444)

	commitRoot, commitRootT, err := pretransfer.Roots(addresses, passphrase, threshold, addressNew, nonce)
	if err != nil {
		t.Fatalf("compute roots: %v", err)
	}

	addrBytes := make([][]byte, len(addresses))
	for i, a := range addresses {
		addrBytes[i] = encodeScalar(t, a)
	}

	proof, err := ffi.GeneratePreTransferProof(
		encodeScalar(t, commitRoot), encodeScalar(t, commitRootT),
		addrBytes,
		encodeScalar(t, passphrase), encodeScalar(t, threshold), encodeScalar(t, addressNew), encodeScalar(t, nonce),
		pkBuf.Bytes(), vkBuf.Bytes(),
	)
	if err != nil {
		t.Fatalf("GeneratePreTransferProof: %v", err)
	}

	ok, err := ffi.VerifyPreTransferProof(
		encodeScalar(t, commitRoot), encodeScalar(t, commitRootT),
		encodeScalar(t, addressNew), encodeScalar(t, nonce),
		proof, vkBuf.Bytes(),
	)
	if err != nil {
		t.Fatalf("VerifyPreTransferProof: %v", err)
	}
	if !ok {
		t.Fatal("expected verification to accept a freshly generated proof")
	}

	badOk, err := ffi.VerifyPreTransferProof(
		encodeScalar(t, commitRoot), encodeScalar(t, commitRootT),
		encodeScalar(t, big.NewInt(999999)), encodeScalar(t, nonce),
		proof, vkBuf.Bytes(),
	)
	if err != nil {
		t.Fatalf("VerifyPreTransferProof (tampered): %v", err)
	}
	if badOk {
		t.Fatal("expected verification to reject a tampered public input")
	}
}
