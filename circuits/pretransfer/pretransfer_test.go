package pretransfer_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/linbeier/zk-transfer/circuits/pretransfer"
	"github.com/linbeier/zk-transfer/pkg/setup"
)

// proveAndVerify compiles, sets up, proves, and verifies a PreTransferCircuit
// assignment, mirroring the teacher's circuits/fsp/fsp_test.go helper.
func proveAndVerify(t *testing.T, assignment *pretransfer.Circuit) {
	t.Helper()

	ccs, err := setup.CompileCircuit(&pretransfer.Circuit{})
	if err != nil {
		t.Fatalf("compile circuit: %v", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	witness, err := frontend.NewWitness(assignment, ecc.BLS12_381.ScalarField())
	if err != nil {
		t.Fatalf("create witness: %v", err)
	}

	publicWitness, err := witness.Public()
	if err != nil {
		t.Fatalf("extract public witness: %v", err)
	}

	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

// compileCircuitForNegativeTest is a small helper for tests that drive
// proving and verification themselves, e.g. to prove honestly and then
// expect verification against tampered public inputs to fail.
func compileCircuitForNegativeTest(t *testing.T) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey) {
	t.Helper()
	ccs, err := setup.CompileCircuit(&pretransfer.Circuit{})
	if err != nil {
		t.Fatalf("compile circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return ccs, pk, vk
}

// TestPreTransferHappyPath reproduces original_source/librustzk/src/zk.rs's
// test_pre_transfer_circuit scenario: 16 zero friends, threshold=111111,
// passphrase=222222, nonce=333333, address_new=444444.
func TestPreTransferHappyPath(t *testing.T) {
	addresses := make([]*big.Int, pretransfer.NumFriends)
	for i := range addresses {
		addresses[i] = big.NewInt(0)
	}
	passphrase := big.NewInt(222222)
	threshold := big.NewInt(111111)
	nonce := big.NewInt(333333)
	addressNew := big.NewInt(444444)

	assignment, err := pretransfer.BuildAssignment(addresses, passphrase, threshold, addressNew, nonce)
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}

	proveAndVerify(t, assignment)
}

// TestPreTransferRejectsWrongPublicInput checks invariant 2/3 of spec.md
// §8: perturbing a public input after proving must cause verification to
// reject.
func TestPreTransferRejectsWrongPublicInput(t *testing.T) {
	addresses := make([]*big.Int, pretransfer.NumFriends)
	for i := range addresses {
		addresses[i] = big.NewInt(0)
	}
	passphrase := big.NewInt(222222)
	threshold := big.NewInt(111111)
	nonce := big.NewInt(333333)
	addressNew := big.NewInt(444444)

	assignment, err := pretransfer.BuildAssignment(addresses, passphrase, threshold, addressNew, nonce)
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}

	ccs, pk, vk := compileCircuitForNegativeTest(t)

	witness, err := frontend.NewWitness(assignment, ecc.BLS12_381.ScalarField())
	if err != nil {
		t.Fatalf("create witness: %v", err)
	}
	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	tamperedAssignment := &pretransfer.Circuit{
		CommitRoot:  assignment.CommitRoot,
		CommitRootT: assignment.CommitRootT,
		AddressNew:  big.NewInt(999999),
		Nonce:       nonce,
	}
	tamperedWitness, err := frontend.NewWitness(tamperedAssignment, ecc.BLS12_381.ScalarField(), frontend.PublicOnly())
	if err != nil {
		t.Fatalf("create tampered public witness: %v", err)
	}

	if err := groth16.Verify(proof, vk, tamperedWitness); err == nil {
		t.Fatal("expected verification to reject a tampered public input")
	}
}
