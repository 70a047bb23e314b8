package preparation_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/linbeier/zk-transfer/circuits/preparation"
	"github.com/linbeier/zk-transfer/pkg/setup"
)

func proveAndVerify(t *testing.T, assignment *preparation.Circuit) {
	t.Helper()

	ccs, err := setup.CompileCircuit(&preparation.Circuit{})
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

// TestPreparationNonEmptySlot exercises the case where a friend proves
// membership at a non-empty slot and posts a matching verification token.
func TestPreparationNonEmptySlot(t *testing.T) {
	friends := make([]*big.Int, 1<<preparation.FriendsDepth)
	for i := range friends {
		friends[i] = big.NewInt(0)
	}
	friendIndex := 3
	friends[friendIndex] = big.NewInt(555555)

	passphrase := big.NewInt(222222)
	threshold := big.NewInt(2)
	nonce := big.NewInt(333333)
	preTransferIndex := big.NewInt(7)
	nonce1 := big.NewInt(11)
	nonce2 := big.NewInt(13)

	verificationPath, err := preparation.RandomVerificationPath(rand.Reader)
	if err != nil {
		t.Fatalf("random verification path: %v", err)
	}

	assignment, err := preparation.BuildAssignment(
		friends, friendIndex, passphrase, threshold, nonce,
		preTransferIndex, nonce1, nonce2, verificationPath,
	)
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}

	proveAndVerify(t, assignment)
}

// TestPreparationEmptySlotSucceeds reproduces spec.md §8's boundary
// behavior: friend_address = 0 suppresses the verification check, and the
// circuit must still synthesize and verify even with unrelated
// verification witnesses.
func TestPreparationEmptySlotSucceeds(t *testing.T) {
	friends := make([]*big.Int, 1<<preparation.FriendsDepth)
	for i := range friends {
		friends[i] = big.NewInt(0)
	}
	friendIndex := 0

	passphrase := big.NewInt(222222)
	threshold := big.NewInt(2)
	nonce := big.NewInt(333333)
	preTransferIndex := big.NewInt(7)
	nonce1 := big.NewInt(11)
	nonce2 := big.NewInt(13)

	verificationPath, err := preparation.RandomVerificationPath(rand.Reader)
	if err != nil {
		t.Fatalf("random verification path: %v", err)
	}

	assignment, err := preparation.BuildAssignment(
		friends, friendIndex, passphrase, threshold, nonce,
		preTransferIndex, nonce1, nonce2, verificationPath,
	)
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}
	// Replace the well-formed token BuildAssignment derived with one that
	// neither matches the token hash nor sits under VerificationRoot.
	assignment.Verification = big.NewInt(424242)

	proveAndVerify(t, assignment)
}
