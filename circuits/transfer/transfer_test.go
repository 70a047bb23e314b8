package transfer_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/linbeier/zk-transfer/circuits/transfer"
	"github.com/linbeier/zk-transfer/pkg/setup"
)

func proveAndVerify(t *testing.T, assignment *transfer.Circuit) error {
	t.Helper()

	ccs, err := setup.CompileCircuit(&transfer.Circuit{})
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
		return err
	}
	return groth16.Verify(proof, vk, publicWitness)
}

func zeroFriends() []*big.Int {
	friends := make([]*big.Int, transfer.NumFriends)
	for i := range friends {
		friends[i] = big.NewInt(0)
	}
	return friends
}

// TestTransferHappyPath reproduces the Rust test_transfer_circuit scenario:
// two approving, non-empty friend slots meet a threshold of 2.
func TestTransferHappyPath(t *testing.T) {
	friends := zeroFriends()
	friends[1] = big.NewInt(1)
	friends[2] = big.NewInt(1)

	passphrase := big.NewInt(222222)
	threshold := big.NewInt(2)
	nonce := big.NewInt(333333)

	vlist := make([]bool, transfer.NumFriends)
	vlist[0] = true
	vlist[1] = true
	vlist[2] = true

	assignment, err := transfer.BuildAssignment(friends, passphrase, threshold, nonce, vlist)
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}

	if err := proveAndVerify(t, assignment); err != nil {
		t.Fatalf("prove/verify: %v", err)
	}
}

// TestTransferBelowThresholdRejected reproduces spec.md §8 scenario 3: only
// one approved slot is non-empty, short of a threshold of 2, so the
// assignment must fail to satisfy the circuit's constraints.
func TestTransferBelowThresholdRejected(t *testing.T) {
	friends := zeroFriends()
	friends[1] = big.NewInt(1)

	passphrase := big.NewInt(222222)
	threshold := big.NewInt(2)
	nonce := big.NewInt(333333)

	vlist := make([]bool, transfer.NumFriends)
	vlist[1] = true

	assignment, err := transfer.BuildAssignment(friends, passphrase, threshold, nonce, vlist)
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}

	if got := transfer.CountValid(friends, vlist); got >= 2 {
		t.Fatalf("expected count below threshold, got %d", got)
	}

	if err := proveAndVerify(t, assignment); err == nil {
		t.Fatalf("expected prove/verify to fail for a below-threshold witness")
	}
}

// TestTransferAboveWindowRejected reproduces spec.md §8 scenario 4: the
// approved count exceeds threshold+window-1. With threshold 0 the window
// is {0, ..., ThresholdWindow-1}, and all NumFriends slots approved and
// non-empty give a count of NumFriends, one past the top of the window.
func TestTransferAboveWindowRejected(t *testing.T) {
	friends := zeroFriends()
	for i := range friends {
		friends[i] = big.NewInt(1)
	}

	passphrase := big.NewInt(222222)
	// Threshold chosen so that no k in [0, ThresholdWindow) satisfies
	// count == threshold+k for the all-approved count of NumFriends.
	threshold := big.NewInt(0)
	nonce := big.NewInt(333333)

	vlist := make([]bool, transfer.NumFriends)
	for i := range vlist {
		vlist[i] = true
	}

	assignment, err := transfer.BuildAssignment(friends, passphrase, threshold, nonce, vlist)
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}

	if err := proveAndVerify(t, assignment); err == nil {
		t.Fatalf("expected prove/verify to fail when count falls outside the acceptance window")
	}
}
