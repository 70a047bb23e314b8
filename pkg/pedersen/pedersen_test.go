package pedersen

import (
	"math/big"
	"testing"

	"github.com/linbeier/zk-transfer/pkg/jubjub"
)

func TestCombineHashDeterministic(t *testing.T) {
	a := big.NewInt(111111)
	b := big.NewInt(222222)

	h1 := CombineHash(jubjub.NoteCommitment(), a, b)
	h2 := CombineHash(jubjub.NoteCommitment(), a, b)
	if h1.Cmp(h2) != 0 {
		t.Fatal("CombineHash is not deterministic")
	}
}

func TestCombineHashDomainSeparation(t *testing.T) {
	a := big.NewInt(1)
	b := big.NewInt(2)

	note := CombineHash(jubjub.NoteCommitment(), a, b)
	level0 := CombineHash(jubjub.MerkleTree(0), a, b)
	level1 := CombineHash(jubjub.MerkleTree(1), a, b)

	if note.Cmp(level0) == 0 {
		t.Fatal("NoteCommitment and MerkleTree(0) must not collide for the same inputs")
	}
	if level0.Cmp(level1) == 0 {
		t.Fatal("MerkleTree(0) and MerkleTree(1) must not collide for the same inputs")
	}
}

func TestCombineHashSensitiveToLeftOperand(t *testing.T) {
	a := big.NewInt(12345)
	b := big.NewInt(67890)
	base := CombineHash(jubjub.NoteCommitment(), a, b)

	perturbed := new(big.Int).Add(a, big.NewInt(1))
	if CombineHash(jubjub.NoteCommitment(), perturbed, b).Cmp(base) == 0 {
		t.Fatal("perturbing the left operand did not change the hash")
	}
}

func TestEncodeDecodeScalarRoundTrip(t *testing.T) {
	v := big.NewInt(444444)
	b, err := EncodeScalar(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeScalar(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Cmp(v) != 0 {
		t.Fatalf("round-trip mismatch: got %s, want %s", got, v)
	}
}

func TestDecodeScalarRejectsWrongLength(t *testing.T) {
	if _, err := DecodeScalar([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short buffer")
	}
}
