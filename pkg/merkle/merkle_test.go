package merkle

import (
	"math/big"
	"testing"
)

func TestBuildTreeRejectsNonPowerOfTwo(t *testing.T) {
	_, err := BuildTree([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	if err == nil {
		t.Fatal("expected error for non-power-of-two leaf count")
	}
}

func TestBuildTreeAllZeroLeavesIsDeterministic(t *testing.T) {
	leaves := make([]*big.Int, 16)
	for i := range leaves {
		leaves[i] = big.NewInt(0)
	}

	root1, err := BuildTree(leaves)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	root2, err := BuildTree(leaves)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	if root1.Cmp(root2) != 0 {
		t.Fatal("build tree on all-zero leaves is not deterministic")
	}
}

func TestPathMatchesBuildTree(t *testing.T) {
	leaves := make([]*big.Int, 16)
	for i := range leaves {
		leaves[i] = big.NewInt(int64(i + 1))
	}

	root, err := BuildTree(leaves)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}

	for idx := range leaves {
		path, err := Path(leaves, idx)
		if err != nil {
			t.Fatalf("path at %d: %v", idx, err)
		}
		got := RootFromPath(leaves[idx], path)
		if got.Cmp(root) != 0 {
			t.Fatalf("leaf %d: root from path %s != tree root %s", idx, got, root)
		}
	}
}

func TestPathRejectsOutOfRangeIndex(t *testing.T) {
	leaves := make([]*big.Int, 4)
	for i := range leaves {
		leaves[i] = big.NewInt(int64(i))
	}
	if _, err := Path(leaves, 4); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestPadFriendsFillsSentinel(t *testing.T) {
	addrs := []*big.Int{big.NewInt(7), big.NewInt(9)}
	padded := PadFriends(addrs, 16)
	if len(padded) != 16 {
		t.Fatalf("expected 16 entries, got %d", len(padded))
	}
	if padded[0].Cmp(big.NewInt(7)) != 0 || padded[1].Cmp(big.NewInt(9)) != 0 {
		t.Fatal("first two slots were not preserved")
	}
	for i := 2; i < 16; i++ {
		if padded[i].Sign() != 0 {
			t.Fatalf("slot %d expected sentinel 0, got %s", i, padded[i])
		}
	}
}
