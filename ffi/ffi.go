// Package ffi implements the byte-pointer façade over this module's three
// circuits: deserializing raw scalar/proof/key buffers, invoking the
// Groth16 prover or verifier, and re-serializing the result. It is the
// pure-Go half of the C-ABI boundary — cmd/libzk's cgo shell converts
// *C.uchar pointers to byte slices and calls straight into this package,
// the same split the teacher's pkg/setup keeps between compiling/setup
// logic and its cmd/ entry points.
//
// Every exported function here mirrors one row of the FFI surface table:
// JubjubHash (jubjub_hash), GeneratePreTransferProof/VerifyPreTransferProof,
// GeneratePreparationProof/VerifyPreparationProof,
// GenerateTransferProof/VerifyTransferProof.
package ffi

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog/log"

	"github.com/linbeier/zk-transfer/circuits/preparation"
	"github.com/linbeier/zk-transfer/circuits/pretransfer"
	"github.com/linbeier/zk-transfer/circuits/transfer"
	"github.com/linbeier/zk-transfer/pkg/jubjub"
	"github.com/linbeier/zk-transfer/pkg/merkle"
	"github.com/linbeier/zk-transfer/pkg/pedersen"
	"github.com/linbeier/zk-transfer/pkg/setup"
)

// JubjubHash implements the jubjub_hash FFI row: tag -1 selects
// NoteCommitment, tag k>=0 selects MerkleTree(k), matching lib.rs's
// _jubjub_hash dispatch.
func JubjubHash(tag int, a, b []byte) ([]byte, error) {
	xl, err := pedersen.DecodeScalar(a)
	if err != nil {
		return nil, fmt.Errorf("ffi: decode a: %w", err)
	}
	xr, err := pedersen.DecodeScalar(b)
	if err != nil {
		return nil, fmt.Errorf("ffi: decode b: %w", err)
	}

	out := pedersen.CombineHash(jubjub.DecodeTag(tag), xl, xr)
	return pedersen.EncodeScalar(out)
}

func decodeScalars(buf [][]byte) ([]*big.Int, error) {
	out := make([]*big.Int, len(buf))
	for i, b := range buf {
		v, err := pedersen.DecodeScalar(b)
		if err != nil {
			return nil, fmt.Errorf("ffi: decode scalar %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func decodeDirections(buf []byte) []bool {
	out := make([]bool, len(buf))
	for i, b := range buf {
		out[i] = b != 0
	}
	return out
}

func directionScalar(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

func readProvingKey(pkBytes []byte) (groth16.ProvingKey, error) {
	pk := groth16.NewProvingKey(ecc.BLS12_381)
	if _, err := pk.ReadFrom(bytes.NewReader(pkBytes)); err != nil {
		return nil, fmt.Errorf("ffi: deserialize proving key: %w", err)
	}
	return pk, nil
}

func readVerifyingKey(vkBytes []byte) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ecc.BLS12_381)
	if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
		return nil, fmt.Errorf("ffi: deserialize verifying key: %w", err)
	}
	return vk, nil
}

func readProof(proofBytes []byte) (groth16.Proof, error) {
	proof := groth16.NewProof(ecc.BLS12_381)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return nil, fmt.Errorf("ffi: deserialize proof: %w", err)
	}
	return proof, nil
}

func writeProof(proof groth16.Proof) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("ffi: serialize proof: %w", err)
	}
	return buf.Bytes(), nil
}

// publicWitnessFrom builds a verifier-side public witness from a circuit
// struct holding only public fields (private fields left at their zero
// value), mirroring circuits/pretransfer's
// TestPreTransferRejectsWrongPublicInput tamperedWitness construction.
func publicWitnessFrom(publicOnly frontend.Circuit) (witness.Witness, error) {
	w, err := frontend.NewWitness(publicOnly, ecc.BLS12_381.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, fmt.Errorf("ffi: build public witness: %w", err)
	}
	return w, nil
}

// proveAndSelfVerify compiles circuitBlank, proves assignment against pk,
// and re-verifies the proof against vk before returning it — the self-
// verifying invariant spec.md §4.8/§7 requires of every prove entry point,
// and lib.rs's post-prove assert! implements for all three circuits.
// Only the length of publicInputs is used, in a debug log line; the actual verification
// witness is the public projection of the full witness gnark derives from
// assignment, guaranteeing it matches byte-for-byte.
func proveAndSelfVerify(name string, circuitBlank, assignment frontend.Circuit, pk groth16.ProvingKey, vk groth16.VerifyingKey, publicInputs []*big.Int) ([]byte, error) {
	ccs, err := setup.CompileCircuit(circuitBlank)
	if err != nil {
		return nil, err
	}

	w, err := frontend.NewWitness(assignment, ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("ffi: %s: build witness: %w", name, err)
	}

	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("ffi: %s: prove: %w", name, err)
	}

	publicWitness, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("ffi: %s: extract public witness: %w", name, err)
	}

	log.Debug().Str("circuit", name).Int("publicInputs", len(publicInputs)).Msg("proving")

	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		log.Fatal().Str("circuit", name).Err(err).Msg("self-verification of freshly generated proof failed")
	}

	return writeProof(proof)
}

// ─── PreTransfer ────────────────────────────────────────────────────────────

// GeneratePreTransferProof implements generate_pre_transfer_proof. Both the
// proving key and verifying key bytes are required here (unlike lib.rs's
// bundled groth16::Parameters) because gnark keeps ProvingKey and
// VerifyingKey as distinct serialized objects — the post-prove self-
// verification step needs both.
func GeneratePreTransferProof(
	commitRoot, commitRootT []byte,
	addresses [][]byte,
	passphrase, threshold, addressNew, nonce []byte,
	pkBytes, vkBytes []byte,
) ([]byte, error) {
	if len(addresses) != pretransfer.NumFriends {
		return nil, fmt.Errorf("ffi: pretransfer: expected %d addresses, got %d", pretransfer.NumFriends, len(addresses))
	}

	addrScalars, err := decodeScalars(addresses)
	if err != nil {
		return nil, err
	}
	cr, err := pedersen.DecodeScalar(commitRoot)
	if err != nil {
		return nil, err
	}
	crt, err := pedersen.DecodeScalar(commitRootT)
	if err != nil {
		return nil, err
	}
	pp, err := pedersen.DecodeScalar(passphrase)
	if err != nil {
		return nil, err
	}
	th, err := pedersen.DecodeScalar(threshold)
	if err != nil {
		return nil, err
	}
	an, err := pedersen.DecodeScalar(addressNew)
	if err != nil {
		return nil, err
	}
	nc, err := pedersen.DecodeScalar(nonce)
	if err != nil {
		return nil, err
	}

	// The caller supplies commit_root/commit_root_t directly (as lib.rs's
	// FFI signature does) rather than having this façade recompute them,
	// so BuildAssignment's own roots are overwritten with the caller's.
	assignment, err := pretransfer.BuildAssignment(addrScalars, pp, th, an, nc)
	if err != nil {
		return nil, err
	}
	assignment.CommitRoot = cr
	assignment.CommitRootT = crt

	pk, err := readProvingKey(pkBytes)
	if err != nil {
		return nil, err
	}
	vk, err := readVerifyingKey(vkBytes)
	if err != nil {
		return nil, err
	}

	publicInputs := pretransfer.PublicInputs(cr, crt, an, nc)
	return proveAndSelfVerify("pre_transfer", &pretransfer.Circuit{}, assignment, pk, vk, publicInputs)
}

// VerifyPreTransferProof implements verify_pre_transfer_proof, returning
// true on cryptographic acceptance, false on rejection.
func VerifyPreTransferProof(commitRoot, commitRootT, addressNew, nonce, proofBytes, vkBytes []byte) (bool, error) {
	cr, err := pedersen.DecodeScalar(commitRoot)
	if err != nil {
		return false, err
	}
	crt, err := pedersen.DecodeScalar(commitRootT)
	if err != nil {
		return false, err
	}
	an, err := pedersen.DecodeScalar(addressNew)
	if err != nil {
		return false, err
	}
	nc, err := pedersen.DecodeScalar(nonce)
	if err != nil {
		return false, err
	}

	proof, err := readProof(proofBytes)
	if err != nil {
		return false, err
	}
	vk, err := readVerifyingKey(vkBytes)
	if err != nil {
		return false, err
	}

	log.Debug().Str("circuit", "pre_transfer").Interface("publicInputs", pretransfer.PublicInputs(cr, crt, an, nc)).Msg("verifying")

	publicOnly := &pretransfer.Circuit{CommitRoot: cr, CommitRootT: crt, AddressNew: an, Nonce: nc}
	publicWitness, err := publicWitnessFrom(publicOnly)
	if err != nil {
		return false, err
	}
	return groth16.Verify(proof, vk, publicWitness) == nil, nil
}

// ─── Preparation ────────────────────────────────────────────────────────────

// GeneratePreparationProof implements generate_preparation_proof.
func GeneratePreparationProof(
	commitRoot []byte,
	friendAddress []byte,
	friendPath [][]byte,
	friendDirections []byte,
	passphrase, threshold, nonce []byte,
	verification, preTransferIndex, verificationNonce1, verificationNonce2 []byte,
	verificationRoot []byte,
	verificationPath [][]byte,
	verificationDirections []byte,
	pkBytes, vkBytes []byte,
) ([]byte, error) {
	if len(friendPath) != preparation.FriendsDepth || len(friendDirections) != preparation.FriendsDepth {
		return nil, fmt.Errorf("ffi: preparation: friend path/directions must have %d entries", preparation.FriendsDepth)
	}
	if len(verificationPath) != preparation.VerificationDepth || len(verificationDirections) != preparation.VerificationDepth {
		return nil, fmt.Errorf("ffi: preparation: verification path/directions must have %d entries", preparation.VerificationDepth)
	}

	fAddr, err := pedersen.DecodeScalar(friendAddress)
	if err != nil {
		return nil, err
	}
	fPathScalars, err := decodeScalars(friendPath)
	if err != nil {
		return nil, err
	}
	fDirs := decodeDirections(friendDirections)

	pp, err := pedersen.DecodeScalar(passphrase)
	if err != nil {
		return nil, err
	}
	th, err := pedersen.DecodeScalar(threshold)
	if err != nil {
		return nil, err
	}
	nc, err := pedersen.DecodeScalar(nonce)
	if err != nil {
		return nil, err
	}

	verif, err := pedersen.DecodeScalar(verification)
	if err != nil {
		return nil, err
	}
	pti, err := pedersen.DecodeScalar(preTransferIndex)
	if err != nil {
		return nil, err
	}
	vn1, err := pedersen.DecodeScalar(verificationNonce1)
	if err != nil {
		return nil, err
	}
	vn2, err := pedersen.DecodeScalar(verificationNonce2)
	if err != nil {
		return nil, err
	}
	vRoot, err := pedersen.DecodeScalar(verificationRoot)
	if err != nil {
		return nil, err
	}
	vPathScalars, err := decodeScalars(verificationPath)
	if err != nil {
		return nil, err
	}
	vDirs := decodeDirections(verificationDirections)
	cr, err := pedersen.DecodeScalar(commitRoot)
	if err != nil {
		return nil, err
	}

	friendPathSteps := make([]merkle.Step, preparation.FriendsDepth)
	for i := range friendPathSteps {
		friendPathSteps[i] = merkle.Step{Sibling: fPathScalars[i], Direction: fDirs[i]}
	}
	verificationPathSteps := make([]merkle.Step, preparation.VerificationDepth)
	for i := range verificationPathSteps {
		verificationPathSteps[i] = merkle.Step{Sibling: vPathScalars[i], Direction: vDirs[i]}
	}

	assignment := &preparation.Circuit{
		CommitRoot:       cr,
		Nonce:            nc,
		PreTransferIndex: pti,
		VerificationRoot: vRoot,

		FriendAddress:      fAddr,
		Passphrase:         pp,
		Threshold:          th,
		Verification:       verif,
		VerificationNonce1: vn1,
		VerificationNonce2: vn2,
	}
	for i, step := range friendPathSteps {
		assignment.FriendPath[i] = step.Sibling
		assignment.FriendDirections[i] = directionScalar(step.Direction)
	}
	for i, step := range verificationPathSteps {
		assignment.VerificationPath[i] = step.Sibling
		assignment.VerificationDirections[i] = directionScalar(step.Direction)
	}

	pk, err := readProvingKey(pkBytes)
	if err != nil {
		return nil, err
	}
	vk, err := readVerifyingKey(vkBytes)
	if err != nil {
		return nil, err
	}

	publicInputs := preparation.PublicInputs(cr, fDirs, nc, pti, vRoot)
	return proveAndSelfVerify("preparation", &preparation.Circuit{}, assignment, pk, vk, publicInputs)
}

// VerifyPreparationProof implements verify_preparation_proof.
func VerifyPreparationProof(
	commitRoot []byte,
	friendDirections []byte,
	nonce, preTransferIndex, verificationRoot []byte,
	proofBytes, vkBytes []byte,
) (bool, error) {
	if len(friendDirections) != preparation.FriendsDepth {
		return false, fmt.Errorf("ffi: preparation: friend directions must have %d entries", preparation.FriendsDepth)
	}

	cr, err := pedersen.DecodeScalar(commitRoot)
	if err != nil {
		return false, err
	}
	nc, err := pedersen.DecodeScalar(nonce)
	if err != nil {
		return false, err
	}
	pti, err := pedersen.DecodeScalar(preTransferIndex)
	if err != nil {
		return false, err
	}
	vRoot, err := pedersen.DecodeScalar(verificationRoot)
	if err != nil {
		return false, err
	}

	proof, err := readProof(proofBytes)
	if err != nil {
		return false, err
	}
	vk, err := readVerifyingKey(vkBytes)
	if err != nil {
		return false, err
	}

	fDirs := decodeDirections(friendDirections)
	log.Debug().Str("circuit", "preparation").Interface("publicInputs", preparation.PublicInputs(cr, fDirs, nc, pti, vRoot)).Msg("verifying")

	publicOnly := &preparation.Circuit{CommitRoot: cr, Nonce: nc, PreTransferIndex: pti, VerificationRoot: vRoot}
	for i, d := range fDirs {
		publicOnly.FriendDirections[i] = directionScalar(d)
	}
	publicWitness, err := publicWitnessFrom(publicOnly)
	if err != nil {
		return false, err
	}
	return groth16.Verify(proof, vk, publicWitness) == nil, nil
}

// ─── Transfer ───────────────────────────────────────────────────────────────

// GenerateTransferProof implements generate_transfer_proof.
func GenerateTransferProof(
	commitRoot []byte,
	vlistBytes []byte,
	addresses [][]byte,
	passphrase, threshold, nonce []byte,
	pkBytes, vkBytes []byte,
) ([]byte, error) {
	if len(addresses) != transfer.NumFriends {
		return nil, fmt.Errorf("ffi: transfer: expected %d addresses, got %d", transfer.NumFriends, len(addresses))
	}
	if len(vlistBytes) != transfer.NumFriends {
		return nil, fmt.Errorf("ffi: transfer: expected %d vlist entries, got %d", transfer.NumFriends, len(vlistBytes))
	}

	addrScalars, err := decodeScalars(addresses)
	if err != nil {
		return nil, err
	}
	pp, err := pedersen.DecodeScalar(passphrase)
	if err != nil {
		return nil, err
	}
	th, err := pedersen.DecodeScalar(threshold)
	if err != nil {
		return nil, err
	}
	nc, err := pedersen.DecodeScalar(nonce)
	if err != nil {
		return nil, err
	}
	cr, err := pedersen.DecodeScalar(commitRoot)
	if err != nil {
		return nil, err
	}
	vlist := decodeDirections(vlistBytes)

	assignment, err := transfer.BuildAssignment(addrScalars, pp, th, nc, vlist)
	if err != nil {
		return nil, err
	}
	assignment.CommitRoot = cr

	pk, err := readProvingKey(pkBytes)
	if err != nil {
		return nil, err
	}
	vk, err := readVerifyingKey(vkBytes)
	if err != nil {
		return nil, err
	}

	publicInputs := transfer.PublicInputs(cr, vlist)
	return proveAndSelfVerify("transfer", &transfer.Circuit{}, assignment, pk, vk, publicInputs)
}

// VerifyTransferProof implements verify_transfer_proof.
func VerifyTransferProof(commitRoot, vlistBytes, proofBytes, vkBytes []byte) (bool, error) {
	if len(vlistBytes) != transfer.NumFriends {
		return false, fmt.Errorf("ffi: transfer: expected %d vlist entries, got %d", transfer.NumFriends, len(vlistBytes))
	}

	cr, err := pedersen.DecodeScalar(commitRoot)
	if err != nil {
		return false, err
	}
	vlist := decodeDirections(vlistBytes)

	proof, err := readProof(proofBytes)
	if err != nil {
		return false, err
	}
	vk, err := readVerifyingKey(vkBytes)
	if err != nil {
		return false, err
	}

	log.Debug().Str("circuit", "transfer").Interface("publicInputs", transfer.PublicInputs(cr, vlist)).Msg("verifying")

	publicOnly := &transfer.Circuit{CommitRoot: cr}
	for i, v := range vlist {
		publicOnly.Vlist[i] = directionScalar(v)
	}
	publicWitness, err := publicWitnessFrom(publicOnly)
	if err != nil {
		return false, err
	}
	return groth16.Verify(proof, vk, publicWitness) == nil, nil
}
