// Package setup compiles circuits, performs Groth16 key setup (both the
// insecure single-party dev path and the multi-party Phase 1/Phase 2 MPC
// ceremony), and exports/imports the resulting keys — generalized from a
// single fixed circuit to any of this system's three named circuits, and
// from BN254 to the BLS12-381 scalar field spec.md §1 fixes.
package setup

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/groth16/bls12-381/mpcsetup"
	"github.com/consensys/gnark/constraint"
	cs_bls12381 "github.com/consensys/gnark/constraint/bls12-381"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/rs/zerolog/log"
)

// CompileCircuit compiles a gnark circuit into an R1CS constraint system
// over the BLS12-381 scalar field.
func CompileCircuit(circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("setup: compile circuit: %w", err)
	}
	return ccs, nil
}

// DevSetup performs a single-party Groth16 trusted setup (NOT for
// production — spec.md §5 requires implementations to document that a
// default, non-ceremony RNG path is unsuitable for production trusted
// setup). It writes the proving and verifying keys to outputDir.
func DevSetup(circuit frontend.Circuit, outputDir, circuitName string) error {
	log.Warn().
		Str("circuit", circuitName).
		Msg("single-party dev setup (1-of-1 trust assumption) — do not use these keys in production")

	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("setup: groth16 setup: %w", err)
	}

	return ExportKeys(pk, vk, outputDir, circuitName)
}

// ExportKeys writes the proving key (<circuitName>.params) and verifying
// key (<circuitName>.vk) to outputDir, matching the file names spec.md §6
// names for the parameter-generation CLI.
func ExportKeys(pk groth16.ProvingKey, vk groth16.VerifyingKey, outputDir, circuitName string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("setup: create output dir: %w", err)
	}

	paramsPath := filepath.Join(outputDir, circuitName+".params")
	if err := saveObject(paramsPath, pk); err != nil {
		return err
	}

	vkPath := filepath.Join(outputDir, circuitName+".vk")
	if err := saveObject(vkPath, vk); err != nil {
		return err
	}

	log.Info().Str("params", paramsPath).Str("vk", vkPath).Msg("exported Groth16 keys")
	return nil
}

// LoadKeys loads the proving and verifying keys for circuitName from dir.
func LoadKeys(dir, circuitName string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk := groth16.NewProvingKey(ecc.BLS12_381)
	paramsPath := filepath.Join(dir, circuitName+".params")
	if err := loadObject(paramsPath, pk); err != nil {
		return nil, nil, fmt.Errorf("setup: load proving key: %w", err)
	}

	vk := groth16.NewVerifyingKey(ecc.BLS12_381)
	vkPath := filepath.Join(dir, circuitName+".vk")
	if err := loadObject(vkPath, vk); err != nil {
		return nil, nil, fmt.Errorf("setup: load verifying key: %w", err)
	}

	return pk, vk, nil
}

// LoadVerifyingKey loads only the verifying key for circuitName from dir —
// the shape a pure verifier entry point needs.
func LoadVerifyingKey(dir, circuitName string) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ecc.BLS12_381)
	vkPath := filepath.Join(dir, circuitName+".vk")
	if err := loadObject(vkPath, vk); err != nil {
		return nil, fmt.Errorf("setup: load verifying key: %w", err)
	}
	return vk, nil
}

// ─── MPC Ceremony ───────────────────────────────────────────────────────────
//
// Each circuit runs its own Phase 1 (Powers of Tau), sized to the next
// power of two above that circuit's constraint count, followed by a Phase 2
// specific to its constraint system. Each circuit's ceremony artifacts,
// Phase 1 included, live under their own subdirectory of CeremonyDir so
// the three ceremonies never collide.

// CeremonyDir is the root directory for ceremony files.
const CeremonyDir = "ceremony"

func ceremonyDir(circuitName string) string {
	return filepath.Join(CeremonyDir, circuitName)
}

// CeremonyP1Init initializes Phase 1 (Powers of Tau) for circuit.
func CeremonyP1Init(circuit frontend.Circuit, circuitName string) error {
	dir := ceremonyDir(circuitName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("setup: create ceremony dir: %w", err)
	}

	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}

	n := ecc.NextPowerOfTwo(uint64(ccs.GetNbConstraints()))
	log.Info().Str("circuit", circuitName).Uint64("domainSize", n).
		Int("log2DomainSize", bits.Len64(n)-1).
		Int("constraints", ccs.GetNbConstraints()).
		Msg("phase 1: powers of tau domain sized")

	p := mpcsetup.NewPhase1(n)
	path := nextContribPath(dir, "phase1")
	if err := saveObject(path, &p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote initial phase 1 state")
	return nil
}

// CeremonyP1Contribute adds a Phase 1 contribution for circuit.
func CeremonyP1Contribute(circuitName string) error {
	dir := ceremonyDir(circuitName)
	latest, err := latestContrib(dir, "phase1")
	if err != nil {
		return err
	}

	var p mpcsetup.Phase1
	if err := loadObject(latest, &p); err != nil {
		return err
	}

	p.Contribute()

	path := nextContribPath(dir, "phase1")
	if err := saveObject(path, &p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote phase 1 contribution")
	return nil
}

// CeremonyP1Verify verifies Phase 1 contributions for circuit and seals
// them with a random beacon.
func CeremonyP1Verify(circuit frontend.Circuit, circuitName, beaconHex string) error {
	dir := ceremonyDir(circuitName)
	beacon, err := parseBeacon(beaconHex)
	if err != nil {
		return err
	}

	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}
	n := ecc.NextPowerOfTwo(uint64(ccs.GetNbConstraints()))

	contribs, err := findContribs(dir, "phase1")
	if err != nil {
		return err
	}
	if len(contribs) < 2 {
		return fmt.Errorf("setup: need at least the init file + one contribution to verify")
	}

	phases := make([]*mpcsetup.Phase1, len(contribs)-1)
	for i, path := range contribs[1:] {
		phases[i] = new(mpcsetup.Phase1)
		if err := loadObject(path, phases[i]); err != nil {
			return err
		}
	}

	commons, err := mpcsetup.VerifyPhase1(n, beacon, phases...)
	if err != nil {
		return fmt.Errorf("setup: phase 1 verification failed: %w", err)
	}

	srsPath := filepath.Join(dir, "srs_commons.bin")
	if err := saveObject(srsPath, &commons); err != nil {
		return err
	}
	log.Info().Str("path", srsPath).Msg("phase 1 verified and sealed")
	return nil
}

// CeremonyP2Init initializes Phase 2 for circuit, using the sealed Phase 1
// SRS commons.
func CeremonyP2Init(circuit frontend.Circuit, circuitName string) error {
	dir := ceremonyDir(circuitName)
	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}
	r1csConcrete, ok := ccs.(*cs_bls12381.R1CS)
	if !ok {
		return fmt.Errorf("setup: unexpected constraint system type %T", ccs)
	}

	var commons mpcsetup.SrsCommons
	if err := loadObject(filepath.Join(dir, "srs_commons.bin"), &commons); err != nil {
		return err
	}

	var p mpcsetup.Phase2
	p.Initialize(r1csConcrete, &commons)

	path := nextContribPath(dir, "phase2")
	if err := saveObject(path, &p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote initial phase 2 state")
	return nil
}

// CeremonyP2Contribute adds a Phase 2 contribution for circuit.
func CeremonyP2Contribute(circuitName string) error {
	dir := ceremonyDir(circuitName)
	latest, err := latestContrib(dir, "phase2")
	if err != nil {
		return err
	}

	var p mpcsetup.Phase2
	if err := loadObject(latest, &p); err != nil {
		return err
	}

	p.Contribute()

	path := nextContribPath(dir, "phase2")
	if err := saveObject(path, &p); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote phase 2 contribution")
	return nil
}

// CeremonyP2Verify verifies Phase 2 contributions for circuit, seals them,
// and exports production-ready keys to outputDir.
func CeremonyP2Verify(circuit frontend.Circuit, circuitName, beaconHex, outputDir string) error {
	dir := ceremonyDir(circuitName)
	beacon, err := parseBeacon(beaconHex)
	if err != nil {
		return err
	}

	ccs, err := CompileCircuit(circuit)
	if err != nil {
		return err
	}
	r1csConcrete, ok := ccs.(*cs_bls12381.R1CS)
	if !ok {
		return fmt.Errorf("setup: unexpected constraint system type %T", ccs)
	}

	var commons mpcsetup.SrsCommons
	if err := loadObject(filepath.Join(dir, "srs_commons.bin"), &commons); err != nil {
		return err
	}

	contribs, err := findContribs(dir, "phase2")
	if err != nil {
		return err
	}
	if len(contribs) < 2 {
		return fmt.Errorf("setup: need at least the init file + one contribution to verify")
	}

	phases := make([]*mpcsetup.Phase2, len(contribs)-1)
	for i, path := range contribs[1:] {
		phases[i] = new(mpcsetup.Phase2)
		if err := loadObject(path, phases[i]); err != nil {
			return err
		}
	}

	pk, vk, err := mpcsetup.VerifyPhase2(r1csConcrete, &commons, beacon, phases...)
	if err != nil {
		return fmt.Errorf("setup: phase 2 verification failed: %w", err)
	}

	if err := ExportKeys(pk, vk, outputDir, circuitName); err != nil {
		return err
	}
	log.Info().Str("circuit", circuitName).Msg("ceremony complete, keys are production-ready")
	return nil
}

// ─── Internal helpers ───────────────────────────────────────────────────────

func saveObject(path string, obj io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("setup: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := obj.WriteTo(f); err != nil {
		return fmt.Errorf("setup: write %s: %w", path, err)
	}
	return nil
}

func loadObject(path string, obj io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("setup: open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := obj.ReadFrom(f); err != nil {
		return fmt.Errorf("setup: read %s: %w", path, err)
	}
	return nil
}

func parseBeacon(hexStr string) ([]byte, error) {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("setup: invalid beacon hex: %w", err)
	}
	if len(b) < 16 {
		return nil, fmt.Errorf("setup: beacon must be at least 16 bytes for sufficient entropy")
	}
	return b, nil
}

// findContribs returns sorted paths matching <dir>/<prefix>_NNNN.bin
func findContribs(dir, prefix string) ([]string, error) {
	pattern := filepath.Join(dir, prefix+"_????.bin")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("setup: glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func latestContrib(dir, prefix string) (string, error) {
	contribs, err := findContribs(dir, prefix)
	if err != nil {
		return "", err
	}
	if len(contribs) == 0 {
		return "", fmt.Errorf("setup: no %s contributions found in %s/", prefix, dir)
	}
	return contribs[len(contribs)-1], nil
}

func nextContribPath(dir, prefix string) string {
	contribs, _ := findContribs(dir, prefix)
	return filepath.Join(dir, fmt.Sprintf("%s_%04d.bin", prefix, len(contribs)))
}
