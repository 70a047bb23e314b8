// Command libzk is the cgo shell that turns this module's pure-Go ffi
// package into a C-ABI shared library. It holds no logic of its own:
// every exported symbol converts C pointers to Go byte slices, calls
// straight into package ffi, and copies the result back into a
// caller-allocated output buffer. Build with:
//
//	go build -buildmode=c-shared -o libzk.so ./cmd/libzk
//
// cgo is the only mechanism the Go toolchain offers for producing a C
// ABI from Go; there is no third-party alternative to wrap here, so this
// file is plain stdlib-and-cgo by necessity.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/rs/zerolog/log"

	"github.com/linbeier/zk-transfer/circuits/preparation"
	"github.com/linbeier/zk-transfer/circuits/pretransfer"
	"github.com/linbeier/zk-transfer/circuits/transfer"
	"github.com/linbeier/zk-transfer/config"
	"github.com/linbeier/zk-transfer/ffi"
)

// scalarSize is HASH_SIZE, the fixed little-endian scalar encoding width
// every buffer below is sliced in units of.
const scalarSize = config.HashSize

func goBytes(ptr *C.uchar, n int) []byte {
	if ptr == nil || n == 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(ptr), C.int(n))
}

// chunks splits a contiguous caller buffer of count*scalarSize bytes into
// count independent scalar-sized slices.
func chunks(ptr *C.uchar, count int) [][]byte {
	buf := goBytes(ptr, count*scalarSize)
	out := make([][]byte, count)
	for i := range out {
		out[i] = buf[i*scalarSize : (i+1)*scalarSize]
	}
	return out
}

func copyOut(dst *C.uchar, src []byte) {
	if len(src) == 0 {
		return
	}
	out := (*[1 << 30]byte)(unsafe.Pointer(dst))[:len(src):len(src)]
	copy(out, src)
}

//export zk_jubjub_hash
func zk_jubjub_hash(tag C.longlong, aPtr, bPtr, outPtr *C.uchar) C.int {
	out, err := ffi.JubjubHash(int(tag), goBytes(aPtr, scalarSize), goBytes(bPtr, scalarSize))
	if err != nil {
		log.Error().Err(err).Msg("zk_jubjub_hash")
		return -1
	}
	copyOut(outPtr, out)
	return 0
}

//export zk_generate_pre_transfer_proof
func zk_generate_pre_transfer_proof(
	commitRootPtr, commitRootTPtr *C.uchar,
	addressesPtr *C.uchar,
	passphrasePtr, thresholdPtr, addressNewPtr, noncePtr *C.uchar,
	pkPtr *C.uchar, pkLen C.int,
	vkPtr *C.uchar, vkLen C.int,
	outPtr *C.uchar, outLen *C.int,
) C.int {
	proof, err := ffi.GeneratePreTransferProof(
		goBytes(commitRootPtr, scalarSize), goBytes(commitRootTPtr, scalarSize),
		chunks(addressesPtr, pretransfer.NumFriends),
		goBytes(passphrasePtr, scalarSize), goBytes(thresholdPtr, scalarSize),
		goBytes(addressNewPtr, scalarSize), goBytes(noncePtr, scalarSize),
		goBytes(pkPtr, int(pkLen)), goBytes(vkPtr, int(vkLen)),
	)
	if err != nil {
		log.Error().Err(err).Msg("zk_generate_pre_transfer_proof")
		return -1
	}
	copyOut(outPtr, proof)
	*outLen = C.int(len(proof))
	return 0
}

//export zk_verify_pre_transfer_proof
func zk_verify_pre_transfer_proof(
	commitRootPtr, commitRootTPtr, addressNewPtr, noncePtr *C.uchar,
	proofPtr *C.uchar, proofLen C.int,
	vkPtr *C.uchar, vkLen C.int,
) C.int {
	ok, err := ffi.VerifyPreTransferProof(
		goBytes(commitRootPtr, scalarSize), goBytes(commitRootTPtr, scalarSize),
		goBytes(addressNewPtr, scalarSize), goBytes(noncePtr, scalarSize),
		goBytes(proofPtr, int(proofLen)), goBytes(vkPtr, int(vkLen)),
	)
	if err != nil {
		log.Error().Err(err).Msg("zk_verify_pre_transfer_proof")
		return -1
	}
	if ok {
		return 1
	}
	return 0
}

//export zk_generate_preparation_proof
func zk_generate_preparation_proof(
	commitRootPtr *C.uchar,
	friendAddressPtr *C.uchar,
	friendPathPtr *C.uchar,
	friendDirectionsPtr *C.uchar,
	passphrasePtr, thresholdPtr, noncePtr *C.uchar,
	verificationPtr, preTransferIndexPtr, verificationNonce1Ptr, verificationNonce2Ptr *C.uchar,
	verificationRootPtr *C.uchar,
	verificationPathPtr *C.uchar,
	verificationDirectionsPtr *C.uchar,
	pkPtr *C.uchar, pkLen C.int,
	vkPtr *C.uchar, vkLen C.int,
	outPtr *C.uchar, outLen *C.int,
) C.int {
	friendPath := chunks(friendPathPtr, preparation.FriendsDepth)
	verificationPath := chunks(verificationPathPtr, preparation.VerificationDepth)

	proof, err := ffi.GeneratePreparationProof(
		goBytes(commitRootPtr, scalarSize),
		goBytes(friendAddressPtr, scalarSize),
		friendPath,
		goBytes(friendDirectionsPtr, preparation.FriendsDepth),
		goBytes(passphrasePtr, scalarSize), goBytes(thresholdPtr, scalarSize), goBytes(noncePtr, scalarSize),
		goBytes(verificationPtr, scalarSize), goBytes(preTransferIndexPtr, scalarSize),
		goBytes(verificationNonce1Ptr, scalarSize), goBytes(verificationNonce2Ptr, scalarSize),
		goBytes(verificationRootPtr, scalarSize),
		verificationPath,
		goBytes(verificationDirectionsPtr, preparation.VerificationDepth),
		goBytes(pkPtr, int(pkLen)), goBytes(vkPtr, int(vkLen)),
	)
	if err != nil {
		log.Error().Err(err).Msg("zk_generate_preparation_proof")
		return -1
	}
	copyOut(outPtr, proof)
	*outLen = C.int(len(proof))
	return 0
}

//export zk_verify_preparation_proof
func zk_verify_preparation_proof(
	commitRootPtr *C.uchar,
	friendDirectionsPtr *C.uchar,
	noncePtr, preTransferIndexPtr, verificationRootPtr *C.uchar,
	proofPtr *C.uchar, proofLen C.int,
	vkPtr *C.uchar, vkLen C.int,
) C.int {
	ok, err := ffi.VerifyPreparationProof(
		goBytes(commitRootPtr, scalarSize),
		goBytes(friendDirectionsPtr, preparation.FriendsDepth),
		goBytes(noncePtr, scalarSize), goBytes(preTransferIndexPtr, scalarSize), goBytes(verificationRootPtr, scalarSize),
		goBytes(proofPtr, int(proofLen)), goBytes(vkPtr, int(vkLen)),
	)
	if err != nil {
		log.Error().Err(err).Msg("zk_verify_preparation_proof")
		return -1
	}
	if ok {
		return 1
	}
	return 0
}

//export zk_generate_transfer_proof
func zk_generate_transfer_proof(
	commitRootPtr *C.uchar,
	vlistPtr *C.uchar,
	addressesPtr *C.uchar,
	passphrasePtr, thresholdPtr, noncePtr *C.uchar,
	pkPtr *C.uchar, pkLen C.int,
	vkPtr *C.uchar, vkLen C.int,
	outPtr *C.uchar, outLen *C.int,
) C.int {
	proof, err := ffi.GenerateTransferProof(
		goBytes(commitRootPtr, scalarSize),
		goBytes(vlistPtr, transfer.NumFriends),
		chunks(addressesPtr, transfer.NumFriends),
		goBytes(passphrasePtr, scalarSize), goBytes(thresholdPtr, scalarSize), goBytes(noncePtr, scalarSize),
		goBytes(pkPtr, int(pkLen)), goBytes(vkPtr, int(vkLen)),
	)
	if err != nil {
		log.Error().Err(err).Msg("zk_generate_transfer_proof")
		return -1
	}
	copyOut(outPtr, proof)
	*outLen = C.int(len(proof))
	return 0
}

//export zk_verify_transfer_proof
func zk_verify_transfer_proof(
	commitRootPtr *C.uchar,
	vlistPtr *C.uchar,
	proofPtr *C.uchar, proofLen C.int,
	vkPtr *C.uchar, vkLen C.int,
) C.int {
	ok, err := ffi.VerifyTransferProof(
		goBytes(commitRootPtr, scalarSize),
		goBytes(vlistPtr, transfer.NumFriends),
		goBytes(proofPtr, int(proofLen)), goBytes(vkPtr, int(vkLen)),
	)
	if err != nil {
		log.Error().Err(err).Msg("zk_verify_transfer_proof")
		return -1
	}
	if ok {
		return 1
	}
	return 0
}

func main() {}
