// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature implements BrightChain's Ethereum-style message
// signing: the "\x19Ethereum Signed Message:\n<len>" personal-message
// preprocessor, followed by a recoverable secp256k1 ECDSA signature
// serialized as the fixed 65-byte r || s || (v-27) layout used throughout
// the block and CBL headers.
package signature

import (
	"strconv"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// Size is the fixed length, in bytes, of a serialized Signature.
const Size = 65

// personalMessagePrefix is the Ethereum "personal_sign" preamble. Keeping
// it byte-for-byte identical to the Ethereum convention means signatures
// produced here remain interoperable with wallets that implement the same
// scheme, per spec.md's explicit design note against substituting plain
// ECDSA.
const personalMessagePrefix = "\x19Ethereum Signed Message:\n"

// ErrorKind identifies a class of signature error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

const (
	// ErrInvalidSignatureLength is returned when a serialized signature is
	// not exactly Size bytes.
	ErrInvalidSignatureLength ErrorKind = "signature: invalid length"
	// ErrInvalidRecoveryID is returned when the trailing recovery byte is
	// out of the expected {0,1,2,3} range (after subtracting 27).
	ErrInvalidRecoveryID ErrorKind = "signature: invalid recovery id"
	// ErrRecoveryFailed is returned when public key recovery fails outright.
	ErrRecoveryFailed ErrorKind = "signature: recovery failed"
)

// Error wraps an ErrorKind with additional context.
type Error struct {
	Err         error
	Description string
}

// Error returns the human-readable description.
func (e Error) Error() string { return e.Description }

// Unwrap returns the underlying ErrorKind.
func (e Error) Unwrap() error { return e.Err }

func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// Signature is a fixed 65-byte recoverable ECDSA signature: r(32) || s(32)
// || (v-27)(1).
type Signature [Size]byte

// HashPersonalMessage applies the Ethereum "personal_sign" preprocessor to
// data: Keccak256("\x19Ethereum Signed Message:\n" + len(data) + data).
func HashPersonalMessage(data []byte) [32]byte {
	prefix := personalMessagePrefix + strconv.Itoa(len(data))
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(prefix))
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Sign produces a Signature over msg using priv, after applying
// HashPersonalMessage. The returned signature is recoverable: Verify and
// Recover both work from it alone, given the message.
func Sign(priv *secp256k1.PrivateKey, msg []byte) Signature {
	digest := HashPersonalMessage(msg)
	compact := ecdsa.SignCompact(priv, digest[:], false)

	// ecdsa.SignCompact returns [recoveryIDByte || r(32) || s(32)] with the
	// recovery byte biased by compactSigMagicOffset (27, optionally +4 for
	// compressed keys). Re-lay it out as r || s || (v-27) per spec.md §4.2.
	var sig Signature
	copy(sig[0:32], compact[1:33])
	copy(sig[32:64], compact[33:65])
	sig[64] = compact[0] - 27
	return sig
}

// Verify reports whether sig is a valid signature over msg by the holder
// of pub. Following the Ethereum convention spec.md §4.2 calls out, the
// comparison is done on addresses (Keccak256 of the uncompressed public
// key, last 20 bytes) rather than directly on curve points.
func Verify(pub *secp256k1.PublicKey, sig Signature, msg []byte) bool {
	recovered, err := Recover(sig, msg)
	if err != nil {
		return false
	}
	return Address(recovered) == Address(pub)
}

// Recover recovers the public key that produced sig over msg.
func Recover(sig Signature, msg []byte) (*secp256k1.PublicKey, error) {
	if sig[64] > 3 {
		return nil, makeError(ErrInvalidRecoveryID, "signature: recovery id out of range")
	}
	digest := HashPersonalMessage(msg)

	compact := make([]byte, Size)
	compact[0] = sig[64] + 27
	copy(compact[1:33], sig[0:32])
	copy(compact[33:65], sig[32:64])

	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return nil, makeError(ErrRecoveryFailed, "signature: public key recovery failed: "+err.Error())
	}
	return pub, nil
}

// FromBytes parses a 65-byte buffer into a Signature.
func FromBytes(buf []byte) (Signature, error) {
	var sig Signature
	if len(buf) != Size {
		return sig, makeError(ErrInvalidSignatureLength,
			"signature: expected 65 bytes, got "+strconv.Itoa(len(buf)))
	}
	copy(sig[:], buf)
	return sig, nil
}

// Bytes returns the signature's 65 raw bytes.
func (s Signature) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, s[:])
	return out
}

// Address returns the Ethereum-style address of pub: the last 20 bytes of
// Keccak256 of its uncompressed public key with the leading 0x04 prefix
// stripped.
func Address(pub *secp256k1.PublicKey) [20]byte {
	uncompressed := pub.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	sum := h.Sum(nil)
	var addr [20]byte
	copy(addr[:], sum[len(sum)-20:])
	return addr
}
