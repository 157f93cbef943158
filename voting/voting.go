// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package voting implements deterministic derivation of an isolated
// Paillier voting keypair from a member's secp256k1 ECDH shared secret:
// HKDF-SHA512 seed expansion feeding a seeded DRBG, deterministic prime
// generation, and isolated-key wrapping. This is the "VotingService"
// variant spec.md §9 names as authoritative over the older
// StaticHelpersVoting implementation.
package voting

import (
	"crypto/sha512"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
	"github.com/Digital-Defiance/BrightChain-sub011/ecies"
	"github.com/Digital-Defiance/BrightChain-sub011/paillier"
)

// DefaultKeyPairBitLength is the Paillier modulus bit length BrightChain
// targets, reaffirming the older StaticHelpersVoting.votingKeyPairBitLength
// constant per spec.md §9.
const DefaultKeyPairBitLength = 3072

// hkdfInfo is the HKDF "info" context string binding the expansion to this
// specific derivation, per spec.md §4.3 step 3.
const hkdfInfo = "PaillierPrimeGen"

// ErrorKind identifies a class of voting-derivation error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

// Error kinds returned by this package, per spec.md §7.
const (
	ErrPrivateKeyMustBeBuffer  ErrorKind = "voting: private key must be a 32-byte buffer"
	ErrPublicKeyMustBeBuffer   ErrorKind = "voting: public key must be a 64 or 65-byte buffer"
	ErrInvalidEcdhKeyPair      ErrorKind = "voting: invalid ECDH keypair"
	ErrFailedToGeneratePrime   ErrorKind = "voting: failed to generate prime"
	ErrIdenticalPrimes         ErrorKind = "voting: identical primes"
	ErrKeyPairTooSmall         ErrorKind = "voting: keypair too small"
	ErrKeyPairValidationFailed ErrorKind = "voting: keypair validation failed"
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

// DeriveFromKeys derives a deterministic isolated Paillier voting keypair
// from an ECDH (priv, pub) pair, using DefaultKeyPairBitLength.
func DeriveFromKeys(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) (*paillier.IsolatedPublicKey, *paillier.IsolatedPrivateKey, error) {
	return DeriveFromKeysWithBitLength(priv, pub, DefaultKeyPairBitLength)
}

// DeriveFromKeysWithBitLength is DeriveFromKeys with an explicit modulus
// bit length, primarily so tests can use a smaller size than the 3072-bit
// production default.
func DeriveFromKeysWithBitLength(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey, bits int) (*paillier.IsolatedPublicKey, *paillier.IsolatedPrivateKey, error) {
	shared := ecies.SharedSecret(priv, pub)
	return deriveFromSeed(shared[:], bits)
}

// DeriveFromRawKeys is the raw-bytes entry point spec.md §4.3 describes:
// priv must be exactly 32 bytes, pub must be 64 (raw x||y) or 65 (0x04 ||
// x || y) bytes.
func DeriveFromRawKeys(privBytes, pubBytes []byte) (*paillier.IsolatedPublicKey, *paillier.IsolatedPrivateKey, error) {
	if len(privBytes) != 32 {
		return nil, nil, makeError(ErrPrivateKeyMustBeBuffer, "voting: private key must be exactly 32 bytes")
	}
	if len(pubBytes) != 64 && len(pubBytes) != 65 {
		return nil, nil, makeError(ErrPublicKeyMustBeBuffer, "voting: public key must be 64 or 65 bytes")
	}

	priv := secp256k1.PrivKeyFromBytes(privBytes)
	pub, err := ecies.ParseUncompressedPublicKey(pubBytes)
	if err != nil {
		return nil, nil, makeError(ErrInvalidEcdhKeyPair, "voting: malformed public key: "+err.Error())
	}

	return DeriveFromKeys(priv, pub)
}

// deriveFromSeed implements spec.md §4.3 steps 3-7 given the 32-byte ECDH
// shared secret.
func deriveFromSeed(sharedSecret []byte, bits int) (*paillier.IsolatedPublicKey, *paillier.IsolatedPrivateKey, error) {
	salt := make([]byte, 64)
	kdf := hkdf.New(sha512.New, sharedSecret, salt, []byte(hkdfInfo))
	seed := make([]byte, 64)
	if _, err := io.ReadFull(kdf, seed); err != nil {
		return nil, nil, err
	}

	d := newDRBG(seed)

	primeBits := bits/2 + 1

	p, err := generatePrime(d, primeBits)
	if err != nil {
		return nil, nil, err
	}
	q, err := generatePrime(d, primeBits)
	if err != nil {
		return nil, nil, err
	}
	if p.Cmp(q) == 0 {
		return nil, nil, makeError(ErrIdenticalPrimes, "voting: derived primes are identical")
	}

	pub, priv, err := paillier.NewKeyPair(p, q)
	if err != nil {
		return nil, nil, err
	}

	if pub.N.BitLen() < bits {
		return nil, nil, makeError(ErrKeyPairTooSmall,
			"voting: derived modulus is smaller than the required bit length")
	}

	// Sanity round-trip check, per spec.md §4.3 step 7.
	check := big.NewInt(42)
	ct, err := paillier.Encrypt(pub, check)
	if err != nil {
		return nil, nil, makeError(ErrKeyPairValidationFailed, "voting: sanity encryption failed: "+err.Error())
	}
	if got := paillier.Decrypt(priv, ct); got.Cmp(check) != 0 {
		return nil, nil, makeError(ErrKeyPairValidationFailed, "voting: sanity round-trip failed")
	}

	ipub, ipriv, err := paillier.NewIsolatedKeyPair(pub, priv)
	if err != nil {
		return nil, nil, err
	}
	return ipub, ipriv, nil
}
