// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet implements BrightChain's BIP-39/BIP-32-style key
// derivation: a mnemonic deterministically stretches into a seed, the seed
// derives a master extended key, and the master (or any of its children)
// exposes the secp256k1 keypair a Member uses as its ECDH identity.
package wallet

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
)

// Seed length bounds, mirroring BIP-32's recommended range.
const (
	MinSeedBytes       = 16
	MaxSeedBytes       = 64
	RecommendedSeedLen = 32
)

// HardenedKeyStart is the index of the first hardened child key, per
// BIP-32: indices at or above this value derive using the parent's
// private key rather than its public key.
const HardenedKeyStart = uint32(0x80000000)

// masterHMACKey is BIP-32's fixed HMAC key for deriving a master node from
// a seed.
var masterHMACKey = []byte("Bitcoin seed")

const chainCodeLength = 32

// ExtendedKey is a node in a BIP-32-style hierarchy: a secp256k1 key (
// private, if known) plus the chain code needed to derive its children.
type ExtendedKey struct {
	privKey   *secp256k1.PrivateKey // nil for a public-only (neutered) key
	pubKey    *secp256k1.PublicKey
	chainCode [chainCodeLength]byte
	depth     uint8
	childNum  uint32
}

// GenerateSeed returns length cryptographically random bytes, suitable as
// a BIP-32 master seed. length must be in [MinSeedBytes, MaxSeedBytes].
func GenerateSeed(length uint8) ([]byte, error) {
	if length < MinSeedBytes || length > MaxSeedBytes {
		return nil, makeError(ErrInvalidSeedLen, "wallet: seed length out of bounds")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// NewMaster derives the master ExtendedKey from seed via
// HMAC-SHA512(key="Bitcoin seed", seed) = IL || IR, where IL becomes the
// master private key and IR the master chain code.
func NewMaster(seed []byte) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, makeError(ErrInvalidSeedLen, "wallet: seed length out of bounds")
	}

	h := hmac.New(sha512.New, masterHMACKey)
	h.Write(seed)
	sum := h.Sum(nil)

	il, ir := sum[:32], sum[32:]

	var ilScalar secp256k1.ModNScalar
	overflow := ilScalar.SetByteSlice(il)
	if overflow || ilScalar.IsZero() {
		return nil, makeError(ErrInvalidKeyLen, "wallet: master IL is not a valid secp256k1 scalar")
	}
	privKey := secp256k1.PrivKeyFromBytes(il)

	key := &ExtendedKey{privKey: privKey, pubKey: privKey.PubKey()}
	copy(key.chainCode[:], ir)
	return key, nil
}

// NewMasterFromMnemonic is a convenience wrapper: stretch mnemonic into a
// seed via Mnemonic.Seed, then NewMaster it. This is the entry point
// Member uses to rehydrate a wallet from a stored mnemonic.
func NewMasterFromMnemonic(m Mnemonic, passphrase string) (*ExtendedKey, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return NewMaster(m.Seed(passphrase))
}

// IsPrivate reports whether k holds a private key (as opposed to being a
// neutered, public-only extended key).
func (k *ExtendedKey) IsPrivate() bool {
	return k.privKey != nil
}

// PrivateKey returns k's secp256k1 private key. It fails with
// ErrNotPrivExtKey if k has been neutered.
func (k *ExtendedKey) PrivateKey() (*secp256k1.PrivateKey, error) {
	if k.privKey == nil {
		return nil, makeError(ErrNotPrivExtKey, "wallet: extended key has no private key")
	}
	return k.privKey, nil
}

// PublicKey returns k's secp256k1 public key, always available regardless
// of whether k is neutered.
func (k *ExtendedKey) PublicKey() *secp256k1.PublicKey {
	return k.pubKey
}

// Neuter returns a copy of k with its private key discarded, leaving only
// the public key and chain code — enough to derive further public-only
// children, but not to sign or derive hardened children.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	n := &ExtendedKey{pubKey: k.pubKey, depth: k.depth, childNum: k.childNum}
	n.chainCode = k.chainCode
	return n
}

// Child derives the index'th child of k, per BIP-32 CKDpriv/CKDpub.
// Indices >= HardenedKeyStart derive a hardened child, which requires k to
// hold a private key (ErrDeriveHardFromPublic otherwise). A derived child
// whose IL is not a valid scalar, or whose resulting key is the point at
// infinity, fails with ErrInvalidChild; per BIP-32 the caller should retry
// with index+1 (the probability of this happening is negligible).
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	isHardened := index >= HardenedKeyStart
	if isHardened && k.privKey == nil {
		return nil, makeError(ErrDeriveHardFromPublic,
			"wallet: cannot derive a hardened child from a public-only extended key")
	}

	var data []byte
	if isHardened {
		data = make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, k.privKey.Serialize()...)
	} else {
		data = append([]byte(nil), k.pubKey.SerializeCompressed()...)
	}
	var idxBuf [4]byte
	binary.BigEndian.PutUint32(idxBuf[:], index)
	data = append(data, idxBuf[:]...)

	h := hmac.New(sha512.New, k.chainCode[:])
	h.Write(data)
	sum := h.Sum(nil)
	il, ir := sum[:32], sum[32:]

	ilScalar := new(secp256k1.ModNScalar)
	overflow := ilScalar.SetByteSlice(il)
	if overflow || ilScalar.IsZero() {
		return nil, makeError(ErrInvalidChild, "wallet: derived IL is out of range, retry with the next index")
	}

	child := &ExtendedKey{depth: k.depth + 1, childNum: index}
	copy(child.chainCode[:], ir)

	if k.privKey != nil {
		var childScalar secp256k1.ModNScalar
		childScalar.Add2(&k.privKey.Key, ilScalar)
		if childScalar.IsZero() {
			return nil, makeError(ErrInvalidChild, "wallet: derived child key is zero, retry with the next index")
		}
		childBytes := childScalar.Bytes()
		child.privKey = secp256k1.PrivKeyFromBytes(childBytes[:])
		child.pubKey = child.privKey.PubKey()
		return child, nil
	}

	var ilJacobian secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(ilScalar, &ilJacobian)
	var parentJacobian secp256k1.JacobianPoint
	k.pubKey.AsJacobian(&parentJacobian)
	var sumJacobian secp256k1.JacobianPoint
	secp256k1.AddNonConst(&ilJacobian, &parentJacobian, &sumJacobian)
	sumJacobian.ToAffine()
	if sumJacobian.X.IsZero() && sumJacobian.Y.IsZero() {
		return nil, makeError(ErrInvalidChild, "wallet: derived child public key is the point at infinity, retry with the next index")
	}
	child.pubKey = secp256k1.NewPublicKey(&sumJacobian.X, &sumJacobian.Y)
	return child, nil
}

// Depth returns the number of derivation steps between k and the master
// node (0 for the master itself).
func (k *ExtendedKey) Depth() uint8 { return k.depth }
