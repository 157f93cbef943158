// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import (
	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
)

// SharedSecret computes the secp256k1 ECDH shared secret between priv and
// pub: the x-coordinate of priv.D * pub, as a 32-byte big-endian value.
// This is the same primitive the voting package uses to seed deterministic
// Paillier key derivation (spec.md §4.3), so it is exported rather than
// kept private to this package.
func SharedSecret(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) [32]byte {
	var pubJacobian secp256k1.JacobianPoint
	pub.AsJacobian(&pubJacobian)

	var sharedJacobian secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&priv.Key, &pubJacobian, &sharedJacobian)
	sharedJacobian.ToAffine()

	xBytes := sharedJacobian.X.Bytes()
	return *xBytes
}

// ParseUncompressedPublicKey parses a 65-byte uncompressed (0x04-prefixed)
// or bare 64-byte raw public key into a *secp256k1.PublicKey, normalising
// the 64-byte form by prepending the 0x04 prefix as spec.md §4.3 requires.
func ParseUncompressedPublicKey(buf []byte) (*secp256k1.PublicKey, error) {
	switch len(buf) {
	case 64:
		normalised := make([]byte, 65)
		normalised[0] = 0x04
		copy(normalised[1:], buf)
		return secp256k1.ParsePubKey(normalised)
	case 65:
		return secp256k1.ParsePubKey(buf)
	default:
		return nil, makeError(ErrInvalidKeyLength, "ecies: public key must be 64 or 65 bytes")
	}
}
