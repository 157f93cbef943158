// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package voting

import (
	"math/big"
	"testing"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
	"github.com/Digital-Defiance/BrightChain-sub011/ecies"
)

// testKeyPair returns a freshly generated random (priv, pub) ECDH pair for
// tests.
func testKeyPair(t *testing.T) (*secp256k1.PrivateKey, *secp256k1.PublicKey) {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return priv, priv.PubKey()
}

// smallTestBits keeps derivation fast in tests; production always uses
// DefaultKeyPairBitLength.
const smallTestBits = 256

func TestDeriveFromKeysIsDeterministic(t *testing.T) {
	priv, pub := testKeyPair(t)

	pub1, _, err := DeriveFromKeysWithBitLength(priv, pub, smallTestBits)
	if err != nil {
		t.Fatalf("first derivation: %v", err)
	}
	pub2, _, err := DeriveFromKeysWithBitLength(priv, pub, smallTestBits)
	if err != nil {
		t.Fatalf("second derivation: %v", err)
	}

	if pub1.Base.N.Cmp(pub2.Base.N) != 0 {
		t.Fatalf("S5: same (priv, pub) must derive the same modulus across calls")
	}
}

func TestDeriveFromKeysDiffersPerInput(t *testing.T) {
	privA, pubA := testKeyPair(t)
	privB, pubB := testKeyPair(t)

	pubKeyA, _, err := DeriveFromKeysWithBitLength(privA, pubA, smallTestBits)
	if err != nil {
		t.Fatalf("derive A: %v", err)
	}
	pubKeyB, _, err := DeriveFromKeysWithBitLength(privB, pubB, smallTestBits)
	if err != nil {
		t.Fatalf("derive B: %v", err)
	}

	if pubKeyA.Base.N.Cmp(pubKeyB.Base.N) == 0 {
		t.Fatalf("different ECDH inputs must not derive the same modulus")
	}
}

func TestDeriveFromKeysRoundTrip(t *testing.T) {
	priv, pub := testKeyPair(t)

	ipub, ipriv, err := DeriveFromKeysWithBitLength(priv, pub, smallTestBits)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	m := big.NewInt(42)
	c, err := ipub.Encrypt(m)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := ipriv.Decrypt(c)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got.Cmp(m) != 0 {
		t.Fatalf("round trip = %s, want %s", got, m)
	}
}

func TestDeriveFromRawKeysRejectsBadLengths(t *testing.T) {
	if _, _, err := DeriveFromRawKeys(make([]byte, 31), make([]byte, 65)); err == nil {
		t.Fatalf("expected error for short private key")
	}
	if _, _, err := DeriveFromRawKeys(make([]byte, 32), make([]byte, 63)); err == nil {
		t.Fatalf("expected error for malformed public key")
	}
}

func TestDeriveFromRawKeysMatchesTypedKeys(t *testing.T) {
	priv, pub := testKeyPair(t)
	shared := ecies.SharedSecret(priv, pub)
	_ = shared // sanity that the shared-secret primitive is reachable from here too

	uncompressed := pub.SerializeUncompressed()

	ipub1, _, err := DeriveFromRawKeys(priv.Serialize(), uncompressed)
	if err != nil {
		t.Fatalf("DeriveFromRawKeys: %v", err)
	}
	ipub2, _, err := DeriveFromKeysWithBitLength(priv, pub, DefaultKeyPairBitLength)
	if err != nil {
		t.Fatalf("DeriveFromKeysWithBitLength: %v", err)
	}
	if ipub1.Base.N.Cmp(ipub2.Base.N) != 0 {
		t.Fatalf("raw-key and typed-key derivation paths must agree")
	}
}
