// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"testing"
)

func TestNewMasterFromMnemonicIsDeterministic(t *testing.T) {
	m, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}

	k1, err := NewMasterFromMnemonic(m, "")
	if err != nil {
		t.Fatalf("NewMasterFromMnemonic: %v", err)
	}
	k2, err := NewMasterFromMnemonic(m, "")
	if err != nil {
		t.Fatalf("NewMasterFromMnemonic: %v", err)
	}

	if !k1.IsPrivate() || !k2.IsPrivate() {
		t.Fatalf("expected a master derived from a mnemonic to carry a private key")
	}
	priv1, _ := k1.PrivateKey()
	priv2, _ := k2.PrivateKey()
	if !bytes.Equal(priv1.Serialize(), priv2.Serialize()) {
		t.Fatalf("expected the same mnemonic to deterministically derive the same master key")
	}
}

func TestNewMasterRejectsBadSeedLength(t *testing.T) {
	if _, err := NewMaster(make([]byte, MinSeedBytes-1)); err == nil {
		t.Fatalf("expected a too-short seed to be rejected")
	}
	if _, err := NewMaster(make([]byte, MaxSeedBytes+1)); err == nil {
		t.Fatalf("expected a too-long seed to be rejected")
	}
}

func TestChildDerivationIsDeterministicAndDistinct(t *testing.T) {
	seed, err := GenerateSeed(RecommendedSeedLen)
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	master, err := NewMaster(seed)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}

	childA1, err := master.Child(0)
	if err != nil {
		t.Fatalf("Child(0): %v", err)
	}
	childA2, err := master.Child(0)
	if err != nil {
		t.Fatalf("Child(0) again: %v", err)
	}
	childB, err := master.Child(1)
	if err != nil {
		t.Fatalf("Child(1): %v", err)
	}

	privA1, _ := childA1.PrivateKey()
	privA2, _ := childA2.PrivateKey()
	privB, _ := childB.PrivateKey()

	if !bytes.Equal(privA1.Serialize(), privA2.Serialize()) {
		t.Fatalf("expected deriving the same index twice to yield the same child key")
	}
	if bytes.Equal(privA1.Serialize(), privB.Serialize()) {
		t.Fatalf("expected different indices to yield different child keys")
	}
	if childA1.Depth() != master.Depth()+1 {
		t.Fatalf("expected child depth to be parent depth + 1")
	}
}

func TestHardenedChildRequiresPrivateKey(t *testing.T) {
	seed, err := GenerateSeed(RecommendedSeedLen)
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	master, err := NewMaster(seed)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}

	neutered := master.Neuter()
	if neutered.IsPrivate() {
		t.Fatalf("expected a neutered key to report IsPrivate() == false")
	}
	if _, err := neutered.PrivateKey(); err == nil {
		t.Fatalf("expected PrivateKey to fail on a neutered extended key")
	}
	if _, err := neutered.Child(HardenedKeyStart); err == nil {
		t.Fatalf("expected deriving a hardened child from a public-only key to fail")
	}
}

func TestNeuteredChildMatchesPrivateChildPublicKey(t *testing.T) {
	seed, err := GenerateSeed(RecommendedSeedLen)
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	master, err := NewMaster(seed)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}

	privChild, err := master.Child(5)
	if err != nil {
		t.Fatalf("Child(5): %v", err)
	}

	pubChild, err := master.Neuter().Child(5)
	if err != nil {
		t.Fatalf("Neuter().Child(5): %v", err)
	}

	if !bytes.Equal(privChild.PublicKey().SerializeCompressed(), pubChild.PublicKey().SerializeCompressed()) {
		t.Fatalf("expected CKDpriv and CKDpub to derive the same public key at the same non-hardened index")
	}
}
