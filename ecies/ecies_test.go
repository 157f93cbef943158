// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import (
	"bytes"
	"errors"
	"testing"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
)

func mustKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return priv
}

func TestSharedSecretAgreement(t *testing.T) {
	a := mustKey(t)
	b := mustKey(t)

	secretAB := SharedSecret(a, b.PubKey())
	secretBA := SharedSecret(b, a.PubKey())
	if secretAB != secretBA {
		t.Fatalf("ECDH shared secrets do not agree")
	}
}

func TestEncryptDecryptSingleRoundTrip(t *testing.T) {
	priv := mustKey(t)
	plaintext := []byte("hello world")

	envelope, err := EncryptSingle(priv.PubKey(), plaintext)
	if err != nil {
		t.Fatalf("EncryptSingle: %v", err)
	}

	got, err := DecryptSingle(priv, envelope)
	if err != nil {
		t.Fatalf("DecryptSingle: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("decrypted plaintext mismatch: got %q want %q", got, plaintext)
	}
}

func TestDecryptSingleTamperedByte(t *testing.T) {
	priv := mustKey(t)
	envelope, err := EncryptSingle(priv.PubKey(), []byte("hello world"))
	if err != nil {
		t.Fatalf("EncryptSingle: %v", err)
	}

	// Flip the byte at offset 65, the first IV byte right after the
	// 65-byte ephemeral public key (S2 flips offset 65).
	envelope[PublicKeyLength] ^= 0x01

	if _, err := DecryptSingle(priv, envelope); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestEnvelopeOverheadIsExact(t *testing.T) {
	priv := mustKey(t)
	plaintext := []byte("exact overhead check")
	envelope, err := EncryptSingle(priv.PubKey(), plaintext)
	if err != nil {
		t.Fatalf("EncryptSingle: %v", err)
	}
	if len(envelope) != SingleRecipientOverhead+len(plaintext) {
		t.Fatalf("envelope length = %d, want %d", len(envelope), SingleRecipientOverhead+len(plaintext))
	}
}

func TestMultiRecipientRoundTrip(t *testing.T) {
	const n = 5
	plaintext := []byte("shared message for every recipient")

	privs := make([]*secp256k1.PrivateKey, n)
	recipients := make([]Recipient, n)
	for i := 0; i < n; i++ {
		privs[i] = mustKey(t)
		recipients[i] = Recipient{
			ID:     RecipientIDFromPubKey(privs[i].PubKey()),
			PubKey: privs[i].PubKey(),
		}
	}

	envelope, err := EncryptMulti(recipients, plaintext)
	if err != nil {
		t.Fatalf("EncryptMulti: %v", err)
	}

	for i := 0; i < n; i++ {
		got, err := DecryptMulti(privs[i], recipients[i].ID, envelope)
		if err != nil {
			t.Fatalf("recipient %d: DecryptMulti: %v", i, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("recipient %d: plaintext mismatch", i)
		}
	}
}

func TestMultiRecipientUnlistedKeyFails(t *testing.T) {
	a := mustKey(t)
	outsider := mustKey(t)
	recipients := []Recipient{{ID: RecipientIDFromPubKey(a.PubKey()), PubKey: a.PubKey()}}

	envelope, err := EncryptMulti(recipients, []byte("secret"))
	if err != nil {
		t.Fatalf("EncryptMulti: %v", err)
	}

	unlisted := RecipientIDFromPubKey(outsider.PubKey())
	if _, err := DecryptMulti(outsider, unlisted, envelope); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
}

func TestStreamEncryptDecryptRoundTrip(t *testing.T) {
	priv := mustKey(t)
	blockSize := 256
	data := bytes.Repeat([]byte("0123456789abcdef"), 50) // bigger than several strides

	envelopes, err := StreamEncrypt(priv.PubKey(), blockSize, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("StreamEncrypt: %v", err)
	}
	if len(envelopes) < 2 {
		t.Fatalf("expected multiple strides, got %d", len(envelopes))
	}

	got, err := StreamDecrypt(priv, envelopes)
	if err != nil {
		t.Fatalf("StreamDecrypt: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("stream round trip mismatch")
	}
}

func TestMultiRecipientOverheadMonotonic(t *testing.T) {
	if MultiRecipientOverhead(2) <= MultiRecipientOverhead(1) {
		t.Fatalf("multi-recipient overhead should increase with recipient count")
	}
}
