// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
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

func TestSignVerifyRoundTrip(t *testing.T) {
	priv := mustKey(t)
	msg := []byte("brightchain cbl header bytes")

	sig := Sign(priv, msg)
	if !Verify(priv.PubKey(), sig, msg) {
		t.Fatalf("Verify failed for a valid signature")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	priv := mustKey(t)
	sig := Sign(priv, []byte("original message"))

	if Verify(priv.PubKey(), sig, []byte("tampered message")) {
		t.Fatalf("Verify accepted a signature over a different message")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv := mustKey(t)
	other := mustKey(t)
	msg := []byte("some bytes")

	sig := Sign(priv, msg)
	if Verify(other.PubKey(), sig, msg) {
		t.Fatalf("Verify accepted a signature against an unrelated key")
	}
}

func TestRecoverReturnsSigner(t *testing.T) {
	priv := mustKey(t)
	msg := []byte("recoverable payload")
	sig := Sign(priv, msg)

	recovered, err := Recover(sig, msg)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if Address(recovered) != Address(priv.PubKey()) {
		t.Fatalf("recovered address does not match signer")
	}
}

func TestSignatureByteLayout(t *testing.T) {
	priv := mustKey(t)
	sig := Sign(priv, []byte("layout check"))
	if len(sig.Bytes()) != Size {
		t.Fatalf("signature must serialize to exactly %d bytes", Size)
	}
	if sig[64] > 3 {
		t.Fatalf("trailing recovery byte should be small (v-27), got %d", sig[64])
	}
}

func TestFromBytesInvalidLength(t *testing.T) {
	_, err := FromBytes(make([]byte, Size-1))
	if err == nil {
		t.Fatalf("expected error for short buffer")
	}
}
