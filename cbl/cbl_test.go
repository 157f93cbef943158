// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cbl

import (
	"testing"
	"time"

	"github.com/Digital-Defiance/BrightChain-sub011/blockformat"
	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
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

func sixAddresses() []byte {
	buf := make([]byte, 6*checksum.Size)
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

// TestBuildAndValidate exercises spec.md §8 scenario S3: a CBL with 6
// addresses (tuple_size=3), signed by Alice, verifies true for Alice and
// false for Bob; altering the address count field invalidates the
// signature.
func TestBuildAndValidate(t *testing.T) {
	alice := mustKey(t)
	bob := mustKey(t)

	var creatorID [blockformat.CreatorIDLength]byte
	creatorID[0] = 0x01

	req := BuildRequest{
		CreatorID:        creatorID,
		CreatorPrivKey:   alice,
		DateCreated:      time.Now(),
		AddressCount:     6,
		TupleSize:        3,
		OriginalLength:   123456,
		OriginalChecksum: checksum.Compute([]byte("original file contents")),
		Addresses:        sixAddresses(),
	}

	built, err := MakeCBLHeader(req)
	if err != nil {
		t.Fatalf("MakeCBLHeader: %v", err)
	}

	header, err := ParseHeader(withAddressesAppended(built.HeaderData, req.Addresses))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	if !header.ValidateSignature(alice.PubKey()) {
		t.Fatalf("expected signature to validate against Alice's public key")
	}
	if header.ValidateSignature(bob.PubKey()) {
		t.Fatalf("expected signature to be invalid against Bob's public key")
	}

	// Lower the declared address count from 6 to 3 (its least significant
	// byte) so the tampered buffer still parses and only the signature
	// check can reject it.
	tampered := withAddressesAppended(built.HeaderData, req.Addresses)
	tampered[blockformat.OffsetAddressCount+blockformat.AddressCountLength-1] ^= 0x05
	tamperedHeader, err := ParseHeader(tampered)
	if err != nil {
		t.Fatalf("ParseHeader(tampered): %v", err)
	}
	if tamperedHeader.ValidateSignature(alice.PubKey()) {
		t.Fatalf("expected tampering the address count to invalidate the signature")
	}
}

// withAddressesAppended reconstructs a parseable block buffer: the
// address list physically follows the signed header region in the
// assembled block, per spec.md §3's layout.
func withAddressesAppended(headerData, addresses []byte) []byte {
	out := make([]byte, 0, len(headerData)+len(addresses))
	out = append(out, headerData...)
	out = append(out, addresses...)
	return out
}

func TestRejectsBadAddressCount(t *testing.T) {
	alice := mustKey(t)
	var creatorID [blockformat.CreatorIDLength]byte

	req := BuildRequest{
		CreatorID:        creatorID,
		CreatorPrivKey:   alice,
		DateCreated:      time.Now(),
		AddressCount:     5, // not a multiple of tuple size 3
		TupleSize:        3,
		OriginalChecksum: checksum.Compute([]byte("x")),
		Addresses:        make([]byte, 5*checksum.Size),
	}
	if _, err := MakeCBLHeader(req); err == nil {
		t.Fatalf("expected error for address count not divisible by tuple size")
	}
}

func TestRejectsInvalidTupleSize(t *testing.T) {
	alice := mustKey(t)
	req := BuildRequest{
		CreatorPrivKey:   alice,
		DateCreated:      time.Now(),
		AddressCount:     2,
		TupleSize:        1,
		OriginalChecksum: checksum.Compute([]byte("x")),
		Addresses:        make([]byte, 2*checksum.Size),
	}
	if _, err := MakeCBLHeader(req); err == nil {
		t.Fatalf("expected error for tuple size below minimum")
	}
}

func TestExtendedHeaderValidatesFileNameAndMime(t *testing.T) {
	alice := mustKey(t)
	req := BuildRequest{
		CreatorPrivKey:   alice,
		DateCreated:      time.Now(),
		AddressCount:     3,
		TupleSize:        3,
		OriginalChecksum: checksum.Compute([]byte("x")),
		Addresses:        make([]byte, 3*checksum.Size),
		Extended:         &Extension{FileName: "../../etc/passwd", MimeType: "text/plain"},
	}
	if _, err := MakeCBLHeader(req); err == nil {
		t.Fatalf("expected path traversal file name to be rejected")
	}

	req.Extended = &Extension{FileName: "report.pdf", MimeType: "APPLICATION/PDF"}
	if _, err := MakeCBLHeader(req); err == nil {
		t.Fatalf("expected uppercase mime type to be rejected")
	}

	req.Extended = &Extension{FileName: "report.pdf", MimeType: "application/pdf"}
	built, err := MakeCBLHeader(req)
	if err != nil {
		t.Fatalf("MakeCBLHeader: %v", err)
	}

	full := withAddressesAppended(built.HeaderData, req.Addresses)
	header, err := ParseHeader(full)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if !header.IsExtendedHeader() {
		t.Fatalf("expected extended header flag to be set")
	}
	name, err := header.GetFileName()
	if err != nil || name != "report.pdf" {
		t.Fatalf("GetFileName: %q, %v", name, err)
	}
}

func TestNonExtendedAccessorsFail(t *testing.T) {
	alice := mustKey(t)
	req := BuildRequest{
		CreatorPrivKey:   alice,
		DateCreated:      time.Now(),
		AddressCount:     3,
		TupleSize:        3,
		OriginalChecksum: checksum.Compute([]byte("x")),
		Addresses:        make([]byte, 3*checksum.Size),
	}
	built, err := MakeCBLHeader(req)
	if err != nil {
		t.Fatalf("MakeCBLHeader: %v", err)
	}
	header, err := ParseHeader(withAddressesAppended(built.HeaderData, req.Addresses))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if _, err := header.GetFileName(); err == nil {
		t.Fatalf("expected GetFileName to fail on a non-extended header")
	}
}

func TestCalculateCBLAddressCapacityProperties(t *testing.T) {
	small, err := CalculateCBLAddressCapacity(4096, false, 3, "", "")
	if err != nil {
		t.Fatalf("CalculateCBLAddressCapacity: %v", err)
	}
	large, err := CalculateCBLAddressCapacity(65536, false, 3, "", "")
	if err != nil {
		t.Fatalf("CalculateCBLAddressCapacity: %v", err)
	}
	if large < small {
		t.Fatalf("expected capacity to be monotone in block size")
	}
	if small%3 != 0 {
		t.Fatalf("expected capacity to be a multiple of tuple size")
	}

	encrypted, err := CalculateCBLAddressCapacity(4096, true, 3, "", "")
	if err != nil {
		t.Fatalf("CalculateCBLAddressCapacity(encrypted): %v", err)
	}
	if encrypted >= small {
		t.Fatalf("expected encryption to strictly reduce address capacity")
	}
}
