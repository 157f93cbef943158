// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockformat

import (
	"encoding/binary"
	"testing"

	"github.com/Digital-Defiance/BrightChain-sub011/crc"
)

// buildValidCBLBlock assembles a minimal, internally-consistent CBL-shaped
// buffer: fixed header declaring 3 addresses + 65-byte signature, with no
// address list after it (the cbl package's parser would reject the missing
// addresses, but DetectBlockFormat only checks magic/type/version/CRC8, so
// it is fine here).
func buildValidCBLBlock(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, BaseHeaderFixedLength+SignatureLength)
	buf[OffsetMagic] = Magic
	buf[OffsetType] = byte(TypeCBL)
	buf[OffsetVersion] = HeaderVersion
	binary.BigEndian.PutUint32(buf[OffsetAddressCount:], 3)
	buf[OffsetTupleSize] = 3

	crcRegion := buf[OffsetCreatorID:BaseHeaderFixedLength]
	buf[OffsetCRC8] = crc.Checksum8(crcRegion)
	return buf
}

func TestDetectBlockFormatValidCBL(t *testing.T) {
	buf := buildValidCBLBlock(t)
	result := DetectBlockFormat(buf)
	if !result.IsValid {
		t.Fatalf("expected valid CBL block, got error: %v", result.Err)
	}
	if result.BlockType != TypeCBL {
		t.Fatalf("expected TypeCBL, got %v", result.BlockType)
	}
}

func TestDetectBlockFormatTooShort(t *testing.T) {
	result := DetectBlockFormat([]byte{0xBC, 0x02})
	if result.IsValid {
		t.Fatalf("expected invalid result for short buffer")
	}
}

func TestDetectBlockFormatUnknownStructuredType(t *testing.T) {
	buf := buildValidCBLBlock(t)
	buf[OffsetType] = 0x09
	result := DetectBlockFormat(buf)
	if result.IsValid {
		t.Fatalf("expected invalid result for unknown structured type")
	}
}

func TestDetectBlockFormatCRC8Mismatch(t *testing.T) {
	buf := buildValidCBLBlock(t)
	buf[OffsetCreatorID] ^= 0xFF
	result := DetectBlockFormat(buf)
	if result.IsValid {
		t.Fatalf("expected CRC8 mismatch to invalidate the block")
	}
}

func TestDetectBlockFormatEncrypted(t *testing.T) {
	buf := make([]byte, 100)
	buf[0] = EncryptedMagic
	result := DetectBlockFormat(buf)
	if !result.IsEncrypted {
		t.Fatalf("expected IsEncrypted to be set")
	}
}

func TestDetectBlockFormatUnknown(t *testing.T) {
	buf := make([]byte, 10)
	buf[0] = 0x7F
	result := DetectBlockFormat(buf)
	if result.IsValid {
		t.Fatalf("expected invalid result for unrecognised prefix")
	}
}

func TestCalculateRawDataNoOverhead(t *testing.T) {
	res, err := Calculate(Request{BlockSize: 1024, BlockType: BlockTypeRawData, Encryption: EncryptionNone})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Overhead != 0 || res.AvailableCapacity != 1024 {
		t.Fatalf("expected zero overhead for raw data, got %+v", res)
	}
}

func TestCalculateCBLTupleAlignment(t *testing.T) {
	res, err := Calculate(Request{
		BlockSize:  4096,
		BlockType:  BlockTypeCBL,
		Encryption: EncryptionNone,
		TupleSize:  3,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.AvailableCapacity%(ChecksumLength*3) != 0 {
		t.Fatalf("expected tuple-aligned capacity, got %d", res.AvailableCapacity)
	}
}

func TestCalculateEncryptionReducesCapacity(t *testing.T) {
	plain, err := Calculate(Request{BlockSize: 4096, BlockType: BlockTypeCBL, Encryption: EncryptionNone, TupleSize: 3})
	if err != nil {
		t.Fatalf("Calculate(plain): %v", err)
	}
	encrypted, err := Calculate(Request{BlockSize: 4096, BlockType: BlockTypeCBL, Encryption: EncryptionSingleRecipient, TupleSize: 3})
	if err != nil {
		t.Fatalf("Calculate(encrypted): %v", err)
	}
	if encrypted.AvailableCapacity >= plain.AvailableCapacity {
		t.Fatalf("expected encryption to strictly reduce available capacity: plain=%d encrypted=%d",
			plain.AvailableCapacity, encrypted.AvailableCapacity)
	}
}

func TestCalculateExtendedFieldsReduceCapacity(t *testing.T) {
	plain, err := Calculate(Request{BlockSize: 4096, BlockType: BlockTypeExtendedCBL, TupleSize: 3})
	if err != nil {
		t.Fatalf("Calculate(plain): %v", err)
	}
	extended, err := Calculate(Request{
		BlockSize: 4096,
		BlockType: BlockTypeExtendedCBL,
		TupleSize: 3,
		// Long enough (95 extra bytes) to cross a 192-byte tuple-aligned
		// boundary: a short name such as "report.pdf" adds only 28 bytes
		// and leaves the floored capacity at 3840 either way.
		Extension: &CBLExtension{
			FileName: "quarterly-financial-report-for-the-board-of-directors-2024-final-revision.pdf",
			MimeType: "application/pdf",
		},
	})
	if err != nil {
		t.Fatalf("Calculate(extended): %v", err)
	}
	if extended.AvailableCapacity >= plain.AvailableCapacity {
		t.Fatalf("expected extended fields to reduce available capacity")
	}
}

func TestCalculateCapacityExceeded(t *testing.T) {
	_, err := Calculate(Request{BlockSize: 16, BlockType: BlockTypeCBL, Encryption: EncryptionSingleRecipient})
	if err == nil {
		t.Fatalf("expected CapacityExceeded for an undersized block")
	}
}

func TestSuperCBLBaseRoundTrip(t *testing.T) {
	h := SuperCBLHeader{
		DateCreatedMilli: 1700000000000,
		ChildCBLCount:    6,
		TupleSize:        3,
		OriginalSize:     123456,
	}
	h.CreatorID[0] = 0xAB
	h.OriginalChecksum[0] = 0xCD

	buf := EncodeSuperCBLBase(h)
	got, err := DecodeSuperCBLBase(buf)
	if err != nil {
		t.Fatalf("DecodeSuperCBLBase: %v", err)
	}
	if got.ChildCBLCount != h.ChildCBLCount || got.TupleSize != h.TupleSize || got.OriginalSize != h.OriginalSize {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestMessageCBLBaseRoundTrip(t *testing.T) {
	h := MessageCBLHeader{
		DateCreatedMilli: 1700000000000,
		MessageLength:    42,
	}
	buf := EncodeMessageCBLBase(h)
	got, err := DecodeMessageCBLBase(buf)
	if err != nil {
		t.Fatalf("DecodeMessageCBLBase: %v", err)
	}
	if got.MessageLength != h.MessageLength {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}
