// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockformat implements BrightChain's self-describing binary
// block header: magic-prefix detection, structured block type tagging,
// CRC8 integrity verification, and the capacity calculator that accounts
// for every overhead source a block's encryption and header impose.
package blockformat

import (
	"github.com/Digital-Defiance/BrightChain-sub011/crc"
)

// StructuredType identifies which structured header variant a block
// carries, the second byte of the header.
type StructuredType byte

// Structured header types, per spec.md §3's magic-byte table.
const (
	TypeCBL         StructuredType = 0x02
	TypeSuperCBL    StructuredType = 0x03
	TypeExtendedCBL StructuredType = 0x04
	TypeMessageCBL  StructuredType = 0x05
)

// Magic is the leading byte marking a structured block.
const Magic byte = 0xBC

// EncryptedMagic is the leading byte marking an ECIES-encrypted block
// (uncompressed public key prefix reused as a format discriminator).
const EncryptedMagic byte = 0x04

// HeaderVersion is the only header version this package emits or accepts.
const HeaderVersion byte = 0x01

// Fixed byte offsets within a structured header, per spec.md §3.
const (
	OffsetMagic            = 0
	OffsetType             = 1
	OffsetVersion          = 2
	OffsetCRC8             = 3
	OffsetCreatorID        = 4
	CreatorIDLength        = 16
	OffsetDateCreated      = OffsetCreatorID + CreatorIDLength
	DateCreatedLength      = 8
	OffsetAddressCount     = OffsetDateCreated + DateCreatedLength
	AddressCountLength     = 4
	OffsetTupleSize        = OffsetAddressCount + AddressCountLength
	TupleSizeLength        = 1
	OffsetOriginalSize     = OffsetTupleSize + TupleSizeLength
	OriginalSizeLength     = 8
	OffsetOriginalChecksum = OffsetOriginalSize + OriginalSizeLength
	OriginalChecksumLength = 64
	OffsetIsExtended       = OffsetOriginalChecksum + OriginalChecksumLength
	IsExtendedLength       = 1
	// BaseHeaderFixedLength is the length of the fixed (non-extended,
	// non-signature) portion of the header: bytes [0, OffsetIsExtended+1).
	BaseHeaderFixedLength = OffsetIsExtended + IsExtendedLength
	// SignatureLength is the trailing signature region's width.
	SignatureLength = 65
)

// ErrorKind identifies a class of block-format error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

// Error kinds returned by this package, per spec.md §7's Format group.
const (
	ErrDataTooShort         ErrorKind = "blockformat: data too short"
	ErrUnknownBlockFormat   ErrorKind = "blockformat: unknown block format"
	ErrInvalidStructuredType ErrorKind = "blockformat: invalid structured block type"
	ErrCRC8Mismatch         ErrorKind = "blockformat: crc8 mismatch"
	ErrUnsupportedVersion   ErrorKind = "blockformat: unsupported header version"
	ErrDataAppearsEncrypted ErrorKind = "blockformat: data appears encrypted"
	ErrInvalidBlockSize     ErrorKind = "blockformat: invalid block size"
	ErrInvalidBlockType     ErrorKind = "blockformat: invalid block type"
	ErrCapacityExceeded     ErrorKind = "blockformat: capacity exceeded"
	ErrInvalidRecipientCount ErrorKind = "blockformat: invalid recipient count"
)

// Error wraps an ErrorKind with additional context. For ErrCRC8Mismatch,
// Expected and Got carry the two differing CRC8 values.
type Error struct {
	Err         error
	Description string
	Expected    byte
	Got         byte
}

// Error returns the human-readable description.
func (e Error) Error() string { return e.Description }

// Unwrap returns the underlying ErrorKind.
func (e Error) Unwrap() error { return e.Err }

func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// DetectionResult reports the outcome of inspecting a candidate block
// buffer's format, per spec.md §4.4.
type DetectionResult struct {
	IsValid      bool
	BlockType    StructuredType
	Version      byte
	IsStructured bool
	IsEncrypted  bool
	Err          error
}

// validStructuredTypes enumerates the structured type bytes this package
// recognises.
var validStructuredTypes = map[StructuredType]bool{
	TypeCBL:         true,
	TypeSuperCBL:    true,
	TypeExtendedCBL: true,
	TypeMessageCBL:  true,
}

// DetectBlockFormat classifies buf per spec.md §4.4's decision tree.
func DetectBlockFormat(buf []byte) DetectionResult {
	if len(buf) < 4 {
		err := makeError(ErrDataTooShort, "blockformat: buffer shorter than the minimum 4-byte prefix")
		return DetectionResult{Err: err}
	}

	switch buf[0] {
	case Magic:
		return detectStructured(buf)
	case EncryptedMagic:
		err := makeError(ErrDataAppearsEncrypted, "blockformat: leading byte matches the ECIES envelope prefix")
		return DetectionResult{IsEncrypted: true, Err: err}
	default:
		err := makeError(ErrUnknownBlockFormat, "blockformat: unrecognised leading byte")
		return DetectionResult{Err: err}
	}
}

func detectStructured(buf []byte) DetectionResult {
	t := StructuredType(buf[1])
	v := buf[2]
	storedCRC := buf[3]

	if !validStructuredTypes[t] {
		err := makeError(ErrInvalidStructuredType, "blockformat: unrecognised structured block type byte")
		return DetectionResult{IsStructured: true, BlockType: t, Version: v, Err: err}
	}

	headerEnd, err := headerEnd(buf, t, v)
	if err != nil {
		return DetectionResult{IsStructured: true, BlockType: t, Version: v, Err: err}
	}

	crcRegionEnd := headerEnd - SignatureLength
	if crcRegionEnd < OffsetCreatorID || len(buf) < headerEnd {
		err := makeError(ErrDataTooShort, "blockformat: buffer shorter than the declared header region")
		return DetectionResult{IsStructured: true, BlockType: t, Version: v, Err: err}
	}

	crcRegion := buf[OffsetCreatorID:crcRegionEnd]
	computed := crc.Checksum8(crcRegion)
	if computed != storedCRC {
		return DetectionResult{
			IsStructured: true,
			BlockType:    t,
			Version:      v,
			Err: Error{
				Err:         ErrCRC8Mismatch,
				Description: "blockformat: crc8 mismatch over header region",
				Expected:    storedCRC,
				Got:         computed,
			},
		}
	}

	return DetectionResult{
		IsValid:      true,
		IsStructured: true,
		BlockType:    t,
		Version:      v,
	}
}

// headerEnd computes the byte offset one past the end of the full header
// (including the trailing signature) for a given structured type and
// version. The base CBL layout is fixed; ExtendedCBL and MessageCBL carry
// length-prefixed variable fields read from the buffer itself, so this
// function inspects buf rather than computing a constant.
func headerEnd(buf []byte, t StructuredType, v byte) (int, error) {
	if v != HeaderVersion {
		return 0, makeError(ErrUnsupportedVersion, "blockformat: unsupported header version byte")
	}

	switch t {
	case TypeCBL, TypeSuperCBL:
		return BaseHeaderFixedLength + SignatureLength, nil
	case TypeExtendedCBL, TypeMessageCBL:
		return extendedHeaderEnd(buf)
	default:
		return 0, makeError(ErrInvalidStructuredType, "blockformat: unrecognised structured block type byte")
	}
}

// extendedHeaderEnd parses the variable-length fileName/mimeType region
// that follows the fixed base header in Extended/MessageCBL variants:
// [2B fileNameLen][fileName][1B mimeTypeLen][mimeType].
func extendedHeaderEnd(buf []byte) (int, error) {
	if len(buf) < BaseHeaderFixedLength+2 {
		return 0, makeError(ErrDataTooShort, "blockformat: buffer too short for extended field length prefix")
	}
	offset := BaseHeaderFixedLength
	fileNameLen := int(buf[offset])<<8 | int(buf[offset+1])
	offset += 2 + fileNameLen

	if len(buf) < offset+1 {
		return 0, makeError(ErrDataTooShort, "blockformat: buffer too short for mime type length prefix")
	}
	mimeTypeLen := int(buf[offset])
	offset += 1 + mimeTypeLen

	return offset + SignatureLength, nil
}
