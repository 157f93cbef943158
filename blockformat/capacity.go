// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockformat

import (
	"strconv"

	"github.com/Digital-Defiance/BrightChain-sub011/ecies"
)

// ChecksumLength is the width, in bytes, of one CBL address entry
// (a SHA3-512 checksum).
const ChecksumLength = 64

// BlockType distinguishes the capacity-relevant categories of block this
// calculator reasons about. It is coarser than StructuredType: every
// CBL-family structured type shares the same tuple-alignment rule.
type BlockType int

// Block types recognised by the capacity calculator.
const (
	BlockTypeRawData BlockType = iota
	BlockTypeCBL
	BlockTypeSuperCBL
	BlockTypeExtendedCBL
	BlockTypeMessageCBL
)

func (t BlockType) isCBLFamily() bool {
	switch t {
	case BlockTypeCBL, BlockTypeSuperCBL, BlockTypeExtendedCBL, BlockTypeMessageCBL:
		return true
	default:
		return false
	}
}

func (t BlockType) baseHeaderOverhead() int {
	switch t {
	case BlockTypeRawData:
		return 0
	default:
		return BaseHeaderFixedLength + SignatureLength
	}
}

// EncryptionType selects which ECIES envelope (if any) wraps a block's
// payload, per spec.md §4.4's overhead composition rules.
type EncryptionType int

// Encryption types recognised by the capacity calculator.
const (
	EncryptionNone EncryptionType = iota
	EncryptionSingleRecipient
	EncryptionMultiRecipient
)

// CBLExtension carries the variable-length fields an Extended/MessageCBL
// header adds, when CapacityCalculator.Calculate is asked to account for
// them.
type CBLExtension struct {
	FileName string
	MimeType string
}

// Request bundles the inputs to CapacityCalculator.Calculate.
type Request struct {
	BlockSize       int
	BlockType       BlockType
	Encryption      EncryptionType
	RecipientCount  int
	Extension       *CBLExtension
	TupleSize       int
}

// Result reports the outcome of a capacity calculation, per spec.md §4.4.
type Result struct {
	TotalCapacity     int
	Overhead          int
	AvailableCapacity int
	Details           string
}

// singleRecipientEnvelopeOverhead is the fixed per-envelope overhead
// spec.md §4.4 names for single-recipient encryption: a 1-byte type tag
// plus the ECIES envelope overhead plus a 16-byte recipient id.
const singleRecipientEnvelopeOverhead = 1 + ecies.SingleRecipientOverhead + ecies.RecipientIDLength

func encryptionOverhead(enc EncryptionType, recipientCount int) (int, error) {
	switch enc {
	case EncryptionNone:
		return 0, nil
	case EncryptionSingleRecipient:
		return singleRecipientEnvelopeOverhead, nil
	case EncryptionMultiRecipient:
		if recipientCount <= 0 {
			return 0, makeError(ErrInvalidRecipientCount, "blockformat: multi-recipient encryption requires recipientCount > 0")
		}
		return 1 + ecies.MultiRecipientOverhead(recipientCount), nil
	default:
		return 0, makeError(ErrInvalidBlockType, "blockformat: unrecognised encryption type")
	}
}

func extensionOverhead(ext *CBLExtension) int {
	if ext == nil {
		return 0
	}
	return 2 + len(ext.FileName) + 1 + len(ext.MimeType)
}

// floorToMultiple rounds n down to the nearest multiple of m (m > 0).
func floorToMultiple(n, m int) int {
	if m <= 0 {
		return n
	}
	return (n / m) * m
}

// Calculate implements CapacityCalculator.calculate from spec.md §4.4:
// it composes base header overhead, encryption overhead, and variable
// (extended-field) overhead, then floors the remaining capacity to a
// tuple-aligned multiple of ChecksumLength for CBL-family block types.
func Calculate(req Request) (Result, error) {
	if req.BlockSize <= 0 {
		return Result{}, makeError(ErrInvalidBlockSize, "blockformat: block size must be positive")
	}
	tupleSize := req.TupleSize
	if tupleSize == 0 {
		tupleSize = 1
	}

	base := req.BlockType.baseHeaderOverhead()
	encOverhead, err := encryptionOverhead(req.Encryption, req.RecipientCount)
	if err != nil {
		return Result{}, err
	}
	varOverhead := extensionOverhead(req.Extension)

	overhead := base + encOverhead + varOverhead
	if overhead > req.BlockSize {
		return Result{}, makeError(ErrCapacityExceeded, "blockformat: header and encryption overhead exceed block size")
	}

	available := req.BlockSize - overhead
	if req.BlockType.isCBLFamily() {
		available = floorToMultiple(available, ChecksumLength)
		if tupleSize > 1 {
			available = floorToMultiple(available, ChecksumLength*tupleSize)
		}
	}

	return Result{
		TotalCapacity:     req.BlockSize,
		Overhead:          overhead,
		AvailableCapacity: available,
		Details: "base=" + strconv.Itoa(base) + " enc=" + strconv.Itoa(encOverhead) +
			" var=" + strconv.Itoa(varOverhead),
	}, nil
}
