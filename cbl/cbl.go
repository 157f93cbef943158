// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cbl implements BrightChain's Constituent Block List service:
// building, parsing, validating, and signing the binary header that
// enumerates the tuples needed to reconstruct a stored file, per
// spec.md §3 and §4.5.
package cbl

import (
	"encoding/binary"
	"regexp"
	"time"

	"github.com/Digital-Defiance/BrightChain-sub011/blockformat"
	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
	"github.com/Digital-Defiance/BrightChain-sub011/crc"
	"github.com/Digital-Defiance/BrightChain-sub011/signature"
	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
)

// Field widths and offsets reused from blockformat's header layout
// constants, named locally for readability.
const (
	headerEnd          = blockformat.BaseHeaderFixedLength + blockformat.SignatureLength
	maxFileNameLength  = 255
	maxMimeTypeLength  = 127
)

// ErrorKind identifies a class of CBL error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

// Error kinds returned by this package, per spec.md §7's CBL group.
const (
	ErrFileNameTooLong          ErrorKind = "cbl: file name too long"
	ErrMimeTypeInvalidFormat    ErrorKind = "cbl: mime type invalid format"
	ErrFileNamePathTraversal    ErrorKind = "cbl: file name contains path traversal"
	ErrFileNameInvalidFormat    ErrorKind = "cbl: file name invalid format"
	ErrAddressCountExceedsCap   ErrorKind = "cbl: address count exceeds capacity"
	ErrInvalidTupleSize         ErrorKind = "cbl: invalid tuple size"
	ErrInvalidAddressCount      ErrorKind = "cbl: invalid address count"
	ErrCreatorRequiredForSig    ErrorKind = "cbl: creator required for signature"
	ErrInvalidSignature         ErrorKind = "cbl: invalid signature"
	ErrDateInFuture             ErrorKind = "cbl: date created is in the future"
	ErrNotExtendedCbl           ErrorKind = "cbl: header is not an extended cbl"
	ErrDataTooShort             ErrorKind = "cbl: data too short"
)

// Error wraps an ErrorKind with additional context.
type Error struct {
	Err         error
	Description string
}

// Error returns the human-readable description.
func (e Error) Error() string { return e.Description }

// Unwrap returns the underlying ErrorKind.
func (e Error) Unwrap() error { return e.Err }

func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// fileNameCharset rejects shell/filesystem metacharacters, per spec.md
// §4.5 step 2.
var fileNameCharset = regexp.MustCompile(`^[^<>:"/\\|?*]+$`)

// pathTraversal matches a ".." path segment anywhere in a name.
var pathTraversal = regexp.MustCompile(`(^|[\\/])\.\.($|[\\/])`)

// mimeTypeFormat requires a lowercase "type/subtype" made of letters,
// digits, and hyphens, per spec.md §4.5 step 2.
var mimeTypeFormat = regexp.MustCompile(`^[a-z0-9-]+/[a-z0-9-]+$`)

// Extension carries the optional fileName/mimeType pair an Extended CBL
// header adds.
type Extension struct {
	FileName string
	MimeType string
}

// validateExtension enforces spec.md §4.5 step 2's fileName/mimeType
// rules.
func validateExtension(ext Extension) error {
	if ext.FileName == "" {
		return makeError(ErrFileNameInvalidFormat, "cbl: file name must not be empty")
	}
	if len(ext.FileName) > maxFileNameLength {
		return makeError(ErrFileNameTooLong, "cbl: file name exceeds 255 bytes")
	}
	if pathTraversal.MatchString(ext.FileName) {
		return makeError(ErrFileNamePathTraversal, "cbl: file name contains a path traversal segment")
	}
	if !fileNameCharset.MatchString(ext.FileName) {
		return makeError(ErrFileNameInvalidFormat, "cbl: file name contains disallowed characters")
	}
	if len(ext.MimeType) > maxMimeTypeLength {
		return makeError(ErrMimeTypeInvalidFormat, "cbl: mime type exceeds 127 bytes")
	}
	if !mimeTypeFormat.MatchString(ext.MimeType) {
		return makeError(ErrMimeTypeInvalidFormat, "cbl: mime type must be lowercase type/subtype")
	}
	return nil
}

// BuildRequest bundles the inputs to MakeCBLHeader, per spec.md §4.5.
type BuildRequest struct {
	CreatorID        [blockformat.CreatorIDLength]byte
	CreatorPrivKey   *secp256k1.PrivateKey
	DateCreated      time.Time
	AddressCount     uint32
	TupleSize        byte
	OriginalLength   uint64
	OriginalChecksum checksum.Checksum
	Addresses        []byte // address_count * 64 bytes, tuple-order checksums
	Extended         *Extension
}

// Built is the output of MakeCBLHeader: the assembled header bytes
// (fixed fields, extended fields if any, and the trailing signature; the
// address data is not included and follows the header in the block) plus
// the signature in isolation.
type Built struct {
	HeaderData []byte
	Signature  signature.Signature
}

// MakeCBLHeader implements spec.md §4.5 steps 1-5.
func MakeCBLHeader(req BuildRequest) (Built, error) {
	if req.AddressCount == 0 {
		return Built{}, makeError(ErrInvalidAddressCount, "cbl: address count must be positive")
	}
	if uint64(req.AddressCount)*checksum.Size != uint64(len(req.Addresses)) {
		return Built{}, makeError(ErrInvalidAddressCount, "cbl: addresses length does not match address_count * 64")
	}
	if req.TupleSize < 2 || req.TupleSize > 10 {
		return Built{}, makeError(ErrInvalidTupleSize, "cbl: tuple size must be in [2, 10]")
	}
	if req.AddressCount%uint32(req.TupleSize) != 0 {
		return Built{}, makeError(ErrInvalidAddressCount, "cbl: address count must be a multiple of tuple size")
	}
	if req.DateCreated.After(time.Now().Add(time.Minute)) {
		return Built{}, makeError(ErrDateInFuture, "cbl: date created must not be in the future")
	}

	isExtended := req.Extended != nil
	if isExtended {
		if err := validateExtension(*req.Extended); err != nil {
			return Built{}, err
		}
	}

	fixed := make([]byte, blockformat.BaseHeaderFixedLength)
	fixed[blockformat.OffsetMagic] = blockformat.Magic
	if isExtended {
		fixed[blockformat.OffsetType] = byte(blockformat.TypeExtendedCBL)
	} else {
		fixed[blockformat.OffsetType] = byte(blockformat.TypeCBL)
	}
	fixed[blockformat.OffsetVersion] = blockformat.HeaderVersion
	copy(fixed[blockformat.OffsetCreatorID:], req.CreatorID[:])
	binary.BigEndian.PutUint64(fixed[blockformat.OffsetDateCreated:], uint64(req.DateCreated.UnixMilli()))
	binary.BigEndian.PutUint32(fixed[blockformat.OffsetAddressCount:], req.AddressCount)
	fixed[blockformat.OffsetTupleSize] = req.TupleSize
	binary.BigEndian.PutUint64(fixed[blockformat.OffsetOriginalSize:], req.OriginalLength)
	copy(fixed[blockformat.OffsetOriginalChecksum:], req.OriginalChecksum.Bytes())
	if isExtended {
		fixed[blockformat.OffsetIsExtended] = 1
	}

	var extBytes []byte
	if isExtended {
		extBytes = encodeExtension(*req.Extended)
	}

	// Assemble header bytes without signature: fixed fields, extended
	// fields (if any), then addresses appended for the purpose of the
	// signed digest (spec.md §4.5 step 4) but not stored a second time in
	// the header region itself — the address list is the block's payload
	// following the header.
	withoutSig := make([]byte, 0, len(fixed)+len(extBytes))
	withoutSig = append(withoutSig, fixed...)
	withoutSig = append(withoutSig, extBytes...)

	digestInput := make([]byte, 0, len(withoutSig)+len(req.Addresses))
	digestInput = append(digestInput, withoutSig...)
	digestInput = append(digestInput, req.Addresses...)
	digest := checksum.Compute(digestInput)

	if req.CreatorPrivKey == nil {
		return Built{}, makeError(ErrCreatorRequiredForSig, "cbl: signing requires the creator's private key")
	}
	sig := signature.Sign(req.CreatorPrivKey, digest.Bytes())

	headerData := make([]byte, 0, len(withoutSig)+signature.Size)
	headerData = append(headerData, withoutSig...)
	headerData = append(headerData, sig.Bytes()...)

	crcRegionEnd := len(fixed)
	if isExtended {
		crcRegionEnd = len(fixed) + len(extBytes)
	}
	crcRegion := headerData[blockformat.OffsetCreatorID:crcRegionEnd]
	headerData[blockformat.OffsetCRC8] = crc.Checksum8(crcRegion)

	return Built{HeaderData: headerData, Signature: sig}, nil
}

// encodeExtension writes [2B fileNameLen][fileName][1B mimeTypeLen][mimeType].
func encodeExtension(ext Extension) []byte {
	out := make([]byte, 0, 2+len(ext.FileName)+1+len(ext.MimeType))
	var nameLen [2]byte
	binary.BigEndian.PutUint16(nameLen[:], uint16(len(ext.FileName)))
	out = append(out, nameLen[:]...)
	out = append(out, ext.FileName...)
	out = append(out, byte(len(ext.MimeType)))
	out = append(out, ext.MimeType...)
	return out
}
