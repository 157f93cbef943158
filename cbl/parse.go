// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cbl

import (
	"encoding/binary"
	"time"

	"github.com/Digital-Defiance/BrightChain-sub011/blockformat"
	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
	"github.com/Digital-Defiance/BrightChain-sub011/signature"
	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
)

// Header is a parsed CBL block: the fixed fields, optional extended
// fields, the raw address list trailing the header, and the signature.
type Header struct {
	CreatorID        [blockformat.CreatorIDLength]byte
	DateCreatedMilli int64
	AddressCount     uint32
	TupleSize        byte
	OriginalLength   uint64
	OriginalChecksum checksum.Checksum
	IsExtended       bool
	FileName         string
	MimeType         string
	Addresses        []byte
	Signature        signature.Signature

	signedDigest checksum.Checksum
}

// ParseHeader parses a full CBL block buffer (header region, including
// signature, followed by the tuple-aligned address list) into a Header.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < blockformat.BaseHeaderFixedLength {
		return nil, makeError(ErrDataTooShort, "cbl: buffer shorter than the fixed header region")
	}

	h := &Header{}
	copy(h.CreatorID[:], buf[blockformat.OffsetCreatorID:blockformat.OffsetCreatorID+blockformat.CreatorIDLength])
	h.DateCreatedMilli = int64(binary.BigEndian.Uint64(buf[blockformat.OffsetDateCreated:]))
	h.AddressCount = binary.BigEndian.Uint32(buf[blockformat.OffsetAddressCount:])
	h.TupleSize = buf[blockformat.OffsetTupleSize]
	h.OriginalLength = binary.BigEndian.Uint64(buf[blockformat.OffsetOriginalSize:])
	copy(h.OriginalChecksum[:], buf[blockformat.OffsetOriginalChecksum:blockformat.OffsetOriginalChecksum+blockformat.OriginalChecksumLength])
	h.IsExtended = buf[blockformat.OffsetIsExtended] != 0

	offset := blockformat.BaseHeaderFixedLength
	if h.IsExtended {
		if len(buf) < offset+2 {
			return nil, makeError(ErrDataTooShort, "cbl: buffer too short for extended field length prefix")
		}
		nameLen := int(binary.BigEndian.Uint16(buf[offset:]))
		offset += 2
		if len(buf) < offset+nameLen+1 {
			return nil, makeError(ErrDataTooShort, "cbl: buffer too short for file name")
		}
		h.FileName = string(buf[offset : offset+nameLen])
		offset += nameLen

		mimeLen := int(buf[offset])
		offset++
		if len(buf) < offset+mimeLen {
			return nil, makeError(ErrDataTooShort, "cbl: buffer too short for mime type")
		}
		h.MimeType = string(buf[offset : offset+mimeLen])
		offset += mimeLen
	}

	if len(buf) < offset+signature.Size {
		return nil, makeError(ErrDataTooShort, "cbl: buffer too short for signature")
	}
	sig, err := signature.FromBytes(buf[offset : offset+signature.Size])
	if err != nil {
		return nil, err
	}
	h.Signature = sig
	offset += signature.Size

	addressBytes := int(h.AddressCount) * checksum.Size
	if len(buf) < offset+addressBytes {
		return nil, makeError(ErrDataTooShort, "cbl: buffer shorter than the declared address list")
	}
	h.Addresses = append([]byte(nil), buf[offset:offset+addressBytes]...)

	// The signature was computed before the CRC8 byte was written, so the
	// digest is recomputed with that byte zeroed.
	withoutSig := append([]byte(nil), buf[:offset-signature.Size]...)
	withoutSig[blockformat.OffsetCRC8] = 0
	digestInput := append(withoutSig, h.Addresses...)
	h.signedDigest = checksum.Compute(digestInput)

	return h, nil
}

// GetCreatorID returns the header's creator identifier.
func (h *Header) GetCreatorID() [blockformat.CreatorIDLength]byte { return h.CreatorID }

// GetDateCreated returns the header's creation timestamp.
func (h *Header) GetDateCreated() time.Time {
	return time.UnixMilli(h.DateCreatedMilli)
}

// GetCblAddressCount returns the number of addresses the header declares.
func (h *Header) GetCblAddressCount() uint32 { return h.AddressCount }

// GetOriginalDataLength returns the original (pre-encryption) file length.
func (h *Header) GetOriginalDataLength() uint64 { return h.OriginalLength }

// GetTupleSize returns the header's tuple size.
func (h *Header) GetTupleSize() byte { return h.TupleSize }

// IsExtendedHeader reports whether h carries extended fields.
func (h *Header) IsExtendedHeader() bool { return h.IsExtended }

// GetFileName returns the extended file name field. It fails with
// ErrNotExtendedCbl if h is not an extended header.
func (h *Header) GetFileName() (string, error) {
	if !h.IsExtended {
		return "", makeError(ErrNotExtendedCbl, "cbl: file name is only present on an extended header")
	}
	return h.FileName, nil
}

// GetMimeType returns the extended mime type field. It fails with
// ErrNotExtendedCbl if h is not an extended header.
func (h *Header) GetMimeType() (string, error) {
	if !h.IsExtended {
		return "", makeError(ErrNotExtendedCbl, "cbl: mime type is only present on an extended header")
	}
	return h.MimeType, nil
}

// GetAddressData returns the raw, concatenated address list bytes.
func (h *Header) GetAddressData() []byte {
	return append([]byte(nil), h.Addresses...)
}

// AddressDataToAddresses splits the raw address list into individual
// Checksum values, in order.
func (h *Header) AddressDataToAddresses() ([]checksum.Checksum, error) {
	out := make([]checksum.Checksum, 0, h.AddressCount)
	for i := 0; i < len(h.Addresses); i += checksum.Size {
		c, err := checksum.FromBytes(h.Addresses[i : i+checksum.Size])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ValidateSignature recomputes the signed digest over (header-without-
// signature || addresses) and verifies it against h.Signature and
// creatorPub.
func (h *Header) ValidateSignature(creatorPub *secp256k1.PublicKey) bool {
	return signature.Verify(creatorPub, h.Signature, h.signedDigest.Bytes())
}
