// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockformat

import "encoding/binary"

// SuperCBLHeader is a CBL-of-CBLs: its address list holds the checksums of
// child CBL blocks rather than data blocks, letting a file exceed the
// address capacity of a single CBL. It reuses the base CBL fixed layout
// with StructuredType TypeSuperCBL and no variable fields.
type SuperCBLHeader struct {
	CreatorID        [CreatorIDLength]byte
	DateCreatedMilli int64
	ChildCBLCount    uint32
	TupleSize        byte
	OriginalSize     int64
	OriginalChecksum [OriginalChecksumLength]byte
}

// EncodeSuperCBLBase writes the fixed, pre-signature portion of a
// SuperCBLHeader (bytes [0, OffsetIsExtended]); CRC8 and signature are
// filled in by the caller once the full byte layout (including the
// address list) is known, matching the base CBL assembly sequence in
// spec.md §4.5.
func EncodeSuperCBLBase(h SuperCBLHeader) []byte {
	buf := make([]byte, BaseHeaderFixedLength)
	buf[OffsetMagic] = Magic
	buf[OffsetType] = byte(TypeSuperCBL)
	buf[OffsetVersion] = HeaderVersion
	copy(buf[OffsetCreatorID:], h.CreatorID[:])
	binary.BigEndian.PutUint64(buf[OffsetDateCreated:], uint64(h.DateCreatedMilli))
	binary.BigEndian.PutUint32(buf[OffsetAddressCount:], h.ChildCBLCount)
	buf[OffsetTupleSize] = h.TupleSize
	binary.BigEndian.PutUint64(buf[OffsetOriginalSize:], uint64(h.OriginalSize))
	copy(buf[OffsetOriginalChecksum:], h.OriginalChecksum[:])
	buf[OffsetIsExtended] = 0
	return buf
}

// MessageCBLHeader carries a short inline message instead of referencing
// file-data tuples: the "address list" region holds the raw message bytes
// (padded to the CBL's tuple-aligned capacity) rather than checksums.
type MessageCBLHeader struct {
	CreatorID        [CreatorIDLength]byte
	DateCreatedMilli int64
	MessageLength    uint32
	OriginalChecksum [OriginalChecksumLength]byte
}

// EncodeMessageCBLBase writes the fixed, pre-signature portion of a
// MessageCBLHeader. TupleSize is fixed at 1 since a message body is not
// tuple-aligned address data.
func EncodeMessageCBLBase(h MessageCBLHeader) []byte {
	buf := make([]byte, BaseHeaderFixedLength)
	buf[OffsetMagic] = Magic
	buf[OffsetType] = byte(TypeMessageCBL)
	buf[OffsetVersion] = HeaderVersion
	copy(buf[OffsetCreatorID:], h.CreatorID[:])
	binary.BigEndian.PutUint64(buf[OffsetDateCreated:], uint64(h.DateCreatedMilli))
	binary.BigEndian.PutUint32(buf[OffsetAddressCount:], h.MessageLength)
	buf[OffsetTupleSize] = 1
	binary.BigEndian.PutUint64(buf[OffsetOriginalSize:], uint64(h.MessageLength))
	copy(buf[OffsetOriginalChecksum:], h.OriginalChecksum[:])
	buf[OffsetIsExtended] = 0
	return buf
}

// DecodeSuperCBLBase reads back a SuperCBLHeader from the fixed-region
// bytes written by EncodeSuperCBLBase.
func DecodeSuperCBLBase(buf []byte) (SuperCBLHeader, error) {
	if len(buf) < BaseHeaderFixedLength {
		return SuperCBLHeader{}, makeError(ErrDataTooShort, "blockformat: buffer shorter than SuperCBL base header")
	}
	var h SuperCBLHeader
	copy(h.CreatorID[:], buf[OffsetCreatorID:OffsetCreatorID+CreatorIDLength])
	h.DateCreatedMilli = int64(binary.BigEndian.Uint64(buf[OffsetDateCreated:]))
	h.ChildCBLCount = binary.BigEndian.Uint32(buf[OffsetAddressCount:])
	h.TupleSize = buf[OffsetTupleSize]
	h.OriginalSize = int64(binary.BigEndian.Uint64(buf[OffsetOriginalSize:]))
	copy(h.OriginalChecksum[:], buf[OffsetOriginalChecksum:OffsetOriginalChecksum+OriginalChecksumLength])
	return h, nil
}

// DecodeMessageCBLBase reads back a MessageCBLHeader from the fixed-region
// bytes written by EncodeMessageCBLBase.
func DecodeMessageCBLBase(buf []byte) (MessageCBLHeader, error) {
	if len(buf) < BaseHeaderFixedLength {
		return MessageCBLHeader{}, makeError(ErrDataTooShort, "blockformat: buffer shorter than MessageCBL base header")
	}
	var h MessageCBLHeader
	copy(h.CreatorID[:], buf[OffsetCreatorID:OffsetCreatorID+CreatorIDLength])
	h.DateCreatedMilli = int64(binary.BigEndian.Uint64(buf[OffsetDateCreated:]))
	h.MessageLength = binary.BigEndian.Uint32(buf[OffsetAddressCount:])
	copy(h.OriginalChecksum[:], buf[OffsetOriginalChecksum:OffsetOriginalChecksum+OriginalChecksumLength])
	return h, nil
}
