// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cbl

import (
	"github.com/Digital-Defiance/BrightChain-sub011/blockformat"
	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
)

// CalculateCBLAddressCapacity returns the maximum number of addresses
// that fit in a CBL block of the given size, per spec.md §4.5: always a
// multiple of tupleSize, monotonic in blockSize, and strictly smaller when
// encryption or extended fields are requested.
func CalculateCBLAddressCapacity(blockSize int, withEncryption bool, tupleSize byte, fileName, mimeType string) (int, error) {
	blockType := blockformat.BlockTypeCBL
	var ext *blockformat.CBLExtension
	if fileName != "" || mimeType != "" {
		blockType = blockformat.BlockTypeExtendedCBL
		ext = &blockformat.CBLExtension{FileName: fileName, MimeType: mimeType}
	}

	enc := blockformat.EncryptionNone
	if withEncryption {
		enc = blockformat.EncryptionSingleRecipient
	}

	result, err := blockformat.Calculate(blockformat.Request{
		BlockSize:  blockSize,
		BlockType:  blockType,
		Encryption: enc,
		Extension:  ext,
		TupleSize:  int(tupleSize),
	})
	if err != nil {
		return 0, err
	}

	return result.AvailableCapacity / checksum.Size, nil
}
