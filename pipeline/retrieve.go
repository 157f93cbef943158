// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"

	"github.com/Digital-Defiance/BrightChain-sub011/cbl"
	"github.com/Digital-Defiance/BrightChain-sub011/ecies"
	"github.com/Digital-Defiance/BrightChain-sub011/xor"
)

// RetrieveRequest bundles the inputs to RetrieveFromCBL.
type RetrieveRequest struct {
	CBLBytes  []byte
	CreatorPub *secp256k1.PublicKey
	PrivKey   *secp256k1.PrivateKey
	TupleSize byte
	Store     BlockStore
}

// RetrieveFromCBL implements spec.md §2's retrieve data flow: parse and
// verify the CBL, XOR each tuple stride back to its encrypted block,
// ECIES-decrypt each block and concatenate the plaintexts, then truncate
// to the original length.
func RetrieveFromCBL(req RetrieveRequest) ([]byte, error) {
	header, err := cbl.ParseHeader(req.CBLBytes)
	if err != nil {
		return nil, err
	}
	if !header.ValidateSignature(req.CreatorPub) {
		return nil, makeError(ErrStoreFailed, "pipeline: cbl signature does not validate")
	}

	addresses, err := header.AddressDataToAddresses()
	if err != nil {
		return nil, err
	}

	tupleSize := int(header.GetTupleSize())
	if tupleSize == 0 {
		tupleSize = int(req.TupleSize)
	}
	if tupleSize == 0 {
		tupleSize = 3
	}

	var plaintextStream bytes.Buffer
	for i := 0; i < len(addresses); i += tupleSize {
		end := i + tupleSize
		if end > len(addresses) {
			end = len(addresses)
		}
		stride := addresses[i:end]
		blocks := make([][]byte, 0, len(stride))
		for _, id := range stride {
			data, getErr := req.Store.Get(id)
			if getErr != nil {
				return nil, makeError(ErrStoreFailed, "pipeline: loading tuple member failed: "+getErr.Error())
			}
			blocks = append(blocks, data)
		}
		combined, err := xor.Multi(blocks...)
		if err != nil {
			return nil, err
		}
		envelope, err := xor.UnpadBlockData(combined)
		if err != nil {
			return nil, err
		}
		chunk, err := ecies.DecryptSingle(req.PrivKey, envelope)
		if err != nil {
			return nil, err
		}
		plaintextStream.Write(chunk)
	}

	plaintext := plaintextStream.Bytes()
	originalLen := header.GetOriginalDataLength()
	if uint64(len(plaintext)) > originalLen {
		plaintext = plaintext[:originalLen]
	}
	return plaintext, nil
}
