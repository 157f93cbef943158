// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import (
	"io"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
)

// CapacityPerBlock returns the number of plaintext bytes that fit in a
// single-recipient envelope sized to exactly blockSize bytes.
func CapacityPerBlock(blockSize int) int {
	return blockSize - SingleRecipientOverhead
}

// StreamEncrypt consumes src in CapacityPerBlock(blockSize)-sized strides
// and emits one single-recipient envelope per stride, in source order. The
// final stride may be shorter than the stride size; it is still emitted as
// one whole envelope rather than split further, matching spec.md §4.2.
func StreamEncrypt(recipientPub *secp256k1.PublicKey, blockSize int, src io.Reader) ([][]byte, error) {
	stride := CapacityPerBlock(blockSize)
	if stride <= 0 {
		return nil, makeError(ErrInvalidKeyLength, "ecies: block size too small for single-recipient overhead")
	}

	var envelopes [][]byte
	buf := make([]byte, stride)
	for {
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			envelope, encErr := EncryptSingle(recipientPub, buf[:n])
			if encErr != nil {
				return nil, encErr
			}
			envelopes = append(envelopes, envelope)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return envelopes, nil
}

// StreamDecrypt reverses StreamEncrypt: it decrypts each envelope in order
// and concatenates the recovered plaintext strides.
func StreamDecrypt(recipientPriv *secp256k1.PrivateKey, envelopes [][]byte) ([]byte, error) {
	var out []byte
	for _, envelope := range envelopes {
		plaintext, err := DecryptSingle(recipientPriv, envelope)
		if err != nil {
			return nil, err
		}
		out = append(out, plaintext...)
	}
	return out, nil
}
