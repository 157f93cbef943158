// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ecies implements BrightChain's single- and multi-recipient
// authenticated public-key encryption envelope: secp256k1 ECDH key
// agreement feeding AES-256-GCM, bit-exact with spec.md §4.2 and §6.
package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"io"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
)

const (
	// PublicKeyLength is the length, in bytes, of an uncompressed
	// secp256k1 public key (0x04 prefix included).
	PublicKeyLength = 65
	// RawKeyLength is the length, in bytes, of a secp256k1 public key's
	// raw (x,y) representation without the 0x04 format prefix.
	RawKeyLength = 64
	// IVLength is the length, in bytes, of the AES-GCM initialization
	// vector.
	IVLength = 16
	// TagLength is the length, in bytes, of the AES-GCM authentication
	// tag.
	TagLength = 16
	// SymmetricKeyLength is the length, in bytes, of the AES-256 data
	// encryption key.
	SymmetricKeyLength = 32
	// RecipientIDLength is the length, in bytes, of a recipient
	// identifier in a multi-recipient envelope header.
	RecipientIDLength = 16
	// SingleRecipientOverhead is the number of bytes a single-recipient
	// envelope adds to the plaintext: ephemeral pubkey + iv + tag.
	SingleRecipientOverhead = PublicKeyLength + IVLength + TagLength
	// MaxRecipients bounds the recipient count field (2 bytes) and keeps
	// multi-recipient envelopes within a sane size.
	MaxRecipients = 65535
)

// ErrorKind identifies a class of ECIES error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

// Error kinds returned by this package, matching spec.md §7.
const (
	ErrInvalidEphemeralPublicKey ErrorKind = "ecies: invalid ephemeral public key"
	ErrInvalidSenderPublicKey    ErrorKind = "ecies: invalid sender public key"
	ErrInvalidEncryptedDataLen   ErrorKind = "ecies: invalid encrypted data length"
	ErrInvalidHeaderLength       ErrorKind = "ecies: invalid header length"
	ErrDecryptionFailed          ErrorKind = "ecies: decryption failed"
	ErrRecipientNotFound         ErrorKind = "ecies: recipient not found"
	ErrTooManyRecipients         ErrorKind = "ecies: too many recipients"
	ErrInvalidKeyLength          ErrorKind = "ecies: invalid key length"
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

// aeadFromSecret derives an AES-256-GCM AEAD from the first 32 bytes of an
// ECDH shared secret.
func aeadFromSecret(secret [32]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(secret[:SymmetricKeyLength])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptSingle encrypts plaintext to recipientPub, returning
// ephemeralPub(65) || iv(16) || tag(16) || ciphertext(len(plaintext)).
func EncryptSingle(recipientPub *secp256k1.PublicKey, plaintext []byte) ([]byte, error) {
	ephemeral, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	secret := SharedSecret(ephemeral, recipientPub)

	aead, err := aeadFromSecret(secret)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	sealed := aead.Seal(nil, iv, plaintext, nil)
	ct, tag := sealed[:len(sealed)-TagLength], sealed[len(sealed)-TagLength:]

	out := make([]byte, 0, PublicKeyLength+IVLength+TagLength+len(ct))
	out = append(out, ephemeral.PubKey().SerializeUncompressed()...)
	out = append(out, iv...)
	out = append(out, tag...)
	out = append(out, ct...)
	return out, nil
}

// DecryptSingle reverses EncryptSingle using recipientPriv.
func DecryptSingle(recipientPriv *secp256k1.PrivateKey, envelope []byte) ([]byte, error) {
	if len(envelope) < SingleRecipientOverhead {
		return nil, makeError(ErrInvalidHeaderLength, "ecies: envelope shorter than header overhead")
	}

	ephemeralBuf := envelope[:PublicKeyLength]
	iv := envelope[PublicKeyLength : PublicKeyLength+IVLength]
	tag := envelope[PublicKeyLength+IVLength : PublicKeyLength+IVLength+TagLength]
	ct := envelope[PublicKeyLength+IVLength+TagLength:]

	ephemeralPub, err := secp256k1.ParsePubKey(ephemeralBuf)
	if err != nil {
		return nil, makeError(ErrInvalidEphemeralPublicKey, "ecies: malformed ephemeral public key: "+err.Error())
	}

	secret := SharedSecret(recipientPriv, ephemeralPub)
	aead, err := aeadFromSecret(secret)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ct)+TagLength)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, makeError(ErrDecryptionFailed, "ecies: authentication tag mismatch")
	}
	return plaintext, nil
}

// multiRecipientOverhead returns the deterministic number of bytes a
// multi-recipient header adds to the plaintext for n recipients: the shared
// ephemeral/iv/tag (SingleRecipientOverhead) and 2-byte count fields, plus
// one id(16) and one encrypted-key envelope (SingleRecipientOverhead +
// SymmetricKeyLength) per recipient.
func multiRecipientOverhead(n int) int {
	perRecipient := RecipientIDLength + SingleRecipientOverhead + SymmetricKeyLength
	return SingleRecipientOverhead + 2 + n*perRecipient
}

// MultiRecipientOverhead is the public form of multiRecipientOverhead used
// by the capacity calculator (spec.md §4.4).
func MultiRecipientOverhead(recipientCount int) int {
	return multiRecipientOverhead(recipientCount)
}

// Recipient pairs a 16-byte recipient identifier with its public key, for
// use with EncryptMulti/DecryptMulti.
type Recipient struct {
	ID     [RecipientIDLength]byte
	PubKey *secp256k1.PublicKey
}

// EncryptMulti encrypts plaintext once under a fresh random data-encryption
// key K, then encrypts K individually to each recipient. Layout:
//
//	ephemeralPub(65) || iv(16) || tag(16) || count(2) ||
//	  [recipientID(16)]*count || [encryptedK(?)]*count || ciphertext(n)
//
// The leading ephemeralPub/iv/tag triple belongs to the payload's own
// AES-GCM seal (encrypted directly under K, no further ECDH needed since K
// itself was distributed via per-recipient EncryptSingle envelopes that
// carry their own ephemeral keys).
func EncryptMulti(recipients []Recipient, plaintext []byte) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, makeError(ErrRecipientNotFound, "ecies: at least one recipient is required")
	}
	if len(recipients) > MaxRecipients {
		return nil, makeError(ErrTooManyRecipients, "ecies: recipient count exceeds MaxRecipients")
	}

	dataKey := make([]byte, SymmetricKeyLength)
	if _, err := io.ReadFull(rand.Reader, dataKey); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(dataKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, IVLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}
	sealed := aead.Seal(nil, iv, plaintext, nil)
	payloadCT, payloadTag := sealed[:len(sealed)-TagLength], sealed[len(sealed)-TagLength:]

	idTable := make([]byte, 0, len(recipients)*RecipientIDLength)
	keyTable := make([]byte, 0, len(recipients)*(SingleRecipientOverhead+SymmetricKeyLength))
	for _, r := range recipients {
		idTable = append(idTable, r.ID[:]...)
		encK, err := EncryptSingle(r.PubKey, dataKey)
		if err != nil {
			return nil, err
		}
		keyTable = append(keyTable, encK...)
	}

	var countBuf [2]byte
	binary.BigEndian.PutUint16(countBuf[:], uint16(len(recipients)))

	// The header's own ephemeral/iv/tag slot is a fixed 65-byte
	// placeholder public key (the payload is sealed under dataKey, not an
	// ECDH secret) kept for layout symmetry with the single-recipient
	// envelope and to preserve a constant, deterministic header size.
	out := make([]byte, 0, PublicKeyLength+IVLength+TagLength+2+len(idTable)+len(keyTable)+len(payloadCT))
	out = append(out, make([]byte, PublicKeyLength)...)
	out = append(out, iv...)
	out = append(out, payloadTag...)
	out = append(out, countBuf[:]...)
	out = append(out, idTable...)
	out = append(out, keyTable...)
	out = append(out, payloadCT...)
	return out, nil
}

// DecryptMulti locates recipientID's entry in envelope, decrypts the
// shared data-encryption key with recipientPriv, and decrypts the payload.
func DecryptMulti(recipientPriv *secp256k1.PrivateKey, recipientID [RecipientIDLength]byte, envelope []byte) ([]byte, error) {
	headerFixedLen := PublicKeyLength + IVLength + TagLength + 2
	if len(envelope) < headerFixedLen {
		return nil, makeError(ErrInvalidHeaderLength, "ecies: envelope shorter than multi-recipient header")
	}

	iv := envelope[PublicKeyLength : PublicKeyLength+IVLength]
	payloadTag := envelope[PublicKeyLength+IVLength : PublicKeyLength+IVLength+TagLength]
	count := int(binary.BigEndian.Uint16(envelope[PublicKeyLength+IVLength+TagLength : headerFixedLen]))

	idTableLen := count * RecipientIDLength
	perRecipientKeyLen := SingleRecipientOverhead + SymmetricKeyLength
	keyTableLen := count * perRecipientKeyLen

	if len(envelope) < headerFixedLen+idTableLen+keyTableLen {
		return nil, makeError(ErrInvalidHeaderLength, "ecies: envelope shorter than recipient tables")
	}

	idTable := envelope[headerFixedLen : headerFixedLen+idTableLen]
	keyTable := envelope[headerFixedLen+idTableLen : headerFixedLen+idTableLen+keyTableLen]
	payloadCT := envelope[headerFixedLen+idTableLen+keyTableLen:]

	index := -1
	for i := 0; i < count; i++ {
		candidate := idTable[i*RecipientIDLength : (i+1)*RecipientIDLength]
		if subtle.ConstantTimeCompare(candidate, recipientID[:]) == 1 {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, makeError(ErrRecipientNotFound, "ecies: recipient id not present in envelope")
	}

	encK := keyTable[index*perRecipientKeyLen : (index+1)*perRecipientKeyLen]
	dataKey, err := DecryptSingle(recipientPriv, encK)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(dataKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(payloadCT)+TagLength)
	sealed = append(sealed, payloadCT...)
	sealed = append(sealed, payloadTag...)

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, makeError(ErrDecryptionFailed, "ecies: authentication tag mismatch")
	}
	return plaintext, nil
}

// sha256Sum is used by RecipientIDFromPubKey to derive a quick
// fixed-length recipient identifier from a public key, without pulling the
// checksum package's SHA3-512 into this leaf package.
func sha256Sum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// RecipientIDFromPubKey derives a deterministic 16-byte recipient
// identifier from a public key: the first 16 bytes of SHA-256 of its
// uncompressed serialization.
func RecipientIDFromPubKey(pub *secp256k1.PublicKey) [RecipientIDLength]byte {
	sum := sha256Sum(pub.SerializeUncompressed())
	var id [RecipientIDLength]byte
	copy(id[:], sum[:RecipientIDLength])
	return id
}
