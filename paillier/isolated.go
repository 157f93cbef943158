// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package paillier

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// KeyIDLength and InstanceIDLength are both SHA3-256/HMAC-SHA256 digest
// widths (32 bytes).
const (
	KeyIDLength      = 32
	InstanceIDLength = 32
	tagHexLength     = sha256.Size * 2 // HMAC-SHA256 tag, hex-encoded
	// ModulusPadLength is the fixed width n is padded to before hashing
	// into a keyId, per spec.md §3.
	ModulusPadLength = 384

	// serializedMagic and serializedVersion identify the wire format of
	// an IsolatedPublicKey buffer: "BCVK" || version.
	serializedVersion = 0x01
)

var serializedMagic = [4]byte{'B', 'C', 'V', 'K'}

// Voting-specific error kinds, additional to the base package's.
const (
	ErrKeyIsolationViolation ErrorKind = "paillier: key isolation violation"
	ErrInvalidKeyFormat      ErrorKind = "paillier: invalid key format"
	ErrInvalidPublicKeyIDMismatch ErrorKind = "paillier: public key id mismatch"
)

// IsolatedPublicKey is a Paillier public key augmented with a keyId
// (derived from the modulus) and a per-instance instanceId, so that
// ciphertexts it produces are tagged and non-fungible with ciphertexts
// from any other instance wrapping the same mathematical key.
type IsolatedPublicKey struct {
	Base       PublicKey
	KeyID      [KeyIDLength]byte
	InstanceID [InstanceIDLength]byte
}

// IsolatedPrivateKey is a Paillier private key bound to one specific
// IsolatedPublicKey instance. It holds that public key by value (see
// PrivateKey's doc comment for why this avoids a cyclic reference).
type IsolatedPrivateKey struct {
	Base   PrivateKey
	Public IsolatedPublicKey
}

// deriveKeyID computes SHA3-256 of n padded to ModulusPadLength bytes.
func deriveKeyID(n *big.Int) [KeyIDLength]byte {
	padded := make([]byte, ModulusPadLength)
	nBytes := n.Bytes()
	copy(padded[ModulusPadLength-len(nBytes):], nBytes)
	return sha3.Sum256(padded)
}

// deriveInstanceID computes SHA3-256(keyId || n || salt) for a fresh
// 32-byte random salt.
func deriveInstanceID(keyID [KeyIDLength]byte, n *big.Int) ([InstanceIDLength]byte, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return [InstanceIDLength]byte{}, err
	}
	h := sha3.New256()
	h.Write(keyID[:])
	h.Write(n.Bytes())
	h.Write(salt)
	var out [InstanceIDLength]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// NewIsolatedKeyPair wraps a base keypair with a freshly derived keyId and
// instanceId.
func NewIsolatedKeyPair(pub *PublicKey, priv *PrivateKey) (*IsolatedPublicKey, *IsolatedPrivateKey, error) {
	keyID := deriveKeyID(pub.N)
	instanceID, err := deriveInstanceID(keyID, pub.N)
	if err != nil {
		return nil, nil, err
	}

	ipub := &IsolatedPublicKey{Base: *pub, KeyID: keyID, InstanceID: instanceID}
	ipriv := &IsolatedPrivateKey{Base: *priv, Public: *ipub}
	return ipub, ipriv, nil
}

// UpdateInstanceID re-randomizes pub's instance salt in place, producing a
// fresh instanceId. Ciphertexts produced before the update can no longer be
// added through or decrypted by this instance, nor can new ciphertexts be
// consumed by any private key still bound to the old instanceId.
func (pub *IsolatedPublicKey) UpdateInstanceID() error {
	instanceID, err := deriveInstanceID(pub.KeyID, pub.Base.N)
	if err != nil {
		return err
	}
	pub.InstanceID = instanceID
	return nil
}

func (pub *IsolatedPublicKey) hmacKey() []byte {
	key := make([]byte, 0, KeyIDLength+InstanceIDLength)
	key = append(key, pub.KeyID[:]...)
	key = append(key, pub.InstanceID[:]...)
	return key
}

func tag(hmacKey []byte, innerHex string) []byte {
	mac := hmac.New(sha256.New, hmacKey)
	mac.Write([]byte(innerHex))
	return mac.Sum(nil)
}

// packTagged encodes inner (the raw Paillier ciphertext) and its HMAC tag
// as a single big integer: bigint(hex(inner) || hex(tag)).
func packTagged(inner *big.Int, tagBytes []byte) *big.Int {
	combined := inner.Text(16) + hex.EncodeToString(tagBytes)
	packed, _ := new(big.Int).SetString(combined, 16)
	return packed
}

// unpackTagged splits a packed ciphertext back into its inner Paillier
// value and trailing tag bytes.
func unpackTagged(packed *big.Int) (inner *big.Int, tagBytes []byte, err error) {
	combined := packed.Text(16)
	if len(combined) < tagHexLength {
		return nil, nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: ciphertext too short to carry an isolation tag"}
	}
	split := len(combined) - tagHexLength
	innerHex, tagHex := combined[:split], combined[split:]

	inner, ok := new(big.Int).SetString(innerHex, 16)
	if !ok {
		return nil, nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: malformed inner ciphertext hex"}
	}
	tagBytes, err = hex.DecodeString(tagHex)
	if err != nil {
		return nil, nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: malformed tag hex"}
	}
	return inner, tagBytes, nil
}

// Encrypt encrypts m under pub and tags the ciphertext with an HMAC-SHA256
// over (keyId || instanceId, hex(innerCiphertext)).
func (pub *IsolatedPublicKey) Encrypt(m *big.Int) (*big.Int, error) {
	inner, err := Encrypt(&pub.Base, m)
	if err != nil {
		return nil, err
	}
	t := tag(pub.hmacKey(), inner.Text(16))
	return packTagged(inner, t), nil
}

// verifyTag recomputes the isolation tag for packed against pub's current
// (keyId, instanceId) and reports the inner ciphertext plus whether the
// tag matched.
func (pub *IsolatedPublicKey) verifyTag(packed *big.Int) (*big.Int, bool, error) {
	inner, gotTag, err := unpackTagged(packed)
	if err != nil {
		return nil, false, err
	}
	want := tag(pub.hmacKey(), inner.Text(16))
	return inner, hmac.Equal(want, gotTag), nil
}

// Add homomorphically adds two isolated ciphertexts, failing with
// ErrKeyIsolationViolation if either operand was not tagged for pub's
// current instance.
func (pub *IsolatedPublicKey) Add(a, b *big.Int) (*big.Int, error) {
	innerA, okA, err := pub.verifyTag(a)
	if err != nil {
		return nil, err
	}
	innerB, okB, err := pub.verifyTag(b)
	if err != nil {
		return nil, err
	}
	if !okA || !okB {
		return nil, Error{Err: ErrKeyIsolationViolation, Description: "paillier: operand not tagged for this key instance"}
	}

	sum := Add(&pub.Base, innerA, innerB)
	t := tag(pub.hmacKey(), sum.Text(16))
	return packTagged(sum, t), nil
}

// Multiply homomorphically scales an isolated ciphertext by plaintext
// scalar k, failing with ErrKeyIsolationViolation if c was not tagged for
// pub's current instance.
func (pub *IsolatedPublicKey) Multiply(c *big.Int, k *big.Int) (*big.Int, error) {
	inner, ok, err := pub.verifyTag(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Error{Err: ErrKeyIsolationViolation, Description: "paillier: operand not tagged for this key instance"}
	}

	result := Multiply(&pub.Base, inner, k)
	t := tag(pub.hmacKey(), result.Text(16))
	return packTagged(result, t), nil
}

// Decrypt recovers the plaintext of an isolated ciphertext, failing with
// ErrInvalidKeyFormat if the tag was not produced for priv's bound public
// key instance.
func (priv *IsolatedPrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	inner, ok, err := priv.Public.verifyTag(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: ciphertext was not tagged for this key's instance"}
	}
	return Decrypt(&priv.Base, inner), nil
}

// Serialize encodes pub as "BCVK" || version(1) || keyId(32) ||
// instanceId(32) || nLen(4 BE) || n.
func (pub *IsolatedPublicKey) Serialize() []byte {
	nBytes := pub.Base.N.Bytes()

	out := make([]byte, 0, 4+1+KeyIDLength+InstanceIDLength+4+len(nBytes))
	out = append(out, serializedMagic[:]...)
	out = append(out, serializedVersion)
	out = append(out, pub.KeyID[:]...)
	out = append(out, pub.InstanceID[:]...)

	var nLen [4]byte
	binary.BigEndian.PutUint32(nLen[:], uint32(len(nBytes)))
	out = append(out, nLen[:]...)
	out = append(out, nBytes...)
	return out
}

// ParseIsolatedPublicKey decodes a buffer produced by Serialize, verifying
// the magic prefix, version, and that the embedded keyId matches the
// recomputed hash of n.
func ParseIsolatedPublicKey(buf []byte) (*IsolatedPublicKey, error) {
	const headerLen = 4 + 1 + KeyIDLength + InstanceIDLength + 4
	if len(buf) < headerLen {
		return nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: buffer shorter than voting key header"}
	}
	if string(buf[:4]) != string(serializedMagic[:]) {
		return nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: missing BCVK magic prefix"}
	}
	if buf[4] != serializedVersion {
		return nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: unsupported voting key version"}
	}

	var keyID [KeyIDLength]byte
	copy(keyID[:], buf[5:5+KeyIDLength])
	offset := 5 + KeyIDLength

	var instanceID [InstanceIDLength]byte
	copy(instanceID[:], buf[offset:offset+InstanceIDLength])
	offset += InstanceIDLength

	nLen := int(binary.BigEndian.Uint32(buf[offset : offset+4]))
	offset += 4
	if len(buf) < offset+nLen {
		return nil, Error{Err: ErrInvalidKeyFormat, Description: "paillier: truncated modulus"}
	}
	n := new(big.Int).SetBytes(buf[offset : offset+nLen])

	recomputed := deriveKeyID(n)
	if recomputed != keyID {
		return nil, Error{Err: ErrInvalidPublicKeyIDMismatch, Description: "paillier: keyId does not match modulus"}
	}

	nSquared := new(big.Int).Mul(n, n)
	g := new(big.Int).Add(n, bigOne)
	return &IsolatedPublicKey{
		Base:       PublicKey{N: n, G: g, NSquared: nSquared},
		KeyID:      keyID,
		InstanceID: instanceID,
	}, nil
}
