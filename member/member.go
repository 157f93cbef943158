// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package member implements BrightChain's identity type: a
// BrightChainMember bundles a GUID v4 identity, a BIP-39/BIP-32 wallet, an
// ECDH identity keypair, and a deterministically-derived isolated Paillier
// voting keypair, per spec.md §4.8.
package member

import (
	"regexp"
	"strings"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"

	"github.com/Digital-Defiance/BrightChain-sub011/ecies"
	"github.com/Digital-Defiance/BrightChain-sub011/paillier"
	"github.com/Digital-Defiance/BrightChain-sub011/signature"
	"github.com/Digital-Defiance/BrightChain-sub011/voting"
	"github.com/Digital-Defiance/BrightChain-sub011/wallet"
)

// log is the package-level logger, wired by the embedding application via
// UseLogger, following the same pattern as the pipeline package.
var log = slog.Disabled

// UseLogger sets the package-level logger used by the member package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Type enumerates the kinds of member a BrightChainMember may represent.
type Type int

// Member types, per spec.md §4.8.
const (
	TypeUser Type = iota
	TypeSystem
	TypeService
)

// ErrorKind identifies a class of member error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

// Error kinds returned by this package, per spec.md §7's Member group.
const (
	ErrMissingMemberName           ErrorKind = "member: name is required"
	ErrInvalidMemberNameWhitespace ErrorKind = "member: name has leading or trailing whitespace"
	ErrInvalidEmail                ErrorKind = "member: email is invalid"
	ErrMissingPrivateKey           ErrorKind = "member: private key is not loaded"
	ErrNoWallet                    ErrorKind = "member: wallet is not loaded"
	ErrInvalidMnemonic             ErrorKind = "member: mnemonic does not match the member's stored public key"
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

// emailFormat is an RFC-5322-lite check: local-part@domain, no whitespace,
// at least one dot in the domain.
var emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BrightChainMember is a BrightChain identity: GUID, profile, ECDH
// keypair, and voting keypair. A member holding a private key is in the
// HasPrivateKey state; after UnloadWalletAndPrivateKey it is PublicOnly —
// a one-way transition.
type BrightChainMember struct {
	ID    uuid.UUID
	Type  Type
	Name  string
	Email string

	pubKey  *secp256k1.PublicKey
	privKey *secp256k1.PrivateKey // nil once unloaded
	wlt     *wallet.ExtendedKey   // nil once unloaded

	votingPub  *paillier.IsolatedPublicKey
	votingPriv *paillier.IsolatedPrivateKey // nil once unloaded
}

// validateName enforces spec.md §4.8: non-empty, no leading/trailing
// whitespace.
func validateName(name string) error {
	if name == "" {
		return makeError(ErrMissingMemberName, "member: name must not be empty")
	}
	if strings.TrimSpace(name) != name {
		return makeError(ErrInvalidMemberNameWhitespace, "member: name must not have leading or trailing whitespace")
	}
	return nil
}

// validateEmail enforces spec.md §4.8: RFC-5322-lite syntax, no
// leading/trailing whitespace.
func validateEmail(email string) error {
	if strings.TrimSpace(email) != email {
		return makeError(ErrInvalidEmail, "member: email must not have leading or trailing whitespace")
	}
	if !emailFormat.MatchString(email) {
		return makeError(ErrInvalidEmail, "member: email does not match the expected local@domain.tld shape")
	}
	return nil
}

// New creates a member of the given type, name, and email: a fresh
// mnemonic, wallet, ECDH keypair, and derived isolated Paillier voting
// keypair, per spec.md §4.8. The generated Mnemonic is returned alongside
// the member since it is the only durable way to later rehydrate the
// member's private key via LoadWallet.
func New(memberType Type, name, email string) (*BrightChainMember, wallet.Mnemonic, error) {
	if err := validateName(name); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		return nil, "", err
	}

	m, err := fromMnemonic(memberType, name, email, mnemonic)
	if err != nil {
		return nil, "", err
	}
	log.Debugf("member: created member %s (%s)", m.ID, m.Name)
	return m, mnemonic, nil
}

// fromMnemonic derives the wallet, ECDH keypair, and voting keypair from
// mnemonic and assembles a fresh BrightChainMember.
func fromMnemonic(memberType Type, name, email string, mnemonic wallet.Mnemonic) (*BrightChainMember, error) {
	wlt, err := wallet.NewMasterFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	priv, err := wlt.PrivateKey()
	if err != nil {
		return nil, err
	}

	votingPub, votingPriv, err := voting.DeriveFromKeys(priv, priv.PubKey())
	if err != nil {
		return nil, err
	}

	return &BrightChainMember{
		ID:         uuid.New(),
		Type:       memberType,
		Name:       name,
		Email:      email,
		pubKey:     priv.PubKey(),
		privKey:    priv,
		wlt:        wlt,
		votingPub:  votingPub,
		votingPriv: votingPriv,
	}, nil
}

// PublicKey returns the member's ECDH/signing public key. It is always
// available, even after UnloadWalletAndPrivateKey.
func (m *BrightChainMember) PublicKey() *secp256k1.PublicKey {
	return m.pubKey
}

// HasPrivateKey reports whether m currently holds its private key and
// wallet (the HasPrivateKey state), as opposed to PublicOnly.
func (m *BrightChainMember) HasPrivateKey() bool {
	return m.privKey != nil
}

// Wallet returns the member's extended key, for further derivation. It
// fails with ErrNoWallet if the member has been unloaded to PublicOnly.
func (m *BrightChainMember) Wallet() (*wallet.ExtendedKey, error) {
	if m.wlt == nil {
		return nil, makeError(ErrNoWallet, "member: wallet is not loaded")
	}
	return m.wlt, nil
}

// Sign signs msg with the member's private key. It fails with
// ErrMissingPrivateKey if the member has been unloaded to PublicOnly.
func (m *BrightChainMember) Sign(msg []byte) (signature.Signature, error) {
	if m.privKey == nil {
		return signature.Signature{}, makeError(ErrMissingPrivateKey, "member: cannot sign without a loaded private key")
	}
	return signature.Sign(m.privKey, msg), nil
}

// Verify verifies sig over msg against the member's public key.
func (m *BrightChainMember) Verify(sig signature.Signature, msg []byte) bool {
	return signature.Verify(m.pubKey, sig, msg)
}

// EncryptToSelf ECIES-encrypts buf to the member's own public key.
func (m *BrightChainMember) EncryptToSelf(buf []byte) ([]byte, error) {
	return ecies.EncryptSingle(m.pubKey, buf)
}

// EncryptTo ECIES-encrypts buf to a list of recipient public keys,
// producing a multi-recipient envelope every recipient (including this
// member, if included) can independently decrypt.
func (m *BrightChainMember) EncryptTo(recipients []*secp256k1.PublicKey, buf []byte) ([]byte, []ecies.Recipient, error) {
	list := make([]ecies.Recipient, len(recipients))
	for i, pub := range recipients {
		list[i] = ecies.Recipient{ID: ecies.RecipientIDFromPubKey(pub), PubKey: pub}
	}
	envelope, err := ecies.EncryptMulti(list, buf)
	return envelope, list, err
}

// DecryptFromSelf reverses EncryptToSelf. It fails with
// ErrMissingPrivateKey if the member has been unloaded.
func (m *BrightChainMember) DecryptFromSelf(envelope []byte) ([]byte, error) {
	if m.privKey == nil {
		return nil, makeError(ErrMissingPrivateKey, "member: cannot decrypt without a loaded private key")
	}
	return ecies.DecryptSingle(m.privKey, envelope)
}

// VotingPublicKey returns the member's isolated Paillier voting public key.
func (m *BrightChainMember) VotingPublicKey() *paillier.IsolatedPublicKey {
	return m.votingPub
}

// VotingPrivateKey returns the member's isolated Paillier voting private
// key. It fails with ErrMissingPrivateKey if the member has been unloaded.
func (m *BrightChainMember) VotingPrivateKey() (*paillier.IsolatedPrivateKey, error) {
	if m.votingPriv == nil {
		return nil, makeError(ErrMissingPrivateKey, "member: voting private key is not loaded")
	}
	return m.votingPriv, nil
}

// UnloadWalletAndPrivateKey discards the member's wallet, ECDH private
// key, and voting private key, transitioning it one-way to PublicOnly.
// The public key and voting public key remain available.
func (m *BrightChainMember) UnloadWalletAndPrivateKey() {
	m.wlt = nil
	m.privKey = nil
	m.votingPriv = nil
	log.Debugf("member: unloaded private key material for %s", m.ID)
}

// LoadWallet rehydrates the member's wallet and private key material from
// mnemonic. It fails with ErrInvalidMnemonic if the mnemonic's derived
// public key does not match the member's existing stored public key —
// the member identity (ID, public key) never changes as a result of this
// call.
func (m *BrightChainMember) LoadWallet(mnemonic wallet.Mnemonic) error {
	wlt, err := wallet.NewMasterFromMnemonic(mnemonic, "")
	if err != nil {
		return err
	}
	priv, err := wlt.PrivateKey()
	if err != nil {
		return err
	}
	if string(priv.PubKey().SerializeUncompressed()) != string(m.pubKey.SerializeUncompressed()) {
		return makeError(ErrInvalidMnemonic, "member: mnemonic derives a different public key than this member's")
	}

	votingPub, votingPriv, err := voting.DeriveFromKeys(priv, priv.PubKey())
	if err != nil {
		return err
	}

	m.wlt = wlt
	m.privKey = priv
	m.votingPub = votingPub
	m.votingPriv = votingPriv
	return nil
}
