// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package member

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"

	"github.com/Digital-Defiance/BrightChain-sub011/paillier"
)

// memberJSON is the external wire shape for a BrightChainMember, per
// spec.md §6: the public key is hex, the voting public key is the base64
// of its serialized voting public-key buffer. Neither the private key,
// the wallet, nor the voting private key ever appears here.
type memberJSON struct {
	ID              uuid.UUID `json:"id"`
	Type            Type      `json:"type"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PublicKey       string    `json:"publicKey"`
	VotingPublicKey string    `json:"votingPublicKey"`
}

// ToJSON marshals m's public profile to the external JSON shape.
func (m *BrightChainMember) ToJSON() ([]byte, error) {
	doc := memberJSON{
		ID:              m.ID,
		Type:            m.Type,
		Name:            m.Name,
		Email:           m.Email,
		PublicKey:       hex.EncodeToString(m.pubKey.SerializeUncompressed()),
		VotingPublicKey: base64.StdEncoding.EncodeToString(m.votingPub.Serialize()),
	}
	return json.Marshal(doc)
}

// FromJSON parses the external JSON shape into a public-only
// BrightChainMember (HasPrivateKey reports false; LoadWallet can later
// rehydrate private key material from a stored mnemonic).
func FromJSON(data []byte) (*BrightChainMember, error) {
	var doc memberJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	pubBytes, err := hex.DecodeString(doc.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("member: malformed publicKey hex: %w", err)
	}
	pubKey, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return nil, err
	}

	votingBuf, err := base64.StdEncoding.DecodeString(doc.VotingPublicKey)
	if err != nil {
		return nil, err
	}
	votingPub, err := paillier.ParseIsolatedPublicKey(votingBuf)
	if err != nil {
		return nil, err
	}

	return &BrightChainMember{
		ID:        doc.ID,
		Type:      doc.Type,
		Name:      doc.Name,
		Email:     doc.Email,
		pubKey:    pubKey,
		votingPub: votingPub,
	}, nil
}
