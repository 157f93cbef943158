// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strings"

	"github.com/Digital-Defiance/BrightChain-sub011/member"
	"github.com/Digital-Defiance/BrightChain-sub011/wallet"
)

// Fixed demo file names: a real deployment would look these up from a
// proper member store, not flat files beside the working directory.
const (
	profilePath  = "brightchain-member.json"
	mnemonicPath = "brightchain-mnemonic.txt"
)

// loadIdentity rehydrates the member created by a prior "member" command,
// restoring its private key from the saved mnemonic so store/retrieve can
// sign and decrypt on its behalf.
func loadIdentity() (*member.BrightChainMember, error) {
	profile, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, err
	}
	m, err := member.FromJSON(profile)
	if err != nil {
		return nil, err
	}

	mnemonicBytes, err := os.ReadFile(mnemonicPath)
	if err != nil {
		return nil, err
	}
	mnemonic := wallet.Mnemonic(strings.TrimSpace(string(mnemonicBytes)))
	if err := m.LoadWallet(mnemonic); err != nil {
		return nil, err
	}
	return m, nil
}

// saveIdentity persists m's public profile and mnemonic so a later
// brightctl invocation can rehydrate it via loadIdentity.
func saveIdentity(m *member.BrightChainMember, mnemonic wallet.Mnemonic) error {
	profile, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(profilePath, profile, 0o644); err != nil {
		return err
	}
	return os.WriteFile(mnemonicPath, []byte(mnemonic), 0o600)
}
