// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/Digital-Defiance/BrightChain-sub011/member"
	"github.com/Digital-Defiance/BrightChain-sub011/pipeline"
	"github.com/Digital-Defiance/BrightChain-sub011/tuple"
)

// blocksDir is the demo's on-disk block store directory.
const blocksDir = "brightchain-blocks"

func runMemberCreate(opts options) error {
	m, mnemonic, err := member.New(member.TypeUser, opts.Member.Name, opts.Member.Email)
	if err != nil {
		return err
	}
	if err := saveIdentity(m, mnemonic); err != nil {
		return err
	}

	profile, err := m.ToJSON()
	if err != nil {
		return err
	}
	fmt.Printf("member created: %s\n", m.ID)
	fmt.Printf("mnemonic (write this down, it is the only way to recover the private key):\n  %s\n", mnemonic)
	fmt.Printf("public profile:\n  %s\n", profile)
	return nil
}

func runStore(opts options) error {
	m, err := loadIdentity()
	if err != nil {
		return fmt.Errorf("brightctl: load identity (run \"member\" first): %w", err)
	}

	in, err := os.Open(opts.Store.In)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}

	store, err := newFileBlockStore(blocksDir)
	if err != nil {
		return err
	}

	wlt, err := m.Wallet()
	if err != nil {
		return err
	}
	priv, err := wlt.PrivateKey()
	if err != nil {
		return err
	}

	cache := pipeline.NewWhitenerCache(1024, opts.Store.BlockSize)

	tupleSize := opts.Store.TupleSize
	if tupleSize == 0 {
		tupleSize = tuple.DefaultSize
	}

	result, err := pipeline.DataStreamToEncryptedTuplesAndCBL(pipeline.StoreRequest{
		Creator: pipeline.Creator{
			ID:      m.ID,
			PubKey:  m.PublicKey(),
			PrivKey: priv,
		},
		BlockSize:    opts.Store.BlockSize,
		Source:       in,
		SourceLength: info.Size(),
		Whiteners:    cache,
		Randoms:      cache,
		Store:        store,
		TupleSize:    tupleSize,
	})
	if err != nil {
		return err
	}

	cblPath := result.CBLChecksum.ToHex() + ".cbl"
	if err := os.WriteFile(cblPath, result.CBLBytes, 0o644); err != nil {
		return err
	}
	fmt.Printf("stored %s\n  cbl checksum: %s\n  cbl file:     %s\n", opts.Store.In, result.CBLChecksum, cblPath)
	return nil
}

func runRetrieve(opts options) error {
	m, err := loadIdentity()
	if err != nil {
		return fmt.Errorf("brightctl: load identity (run \"member\" first): %w", err)
	}

	cblBytes, err := os.ReadFile(opts.Retrieve.CBLFile)
	if err != nil {
		return err
	}

	store, err := newFileBlockStore(blocksDir)
	if err != nil {
		return err
	}

	wlt, err := m.Wallet()
	if err != nil {
		return err
	}
	priv, err := wlt.PrivateKey()
	if err != nil {
		return err
	}

	plaintext, err := pipeline.RetrieveFromCBL(pipeline.RetrieveRequest{
		CBLBytes:   cblBytes,
		CreatorPub: m.PublicKey(),
		PrivKey:    priv,
		Store:      store,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.Retrieve.Out, plaintext, 0o644); err != nil {
		return err
	}
	fmt.Printf("retrieved %d bytes to %s\n", len(plaintext), opts.Retrieve.Out)
	return nil
}
