// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command brightctl is a small demonstration CLI that exercises the
// BrightChain store/retrieve pipeline end to end against a flat-file block
// store in the working directory. It is not a network server.
package main

import (
	"fmt"
	"os"

	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"

	"github.com/Digital-Defiance/BrightChain-sub011/pipeline"
)

// options is the top-level flag set, following the dcrd/exccd config.go
// convention of a single struct parsed by go-flags with one field per
// subcommand group.
type options struct {
	Debug bool `short:"d" long:"debug" description:"enable debug logging"`

	Member struct {
		Name  string `long:"name" description:"member display name" required:"true"`
		Email string `long:"email" description:"member email address" required:"true"`
	} `command:"member" description:"create a new member, printing its mnemonic and public JSON profile"`

	Store struct {
		In        string `long:"in" description:"input file to store" required:"true"`
		BlockSize int    `long:"block-size" description:"block size in bytes" default:"4096"`
		TupleSize byte   `long:"tuple-size" description:"tuple size" default:"3"`
	} `command:"store" description:"encrypt, whiten, and store a file, printing its CBL checksum"`

	Retrieve struct {
		CBLFile string `long:"cbl" description:"path to a previously-stored CBL block" required:"true"`
		Out     string `long:"out" description:"output file to write the recovered plaintext to" required:"true"`
	} `command:"retrieve" description:"reassemble and decrypt a file from its CBL"`
}

var log = slog.Disabled

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "brightctl"
	parser.LongDescription = "BrightChain content-addressed storage demo CLI."

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Debug {
		backend := slog.NewBackend(os.Stderr)
		log = backend.Logger("BCTL")
		log.SetLevel(slog.LevelDebug)
		pipeline.UseLogger(backend.Logger("PIPE"))
	}

	var cmdErr error
	switch parser.Active.Name {
	case "member":
		cmdErr = runMemberCreate(opts)
	case "store":
		cmdErr = runStore(opts)
	case "retrieve":
		cmdErr = runRetrieve(opts)
	default:
		cmdErr = fmt.Errorf("brightctl: no command specified")
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "brightctl: %v\n", cmdErr)
		os.Exit(1)
	}
}
