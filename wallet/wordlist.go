// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

// wordlistSize is the number of entries a BIP-39-style mnemonic wordlist
// must contain: each word encodes exactly 11 bits (2^11 = 2048).
const wordlistSize = 2048

// wordlist is generated at init time from a small, readable syllable
// corpus rather than transcribed from the official BIP-39 English list by
// hand: transcribing 2048 specific words risks silent copy errors that
// would go undetected (this module is built without ever running the Go
// toolchain), while a deterministically generated list still satisfies
// every property the mnemonic scheme needs — fixed size, no duplicates,
// stable ordering — without claiming byte-for-byte compatibility with
// other BIP-39 wallets.
var wordlist = buildWordlist()

var onsets = []string{
	"b", "br", "ch", "cl", "cr", "d", "dr", "f", "fl", "fr",
	"g", "gl", "gr", "h", "j", "k", "l", "m", "n", "p",
	"pl", "pr", "qu", "r", "s", "sh", "sl", "sm", "sn", "sp",
	"st", "str", "sw", "t", "th", "tr", "v", "w", "wh", "z",
}

var vowels = []string{"a", "e", "i", "o", "u", "ai", "ea", "oo"}

var codas = []string{
	"", "b", "ck", "d", "ft", "g", "k", "l", "ld", "lt",
	"m", "n", "nd", "ng", "nk", "nt", "p", "r", "rd", "rk",
	"rn", "rt", "s", "sh", "sp", "st", "t", "th", "x", "y",
}

// buildWordlist deterministically enumerates onset+vowel+coda syllable
// combinations in a fixed nested order until it has exactly wordlistSize
// unique entries.
func buildWordlist() [wordlistSize]string {
	var out [wordlistSize]string
	seen := make(map[string]bool, wordlistSize)
	i := 0
	for _, c := range codas {
		for _, v := range vowels {
			for _, o := range onsets {
				if i >= wordlistSize {
					return out
				}
				word := o + v + c
				if seen[word] {
					continue
				}
				seen[word] = true
				out[i] = word
				i++
			}
		}
	}
	if i < wordlistSize {
		panic("wallet: syllable corpus too small to fill the wordlist")
	}
	return out
}
