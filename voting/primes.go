// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package voting

import "math/big"

// millerRabinWitnessCount is the number of Miller-Rabin rounds performed
// per candidate, per spec.md §4.3 step 4 and §9's resolution of the
// StaticHelpersVoting/VotingService discrepancy in favor of VotingService.
const millerRabinWitnessCount = 256

// maxPrimeAttempts bounds the number of candidates tried before giving up,
// per spec.md §4.3 step 4.
const maxPrimeAttempts = 20000

// smallPrimeSieve lists the small primes candidates are screened against
// before the expensive Miller-Rabin test, per spec.md §4.3 step 4.
var smallPrimeSieve = []int64{3, 5, 7, 11, 13, 17}

var (
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// passesSmallPrimeSieve reports whether n is not divisible by any of the
// small primes in smallPrimeSieve (n itself is assumed odd already).
func passesSmallPrimeSieve(n *big.Int) bool {
	for _, p := range smallPrimeSieve {
		if new(big.Int).Mod(n, big.NewInt(p)).Sign() == 0 {
			return false
		}
	}
	return true
}

// millerRabin runs the Miller-Rabin primality test against n using the
// supplied witnesses. It assumes n is odd and greater than 3.
func millerRabin(n *big.Int, witnesses []*big.Int) bool {
	nMinus1 := new(big.Int).Sub(n, big1)

	// n-1 = 2^s * d with d odd.
	d := new(big.Int).Set(nMinus1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	nMinus2 := new(big.Int).Sub(n, big2)

witnessLoop:
	for _, a := range witnesses {
		if a.Cmp(big2) < 0 || a.Cmp(nMinus2) > 0 {
			continue
		}
		x := new(big.Int).Exp(a, d, n)
		if x.Cmp(big1) == 0 || x.Cmp(nMinus1) == 0 {
			continue
		}
		for i := 0; i < s-1; i++ {
			x.Mul(x, x)
			x.Mod(x, n)
			if x.Cmp(nMinus1) == 0 {
				continue witnessLoop
			}
		}
		return false
	}
	return true
}

// deterministicWitnesses draws count witnesses in [2, n-2] from d.
func deterministicWitnesses(d *drbg, n *big.Int, count int) []*big.Int {
	nMinus3 := new(big.Int).Sub(n, big.NewInt(3))
	if nMinus3.Sign() <= 0 {
		return nil
	}

	witnesses := make([]*big.Int, 0, count)
	byteLen := (n.BitLen() + 7) / 8
	for len(witnesses) < count {
		candidate := new(big.Int).SetBytes(d.Bytes(byteLen))
		candidate.Mod(candidate, nMinus3)
		candidate.Add(candidate, big2) // land in [2, n-2]
		witnesses = append(witnesses, candidate)
	}
	return witnesses
}

// generatePrime deterministically derives an odd integer of exactly
// bitLen bits that survives the small-prime sieve and a
// millerRabinWitnessCount-round Miller-Rabin test, drawing all randomness
// from d so that the same d (i.e. the same ECDH-derived seed) always
// yields the same prime.
func generatePrime(d *drbg, bitLen int) (*big.Int, error) {
	byteLen := (bitLen + 7) / 8

	for attempt := 0; attempt < maxPrimeAttempts; attempt++ {
		buf := d.Bytes(byteLen)
		candidate := new(big.Int).SetBytes(buf)

		// Force the top bit so the candidate has exactly bitLen bits, and
		// the bottom bit so it is odd.
		candidate.SetBit(candidate, bitLen-1, 1)
		candidate.SetBit(candidate, 0, 1)

		if !passesSmallPrimeSieve(candidate) {
			continue
		}
		witnesses := deterministicWitnesses(d, candidate, millerRabinWitnessCount)
		if millerRabin(candidate, witnesses) {
			return candidate, nil
		}
	}
	return nil, Error{Err: ErrFailedToGeneratePrime, Description: "voting: failed to generate a prime within the attempt budget"}
}
