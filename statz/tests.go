package main

import (
	"encoding/binary"
	. "fmt"
	"math/bits"

	"github.com/aead/chacha20/chacha"
	"github.com/p7r0x7/chronohash"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const ints = uint32(5e4)

/* A fixed key keeps every run of statz hashing the same "random" messages. */
var streamKey = [32]byte{'c', 'h', 'r', 'o', 'n', 'o', 'h', 'a', 's', 'h'}

// stream fills buf with ChaCha20 keystream for the given nonce.
func stream(buf []byte, nonce uint64) {
	var iv [8]byte
	binary.LittleEndian.PutUint64(iv[:], nonce)
	c, err := chacha.NewCipher(iv[:], streamKey[:], 20)
	if err != nil {
		panic(err)
	}
	for i := range buf {
		buf[i] = 0
	}
	c.XORKeyStream(buf, buf)
}

// meanBias reports, as a percentage, how far on average each output bit strays from being set in
// exactly half of the digests.
func meanBias(tally *[chronohash.Size * 8]uint32, count uint32) float64 {
	var total float64
	for _, ones := range tally {
		d := float64(ones) - float64(count)/2
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total / float64(len(tally)) / (float64(count) / 2) * 100
}

func addBits(tally *[chronohash.Size * 8]uint32, sum [chronohash.Size]byte) {
	for i, b := range sum {
		for ; b != 0; b &= b - 1 {
			tally[i<<3+bits.TrailingZeros8(b)]++
		}
	}
}

// monobit hashes ints counter values and as many random kilobyte messages.
func monobit(h chronohash.Hasher) (integer, random float64) {
	var iTally, rTally [chronohash.Size * 8]uint32
	iBytes, rBytes := make([]byte, 4), make([]byte, 1024)
	for i := ints; i > 0; i-- {
		binary.BigEndian.PutUint32(iBytes, i)
		addBits(&iTally, h.Hash(iBytes))
		stream(rBytes, uint64(i))
		addBits(&rTally, h.Hash(rBytes))
	}
	return meanBias(&iTally, ints), meanBias(&rTally, ints)
}

// avalanche flips one keystream-chosen bit of a random message per trial and reports the mean
// percentage of output bits that changed.
func avalanche(h chronohash.Hasher, trials int) float64 {
	msg, pick := make([]byte, 128), make([]byte, 4)
	var flipped int
	for i := 0; i < trials; i++ {
		stream(msg, uint64(i)<<32)
		stream(pick, uint64(i)<<32|1)
		bit := binary.LittleEndian.Uint32(pick) % uint32(len(msg)*8)

		before := h.Hash(msg)
		msg[bit>>3] ^= 1 << (bit & 7)
		after := h.Hash(msg)
		for k := range before {
			flipped += bits.OnesCount8(before[k] ^ after[k])
		}
	}
	return float64(flipped) / float64(trials*chronohash.Size*8) * 100
}

func statTest() {
	for _, m := range []chronohash.Mode{chronohash.Normal, chronohash.Fast} {
		h := chronohash.NewHasher(m)
		integer, random := monobit(h)
		Printf("ChronoHash (%s)\n", m)
		Printf("Integer input Monobit test:  %5.3f%%\n", integer)
		Printf("Random input Monobit test:   %5.3f%%\n", random)
		Printf("Single-bit avalanche:        %5.3f%%\n\n", avalanche(h, 10000))
	}
}
