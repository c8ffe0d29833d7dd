package chronohash

import (
	"encoding/binary"
	. "math/bits"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Block compression for both modes. Every lane update below mutates the state array in place and
// in strictly increasing lane order; lanes whose neighbours wrap around to lower indices therefore
// read values already written this round. That ordering defines the digest and must not change.

type state = [lanes]uint32
type block = [wordsPerBlock]uint32

func wordsOf(b []byte, blk *block) {
	_ = b[BlockSize-1] /* Bounds check eliminated. */
	for i := range blk {
		blk[i] = binary.LittleEndian.Uint32(b[i<<2:])
	}
}

func mix(a, b, c, prime uint32) uint32 {
	t := RotateLeft32((a^b)+c, 13) * prime
	t ^= t >> 16
	return RotateLeft32(t, 5) + prime
}

// diffuse spreads each lane of the incoming state into the three lanes after it, then overwrites
// the lane itself with mix. All reads come from the state as it was on entry, so a cascade that
// lands on a lower lane before that lane is mixed is discarded by the overwrite.
func diffuse(s *state, blk *block) {
	in := *s
	for i := 0; i < lanes; i++ {
		influence := blk[i]
		t := in[i] + influence
		for offset := 1; offset < 4; offset++ {
			s[(i+offset)&7] ^= RotateLeft32(t, offset<<2)
		}
		s[i] = mix(in[i], in[(i+1)&7], influence, primes[i])
	}
}

func compressRound(s *state, blk *block, r int) {
	rot := rotations[r&15]
	for i := 0; i < lanes; i++ {
		t := (s[i] ^ RotateLeft32(s[(i+1)&7], rot)) + s[(i+5)&7]
		t ^= blk[(i+r)&15]
		s[i] += RotateLeft32(t*primes[i], 11)
	}
}

func compressNormal(s *state, blk *block, rounds int) {
	diffuse(s, blk)
	for r := 0; r < rounds; r++ {
		compressRound(s, blk, r)
	}
	anchor(s)
}

/* No diffusion and no mix; round r reads words r through r+7. */
func compressFast(s *state, blk *block) {
	for r := 0; r < fastRounds; r++ {
		rot := rotations[r]
		for i := 0; i < lanes; i++ {
			t := (s[i] ^ RotateLeft32(s[(i+1)&7], rot)) + s[(i+5)&7]
			s[i] += (t ^ blk[r+i]) * primes[i]
		}
	}
	anchor(s)
}

/* Runs once per block, not once per message. */
func anchor(s *state) {
	for i := range s {
		s[i] += iv[i]
	}
}
