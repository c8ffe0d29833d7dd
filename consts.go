package chronohash

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Process-wide tables for ChronoHash. Nothing here is ever written to.

const (
	// Size is the length of a ChronoHash digest in bytes.
	Size = 32
	// BlockSize is the length of a padded block in bytes.
	BlockSize = 64

	wordsPerBlock = BlockSize / 4
	lanes         = 8
	fastRounds    = 8
	baseRounds    = 20
	extraRounds   = 12 /* Normal mode never exceeds baseRounds+extraRounds. */
)

/* Multipliers, one per lane. The first is the 32-bit golden ratio. */
var primes = [lanes]uint32{
	0x9e3779b9, 0x85ebca6b, 0xc2b2ae35, 0x92d68ca2,
	0xa5cb9243, 0xdf442d22, 0x8b2b8c1f, 0xcc9e2d51,
}

/* Derived from the fractional digits of e, pi and phi. Reintroduced after every block. */
var iv = [lanes]uint32{
	0x2b7e1516, 0x28aed2a6, 0xabf71588, 0x09cf4f3c,
	0x762e7160, 0xf38b4da5, 0x6a09e667, 0xbb67ae85,
}

/* Fast mode only ever reads the first eight. */
var rotations = [16]int{7, 12, 17, 22, 5, 9, 14, 20, 4, 11, 16, 23, 6, 10, 15, 21}
