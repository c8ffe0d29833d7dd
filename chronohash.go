package chronohash

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// N.B.: This project makes no claim of cryptographic security.
// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The following collection of functions backend the reference Go implementation of the ChronoHash
// 256-bit hashing algorithm: Merkle–Damgård padding, a round count chosen from the message's byte
// diversity, and two structurally distinct block compressors.

// Mode selects which compression engine a Hasher runs.
type Mode uint8

const (
	// Normal runs temporal diffusion followed by 20 to 32 rounds per block. It is the default.
	Normal Mode = iota
	// Fast runs exactly 8 rounds per block.
	Fast
)

// ErrInvalidMode is returned by ParseMode for names that are not a Mode.
var ErrInvalidMode = errors.New("chronohash: invalid mode")

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Fast:
		return "fast"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode accepts "normal", "n", "fast" and "f" in any case.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "normal", "n":
		return Normal, nil
	case "fast", "f":
		return Fast, nil
	}
	return Normal, errors.Wrapf(ErrInvalidMode, "%q", name)
}

// Hasher computes ChronoHash digests in a fixed Mode. It holds no other state and may be copied
// and shared between goroutines freely.
type Hasher struct {
	mode Mode
}

// NewHasher panics if m is neither Normal nor Fast.
func NewHasher(m Mode) Hasher {
	if m != Normal && m != Fast {
		panic("chronohash: NewHasher: unknown mode " + m.String())
	}
	return Hasher{mode: m}
}

// Mode reports which engine h runs.
func (h Hasher) Mode() Mode { return h.mode }

// Hash returns the 256-bit digest of msg. It accepts any input, including nil, and never fails.
func (h Hasher) Hash(msg []byte) (sum [Size]byte) {
	rounds, s, padded := h.Rounds(msg), iv, pad(msg)

	var blk block
	for ; len(padded) > 0; padded = padded[BlockSize:] {
		wordsOf(padded[:BlockSize], &blk)
		if h.mode == Fast {
			compressFast(&s, &blk)
		} else {
			compressNormal(&s, &blk, rounds)
		}
	}

	/* Little-endian byte order, lane 0 first */
	for i, w := range s {
		binary.LittleEndian.PutUint32(sum[i<<2:], w)
	}
	return sum
}

// HashHex returns the digest of msg as 64 lowercase hexadecimal characters.
func (h Hasher) HashHex(msg []byte) string {
	sum := h.Hash(msg)
	return hex.EncodeToString(sum[:])
}

// Rounds reports how many compression rounds each block of msg receives. Fast mode always runs 8.
// Normal mode runs 20 plus one extra round for every 1/12th of the 256 possible byte values that
// appear somewhere in msg, saturating at 32.
func (h Hasher) Rounds(msg []byte) int {
	if h.mode == Fast {
		return fastRounds
	} else if len(msg) == 0 {
		return baseRounds
	}

	var seen [256]bool
	unique := 0
	for _, b := range msg {
		if !seen[b] {
			seen[b] = true
			if unique++; unique == len(seen) {
				break /* Every value is present; the rest of msg cannot matter. */
			}
		}
	}
	complexity := float32(unique) / 256
	return baseRounds + int(complexity*extraRounds)
}

// HashFast is shorthand for NewHasher(Fast).Hash(msg).
func HashFast(msg []byte) [Size]byte { return Hasher{mode: Fast}.Hash(msg) }

// HashNormal is shorthand for NewHasher(Normal).Hash(msg).
func HashNormal(msg []byte) [Size]byte { return Hasher{mode: Normal}.Hash(msg) }

/* The EXPANSION FUNCTION copies msg into a buffer of the next multiple of BlockSize that leaves room
for a 0x80 marker and a 64-bit big-endian bit length; everything in between stays zero. The bit
length wraps for messages of 2^61 bytes or more. */
func pad(msg []byte) []byte {
	n := (len(msg) + 9 + BlockSize - 1) / BlockSize * BlockSize
	padded := make([]byte, n)
	copy(padded, msg)
	padded[len(msg)] = 0x80
	binary.BigEndian.PutUint64(padded[n-8:], uint64(len(msg))<<3)
	return padded
}
