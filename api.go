package chronohash

import "hash"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// This file contains a Go-specific API implementing the standard hash.Hash interface. ChronoHash
// is defined over whole messages, so a Digest only buffers what it is given; nothing is
// compressed until Sum.

// Digest is a hash.Hash over a buffered message. Unlike Hasher it is not safe for concurrent use.
type Digest struct {
	h     Hasher
	carry []byte
}

var _ hash.Hash = (*Digest)(nil)

// New returns a Digest in mode m. It panics under the same conditions as NewHasher.
func New(m Mode) *Digest {
	return &Digest{h: NewHasher(m), carry: make([]byte, 0, BlockSize)}
}

// NewFast returns a Digest in Fast mode.
func NewFast() *Digest { return New(Fast) }

// NewNormal returns a Digest in Normal mode.
func NewNormal() *Digest { return New(Normal) }

func (d *Digest) Size() int { return Size }

func (d *Digest) BlockSize() int { return BlockSize }

// Write never returns an error.
func (d *Digest) Write(buf []byte) (int, error) {
	d.carry = append(d.carry, buf...)
	return len(buf), nil
}

func (d *Digest) WriteString(s string) (int, error) {
	d.carry = append(d.carry, s...)
	return len(s), nil
}

// Sum appends the digest of everything written since the last Reset to buf. The buffered message
// is left intact, so Sum may be called repeatedly.
func (d *Digest) Sum(buf []byte) []byte {
	sum := d.h.Hash(d.carry)
	return append(buf, sum[:]...)
}

// Reset zeroes and discards the buffered message. The mode is kept.
func (d *Digest) Reset() {
	for i := range d.carry {
		d.carry[i] = 0 /* Optimizes to a memclr(). */
	}
	d.carry = d.carry[:0]
}

// Len reports how many bytes are buffered.
func (d *Digest) Len() int { return len(d.carry) }

// Mode reports the mode d was created with.
func (d *Digest) Mode() Mode { return d.h.mode }
