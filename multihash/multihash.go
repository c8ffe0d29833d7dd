// Package multihash gives ChronoHash digests a self-describing form: multihash framing, multibase
// strings and CIDv1 links. Importing it registers both modes with go-multihash, after which
// mh.Sum(data, CodeNormal, -1) works like it does for any built-in function.
package multihash

import (
	"bytes"
	"hash"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	mh "github.com/multiformats/go-multihash"
	"github.com/p7r0x7/chronohash"
	"github.com/pkg/errors"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Both codes sit in the multicodec private-use range.
const (
	CodeNormal uint64 = 0x300c01
	CodeFast   uint64 = 0x300c02
)

// Size of the digest carried inside every ChronoHash multihash.
const Size = chronohash.Size

var (
	ErrUnknownCode = errors.New("multihash: not a chronohash code")
	ErrLength      = errors.New("multihash: digest length is not 32 bytes")
)

var names = map[uint64]string{
	CodeNormal: "chronohash-256",
	CodeFast:   "chronohash-fast-256",
}

func init() {
	mh.Register(CodeNormal, func() hash.Hash { return chronohash.NewNormal() })
	mh.Register(CodeFast, func() hash.Hash { return chronohash.NewFast() })
	for code, name := range names {
		mh.Codes[code] = name
		mh.Names[name] = code
		mh.DefaultLengths[code] = Size
	}
}

// Code returns the multihash code for m.
func Code(m chronohash.Mode) uint64 {
	if m == chronohash.Fast {
		return CodeFast
	}
	return CodeNormal
}

// ModeOf is the inverse of Code.
func ModeOf(code uint64) (chronohash.Mode, error) {
	switch code {
	case CodeNormal:
		return chronohash.Normal, nil
	case CodeFast:
		return chronohash.Fast, nil
	}
	return chronohash.Normal, errors.Wrapf(ErrUnknownCode, "0x%x", code)
}

// Hasher mirrors the Code/Size/Sum shape the rest of the IPLD tooling expects from a hash.
type Hasher struct {
	h chronohash.Hasher
}

func NewHasher(m chronohash.Mode) Hasher { return Hasher{chronohash.NewHasher(m)} }

func (h Hasher) Code() uint64 { return Code(h.h.Mode()) }

func (h Hasher) Size() uint64 { return Size }

func (h Hasher) Sum(data []byte) (mh.Multihash, error) {
	return FromDigest(h.h.Mode(), h.h.Hash(data))
}

// FromDigest frames a digest that was already computed in mode m.
func FromDigest(m chronohash.Mode, sum [Size]byte) (mh.Multihash, error) {
	d, err := mh.Encode(sum[:], Code(m))
	if err != nil {
		return nil, errors.Wrap(err, "multihash: encode")
	}
	return d, nil
}

// Link wraps a multihash in a version 1 CID with the raw codec.
func Link(d mh.Multihash) cid.Cid {
	return cid.NewCidV1(uint64(multicodec.Raw), d)
}

// Sum returns data's digest in mode m, framed as a multihash.
func Sum(m chronohash.Mode, data []byte) (mh.Multihash, error) {
	return NewHasher(m).Sum(data)
}

// Encode renders the multihash of data with the given multibase encoding.
func Encode(m chronohash.Mode, data []byte, base multibase.Encoding) (string, error) {
	d, err := Sum(m, data)
	if err != nil {
		return "", err
	}
	s, err := multibase.Encode(base, d)
	return s, errors.Wrap(err, "multihash: multibase")
}

// CID returns a version 1 CID addressing data as raw bytes.
func CID(m chronohash.Mode, data []byte) (cid.Cid, error) {
	d, err := Sum(m, data)
	if err != nil {
		return cid.Undef, err
	}
	return Link(d), nil
}

// Verify reports whether digest is the ChronoHash multihash of data. Digests that are not
// well-formed ChronoHash multihashes are errors rather than mismatches.
func Verify(digest []byte, data []byte) (bool, error) {
	dec, err := mh.Decode(digest)
	if err != nil {
		return false, errors.Wrap(err, "multihash: decode")
	}
	m, err := ModeOf(dec.Code)
	if err != nil {
		return false, err
	}
	if dec.Length != Size || len(dec.Digest) != Size {
		return false, errors.Wrapf(ErrLength, "got %d", dec.Length)
	}
	sum := chronohash.NewHasher(m).Hash(data)
	return bytes.Equal(dec.Digest, sum[:]), nil
}
