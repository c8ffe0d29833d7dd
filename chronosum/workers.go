package main

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/p7r0x7/chronohash"
	"github.com/pkg/errors"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Targets are read and hashed by a fixed pool of goroutines; results come back tagged with their
// argument index so that they can be printed in the order they were given.

type job struct {
	dex    int
	target string
}

type result struct {
	dex    int
	target string
	sum    [chronohash.Size]byte
	rounds int
	delta  time.Duration
	err    error
}

type pool struct {
	c      *config
	h      chronohash.Hasher
	to     chan job
	from   chan result
	stdin  io.Reader
	once   sync.Once
	piped  []byte
	pErr   error
	hashes sync.WaitGroup
}

func newPool(c *config, stdin io.Reader) *pool {
	return &pool{
		c: c, h: chronohash.NewHasher(c.mode), stdin: stdin,
		to: make(chan job, c.jobs), from: make(chan result, c.jobs),
	}
}

// run feeds targets to the workers and returns the channel results arrive on. The channel is
// closed once every target has been handled or ctx is cancelled.
func (p *pool) run(ctx context.Context, targets []string) <-chan result {
	p.hashes.Add(p.c.jobs)
	for i := p.c.jobs; i > 0; i-- {
		go func() {
			defer p.hashes.Done()
			for j := range p.to {
				r := p.consume(j)
				select {
				case p.from <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
	feed:
		for i, target := range targets {
			select {
			case p.to <- job{i, target}:
			case <-ctx.Done():
				break feed
			}
		}
		close(p.to)
		p.hashes.Wait() /* Every send on from has completed. */
		close(p.from)
	}()
	return p.from
}

func (p *pool) consume(j job) result {
	r, start := result{dex: j.dex, target: j.target}, time.Now()
	msg, err := p.read(j.target)
	if err != nil {
		r.err = err
		return r
	}
	r.sum = p.h.Hash(msg)
	if p.c.rounds {
		r.rounds = p.h.Rounds(msg) /* A second pass over msg; only paid for when printed. */
	}
	r.delta = time.Since(start)
	return r
}

func (p *pool) read(target string) ([]byte, error) {
	switch {
	case p.c.str:
		return []byte(target), nil
	case target == "-":
		/* STDIN can only be drained once; later references see the same bytes. */
		p.once.Do(func() {
			p.piped, p.pErr = io.ReadAll(p.stdin)
			p.pErr = errors.Wrap(p.pErr, "reading standard input")
		})
		return p.piped, p.pErr
	default:
		msg, err := os.ReadFile(target)
		return msg, errors.Wrapf(err, "reading %s", target)
	}
}
