package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	. "fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/multiformats/go-multibase"
	"github.com/p7r0x7/chronohash/multihash"
	"github.com/p7r0x7/vainpath"
	. "github.com/spf13/pflag"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const n = "\n"
const success, failure, invalid = 0, 1, 2

func main() { os.Exit(program(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)) }

// help prints a usage menu. To consistently correctly render this menu in most terminal windows,
// its content should be no wider than 80 columns.
func help(c *config, f *FlagSet, w io.Writer) {
	origin, err := os.Executable()
	if err != nil {
		origin = "chronosum" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(w, c.yell, "ChronoHash: a 256-bit digest with dynamic rounds.", c.zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h|v]"+n,
		spaces, "[-bfrt] [-j <int>] [-m <mode>] [--quiet|no-codes] [--strict] -|PATH..."+n,
		spaces, "[-bfrt] [-j <int>] [-m <mode>] [--quiet|no-codes] [--strict] -s STRING..."+n+n+
			"Options:"+n)
	f.SetOutput(w)
	f.PrintDefaults()
	name = vainpath.Trim(origin, "…", 15)
	Fprint(w, n+"Order of arguments placed after `", name, "` does not matter unless `--` is"+
		n+"specified, signaling the end of parsed flags. Long-form flag equivalents are"+
		n+"above. `-` is treated as a reference to standard input."+n)
}

// This program is a command-line interface for chronohash: It handles various flags and an
// unlimited number of arguments, hashing files concurrently and printing their digests in order.
func program(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c, f, err := parse(args)
	if err != nil {
		Fprint(stderr, "chronosum: ", err, n)
		return invalid
	}
	if c.version {
		Fprint(stdout, "chronosum ", version, n)
		return success
	}
	if c.help || f.NArg() == 0 {
		help(c, f, stderr)
		return success
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	/* Results arrive in completion order; pending holds them until their turn comes. */
	warnings, next, pending := 0, 0, map[int]result{}
	for r := range newPool(c, stdin).run(ctx, f.Args()) {
		pending[r.dex] = r
		for r, ok := pending[next]; ok; r, ok = pending[next] {
			delete(pending, next)
			next++
			if r.err != nil {
				if !c.quiet {
					Fprint(stderr, c.purp, r.err, c.zero, n)
				}
				warnings++
				if c.strict {
					return failure
				}
				continue
			}
			if err := printResult(c, stdout, r); err != nil {
				Fprint(stderr, "chronosum: ", err, n)
				return failure
			}
		}
	}

	if !c.quiet {
		if warnings == 1 {
			Fprint(stderr, "1 ", c.purp, "target is a directory or is otherwise inaccessible.", c.zero, n)
		} else if warnings > 1 {
			Fprint(stderr, warnings, " ", c.purp, "targets are directories or are otherwise inaccessible.", c.zero, n)
		}
	}
	if warnings > 0 {
		return failure
	}
	return success
}

func printResult(c *config, w io.Writer, r result) error {
	str, err := render(c, r)
	if err != nil {
		return err
	}

	var extra string
	if c.rounds {
		extra += " [" + strconv.Itoa(r.rounds) + " rounds]"
	}
	if c.timed {
		d := r.delta
		if d.Microseconds() > 99 {
			d = d.Truncate(10 * time.Microsecond)
		}
		extra += " (" + d.String() + ")"
	}

	switch {
	case c.quiet:
		_, err = Fprint(w, str, n)
	case c.str:
		_, err = Fprint(w, c.yell, str, c.zero, `  "`, r.target, `"`, extra, n)
	case c.noCodes:
		_, err = Fprint(w, str, `  `, filepath.Clean(r.target), extra, n)
	default:
		_, err = Fprint(w, c.yell, str, c.zero, `  `, c.und, vainpath.Simplify(r.target), c.zero, extra, n)
	}
	return err
}

func render(c *config, r result) (string, error) {
	switch {
	case c.base64:
		return base64.StdEncoding.EncodeToString(r.sum[:]), nil
	case c.mhash, c.cid:
		d, err := multihash.FromDigest(c.mode, r.sum)
		if err != nil {
			return "", err
		}
		if c.cid {
			return multihash.Link(d).String(), nil
		}
		return multibase.Encode(multibase.Base58BTC, d)
	default:
		return hex.EncodeToString(r.sum[:]), nil
	}
}
