package main

import (
	"runtime"

	"github.com/p7r0x7/chronohash"
	"github.com/pkg/errors"
	. "github.com/spf13/pflag"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Flag definitions. Nothing is parsed at init time so that the flag set can be rebuilt per call.

const version = "v1.2.0"

var noCodesDefault = false

type config struct {
	help, version, base64, mhash, cid, fast bool
	noCodes, quiet, rounds, strict, str    bool
	timed                                  bool
	jobs                                   int
	modeName                               string
	mode                                   chronohash.Mode
	palette
}

type palette struct {
	yell, purp, und, zero string
}

var colours = palette{"\033[33m", "\033[35m", "\033[4m", "\033[0m"}

// parse builds the flag set for args. Help text is coloured unless --quiet or --no-codes appear
// anywhere in args, so those two are scanned for before the flags are even defined.
func parse(args []string) (*config, *FlagSet, error) {
	c := &config{noCodes: noCodesDefault, palette: colours}
	for _, arg := range args {
		switch arg {
		case "--no-codes=false":
			c.noCodes = false
		case "--quiet", "--quiet=true":
			c.noCodes, c.quiet = true, true
		case "--no-codes", "--no-codes=true":
			c.noCodes = true
		}
	}
	if c.noCodes {
		c.palette = palette{}
	}
	purp, zero := c.purp, c.zero

	f := NewFlagSet("chronosum", ContinueOnError)
	f.BoolVarP(&c.help, "help", "h", false,
		purp+"print this help menu"+zero+n)

	f.BoolVarP(&c.base64, "base64", "b", false,
		purp+"render digests in base64"+zero+" (default hex)")

	f.BoolVar(&c.cid, "cid", false,
		purp+"render digests as CIDv1 links over raw bytes"+zero)

	f.BoolVarP(&c.fast, "fast", "f", false,
		purp+"hash in fast mode, 8 rounds per block"+zero+" (same as -m fast)")

	f.IntVarP(&c.jobs, "jobs", "j", runtime.NumCPU(),
		purp+"hash at most this many messages at once"+zero)

	f.StringVarP(&c.modeName, "mode", "m", chronohash.Normal.String(),
		purp+"select normal (20 to 32 rounds) or fast mode"+zero)

	f.BoolVar(&c.mhash, "multihash", false,
		purp+"render digests as base58btc multihashes"+zero)

	f.Bool("no-codes", c.noCodes,
		purp+"print to console w/o formatting codes or simplified"+zero+
			n+purp+"filepaths"+zero)

	f.Bool("quiet", false,
		purp+"suppress non-breaking errors and print ONLY digests"+zero+
			n+"(enables --no-codes)")

	f.BoolVarP(&c.rounds, "rounds", "r", false,
		purp+"print the number of rounds run per block"+zero)

	f.BoolVar(&c.strict, "strict", false,
		purp+"stop at the first unreadable target"+zero)

	f.BoolVarP(&c.str, "string", "s", false,
		purp+"process arguments instead as UTF-8 strings to be hashed"+zero)

	f.BoolVarP(&c.timed, "time", "t", false,
		purp+"print time taken to read and hash each message"+zero)

	f.BoolVarP(&c.version, "version", "v", false,
		purp+"print the version and exit"+zero)

	/* Order flags alphabetically except for help, which is hoisted to the top. */
	f.SortFlags = false
	f.Usage = func() {} /* program reports parse errors itself. */
	if err := f.Parse(args); err != nil {
		return nil, f, err
	}

	c.mode = chronohash.Fast
	if !c.fast {
		m, err := chronohash.ParseMode(c.modeName)
		if err != nil {
			return nil, f, err
		}
		c.mode = m
	}
	if c.jobs < 1 {
		return nil, f, errors.Errorf("--jobs must be at least 1, got %d", c.jobs)
	}
	if c.base64 && (c.mhash || c.cid) || c.mhash && c.cid {
		return nil, f, errors.New("--base64, --multihash and --cid are mutually exclusive")
	}
	return c, f, nil
}
