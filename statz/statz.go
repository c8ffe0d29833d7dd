package main

import (
	. "fmt"
	"math"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dterei/gotsc"
	"github.com/minio/sha256-simd"
	"github.com/p7r0x7/chronohash"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/sys/cpu"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Throughput, cycles per byte and allocations of ChronoHash next to well-known functions, followed
// by a few statistical checks of its output.

var sizes = [...]int{64, 512 << 10, 64 << 20}
var bytes, calltime = []byte(nil), tscOverhead()

/* gotsc reads the x86 time-stamp counter; elsewhere cycles are not reported. */
func tscOverhead() uint64 {
	if runtime.GOARCH != "amd64" {
		return 0
	}
	return gotsc.TSCOverhead()
}

type alg struct {
	name string
	sum  func(b []byte)
}

var algs = []alg{
	{"github.com/p7r0x7/chronohash (normal)", func(b []byte) { chronohash.HashNormal(b) }},
	{"github.com/p7r0x7/chronohash (fast)", func(b []byte) { chronohash.HashFast(b) }},
	{"github.com/minio/sha256-simd", func(b []byte) { sha256.Sum256(b) }},
	{"github.com/zeebo/blake3", func(b []byte) { blake3.Sum256(b) }},
	{"github.com/zeebo/xxh3 (128)", func(b []byte) { xxh3.Hash128(b) }},
}

func bench(sum func(b []byte)) func(b *testing.B) {
	return func(b *testing.B) {
		b.SetBytes(int64(len(bytes)))
		b.ReportAllocs()
		b.ResetTimer()
		for i := b.N; i > 0; i-- {
			sum(bytes)
		}
	}
}

func benchAlg(a alg) {
	const s = len(sizes)
	throughputs, speeds, usages := make([]float64, s), make([]float64, s), make([]float64, s)

	for i, v := range sizes {
		bytes = make([]byte, v)
		stream(bytes, uint64(v))

		totalHz, polls, mut, done := uint64(0), uint64(0), &sync.Mutex{}, make(chan struct{})
		if calltime > 0 {
			go func() {
				for {
					select {
					case <-done:
						return
					default:
					}
					tsc1 := gotsc.BenchStart()
					time.Sleep(time.Millisecond)
					tsc2 := gotsc.BenchEnd()

					mut.Lock()
					totalHz += tsc2 - tsc1 - calltime
					polls++
					mut.Unlock()

					time.Sleep(time.Millisecond * 9)
				}
			}()
		}
		r := testing.Benchmark(bench(a.sum))
		close(done)
		mut.Lock()
		totalHz *= 1000

		throughputs[i] = float64(r.Bytes*int64(r.N)) / r.T.Seconds() /* B/s */
		if polls > 0 {
			speeds[i] = float64(totalHz) / float64(polls) / throughputs[i]
		}
		throughputs[i] /= 1e6 /* MB/s */
		usages[i] = float64(r.AllocedBytesPerOp())
		mut.Unlock()
	}

	Println("Speed " + fmtFloats(throughputs...) + "   MB/s")
	if calltime > 0 {
		Println("      " + fmtFloats(speeds...) + "   cpb")
	}
	Println("Usage " + fmtFloats(usages...) + "   B/op\n")
}

/* Fractional cells get as many decimals as fit in eight columns. */
var decimals = [...]struct {
	upTo float64
	verb string
}{{1e1, "%8.6f"}, {1e2, "%8.5f"}, {1e3, "%8.4f"}, {1e4, "%8.3f"}, {1e5, "%8.2f"}, {1e6, "%8.1f"}}

func fmtFloats(f ...float64) string {
	var row strings.Builder
	for _, v := range f {
		verb, whole := "%8.f", v == math.Trunc(v)
		switch {
		case v > 1e8 || (v < 1e-6 && !whole):
			verb = "%8.3g"
		case !whole:
			for _, d := range decimals {
				if v <= d.upTo {
					verb = d.verb
					break
				}
			}
		}
		Fprintf(&row, "  "+verb, v)
	}
	return row.String()
}

func features() string {
	switch runtime.GOARCH {
	case "amd64", "386":
		return Sprintf("sse4.1=%t avx2=%t avx512f=%t", cpu.X86.HasSSE41, cpu.X86.HasAVX2, cpu.X86.HasAVX512F)
	case "arm64":
		return Sprintf("asimd=%t sha2=%t", cpu.ARM64.HasASIMD, cpu.ARM64.HasSHA2)
	}
	return "no feature report"
}

func main() {
	Printf("Running Statz on %d CPUs!\n%s/%s (%s)\n\n", runtime.NumCPU(), runtime.GOOS, runtime.GOARCH, features())
	t := time.Now()

	statTest()
	Println(" ============================================= ")
	Println("           64B      512K       64M")
	for _, a := range algs {
		Println(a.name)
		benchAlg(a)
	}

	Println("Finished in " + time.Since(t).Truncate(time.Millisecond).String() + ".")
}
