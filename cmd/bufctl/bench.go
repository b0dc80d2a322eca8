package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kardwell/bufkit/hashtable"
	"github.com/kardwell/bufkit/ring"
)

var (
	benchOps  uint64
	benchSeed int64
)

func init() {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a mixed set/get/erase workload and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
	cmd.Flags().Uint64Var(&benchOps, "ops", 1_000_000, "Operations to run")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Workload seed")
	rootCmd.AddCommand(cmd)
}

func runBench() error {
	mgr := newManager()
	tb := hashtable.New[uint64, uint64](mgr, "bufctl.bench", 1024)
	rng := rand.New(rand.NewSource(benchSeed))
	keySpace := max(benchOps/4, 1)

	start := time.Now()
	var sets, gets, erases uint64
	for i := uint64(0); i < benchOps; i++ {
		key := rng.Uint64() % keySpace
		switch rng.Intn(10) {
		case 0, 1, 2, 3, 4, 5:
			tb.Set(key, i)
			sets++
		case 6, 7, 8:
			_ = tb.Get(key)
			gets++
		default:
			_ = tb.Erase(key)
			erases++
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("ops:        %d (%d set / %d get / %d erase)\n", benchOps, sets, gets, erases)
	fmt.Printf("elapsed:    %v (%.0f ops/s)\n", elapsed, float64(benchOps)/elapsed.Seconds())
	fmt.Printf("live:       %d entries in %s\n", tb.Len(), humanize.IBytes(tb.Stats().BufferBytes))

	// A quick ring pass, mostly to exercise the second view type.
	r := ring.New[uint64](mgr, "bufctl.bench.ring", 4096)
	start = time.Now()
	for i := uint64(0); i < benchOps; i++ {
		r.Push(i)
	}
	fmt.Printf("ring push:  %d ops in %v\n", benchOps, time.Since(start))
	return nil
}
