package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kardwell/bufkit/hashtable"
	"github.com/kardwell/bufkit/membuf"
)

var (
	statsEntries  uint64
	statsCapacity uint64
	statsSeed     int64
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fill a hash table and print its probe-distance profile",
		Long: `The stats command inserts random keys into a hash table and prints the
resulting geometry: capacity, load factor, buffer footprint, and a histogram
of probe distances.

Example:
  bufctl stats --entries 100000
  bufctl stats --entries 100000 --capacity 4096 --mmap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
	cmd.Flags().Uint64Var(&statsEntries, "entries", 10000, "Number of entries to insert")
	cmd.Flags().Uint64Var(&statsCapacity, "capacity", 64, "Initial table capacity")
	cmd.Flags().Int64Var(&statsSeed, "seed", 1, "Key stream seed")
	rootCmd.AddCommand(cmd)
}

func newManager() membuf.Manager {
	if useMmap {
		return membuf.NewMmapManager()
	}
	return membuf.NewHeapManager()
}

func runStats() error {
	mgr := newManager()
	tb := hashtable.New[uint64, uint64](mgr, "bufctl.stats", statsCapacity)

	rng := rand.New(rand.NewSource(statsSeed))
	for i := uint64(0); i < statsEntries; i++ {
		tb.Set(rng.Uint64(), i)
	}

	st := tb.Stats()
	fmt.Printf("entries:      %d\n", st.Count)
	fmt.Printf("capacity:     %d (max miss %d)\n", st.Capacity, st.MaxMissDistance)
	fmt.Printf("load factor:  %.3f\n", st.LoadFactor)
	fmt.Printf("buffer:       %s\n", humanize.IBytes(st.BufferBytes))
	fmt.Printf("max probe:    %d\n", st.MaxProbe)
	fmt.Println("probe histogram:")
	for d, n := range st.ProbeHistogram {
		if n == 0 {
			continue
		}
		bar := strings.Repeat("#", int(min(n*50/max(st.Count, 1), 50)))
		fmt.Printf("  %2d: %8d %s\n", d+1, n, bar)
	}

	ms := mgr.Stats()
	fmt.Printf("manager:      %d buffers, %s live (peak %s), %d resizes\n",
		ms.Buffers, humanize.IBytes(ms.LiveBytes), humanize.IBytes(ms.PeakBytes), ms.Resizes)
	return nil
}
