package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var useMmap bool

var rootCmd = &cobra.Command{
	Use:   "bufctl",
	Short: "Exercise and inspect bufkit buffer-backed data structures",
	Long: `bufctl runs synthetic workloads against bufkit's buffer-backed views
(hash table, ring, slice, stream) and reports geometry, probe-distance and
allocation statistics. It exists for eyeballing behavior under load, not for
rigorous benchmarking.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useMmap, "mmap", false, "Back buffers with anonymous mmap instead of the Go heap")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
