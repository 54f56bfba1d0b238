package main

import (
	"fmt"
	"path/filepath"

	"github.com/modwasm/modwasm/internal/wasm/binary"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "stats <module.wasm>...",
		Short: "Decode one or more modules and print per-section byte sizes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			reg, shutdown := serveMetrics(metricsAddr)
			defer shutdown()

			for _, path := range args {
				mod, _, err := decodeFile(path, log, reg)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", filepath.Base(path))
				for id := byte(0); id <= byte(binary.SectionIDData); id++ {
					size, ok := mod.SectionSizes[id]
					if !ok {
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %8d bytes\n", binary.SectionID(id).String(), size)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus /metrics on this address while decoding")
	return cmd
}
