package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vkngwrapper/hostmem/hma"
)

var algorithmDescriptions = map[hma.Algorithm]string{
	hma.AlgorithmFreeList: "General purpose: first fit, any free order, adjacent free blocks merge",
	hma.AlgorithmLinear:   "Bump allocation: individual frees are ignored, reset releases everything",
	hma.AlgorithmStack:    "Bump allocation with LIFO frees: freeing rolls the top back",
	hma.AlgorithmSystem:   "Every request is a separate Go heap allocation, capacity is ignored",
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "algorithms",
		Short: "List the allocation strategies a scenario can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				names := make([]string, 0, len(hma.Algorithms))
				for _, algorithm := range hma.Algorithms {
					names = append(names, algorithm.String())
				}
				return printJSON(cmd.OutOrStdout(), names)
			}

			for _, algorithm := range hma.Algorithms {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", algorithm, algorithmDescriptions[algorithm])
			}
			return nil
		},
	})
}
