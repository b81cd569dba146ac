package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"RedPacket/internal/sorts"

	"github.com/spf13/cobra"
)

func newMonkeySortCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "monkeysort <int>...",
		Short: "Sort integers by shuffling until they happen to be in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums := make([]int, len(args))
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
				nums[i] = n
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			seed := uint64(time.Now().UnixNano())
			rounds, err := sorts.MonkeySort(ctx, nums, rand.New(rand.NewPCG(seed, seed)))
			if err != nil {
				return fmt.Errorf("gave up after %d shuffles: %w", rounds, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v (%d shuffles)\n", nums, rounds)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}
