package main

import (
	"fmt"
	"log"
	"time"

	"RedPacket/internal/model"
	"RedPacket/internal/money"
	"RedPacket/internal/notifier"
	"RedPacket/internal/packet"
	"RedPacket/internal/recorder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSplitCmd() *cobra.Command {
	var (
		amount     string
		recipients int
		seed       uint64
		dbPath     string
	)
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split an amount among recipients and print every share",
		Example: `  redpacket split --amount 100 --recipients 10
  redpacket split -a 8.88 -n 8 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total, err := money.Parse(amount)
			if err != nil {
				return err
			}
			pool, err := packet.NewPool(total, recipients)
			if err != nil {
				return err
			}

			engine := packet.NewEngine(nil)
			if cmd.Flags().Changed("seed") {
				engine = packet.NewSeededEngine(seed)
			}
			shares, err := engine.Split(pool)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), notifier.FormatSplit(shares))

			if dbPath != "" {
				if err := recordSplit(dbPath, total, shares); err != nil {
					log.Printf("[WARN] record split: %v", err)
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&amount, "amount", "a", "", "total amount to split, e.g. 100 or 8.88")
	flags.IntVarP(&recipients, "recipients", "n", 0, "number of recipients")
	flags.Uint64Var(&seed, "seed", 0, "random seed for a reproducible split")
	flags.StringVar(&dbPath, "db", "", "optional SQLite file to record the split in")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("recipients")
	return cmd
}

func recordSplit(dbPath string, total decimal.Decimal, shares []decimal.Decimal) error {
	rec, err := recorder.NewSQLiteRecorder(dbPath)
	if err != nil {
		return err
	}
	defer rec.Close()

	p := &model.Packet{
		ID:          uuid.New().String(),
		TotalAmount: total,
		Recipients:  len(shares),
		Status:      model.PacketAllTaken,
		CreatedAt:   time.Now(),
	}
	if err := rec.RecordPacket(&recorder.PacketEvent{Packet: p, Source: "SPLIT"}); err != nil {
		return err
	}
	remaining := total
	for i, s := range shares {
		remaining = remaining.Sub(s)
		if err := rec.RecordClaim(&recorder.ClaimEvent{
			PacketID:            p.ID,
			Claim:               model.Claim{Seq: i + 1, Claimant: fmt.Sprintf("#%d", i+1), Amount: s, ClaimedAt: p.CreatedAt},
			RemainingAmount:     money.Format(remaining),
			RemainingRecipients: len(shares) - i - 1,
		}); err != nil {
			return err
		}
	}

	recorded, n, err := rec.ClaimTotal(p.ID)
	if err != nil {
		return err
	}
	if n != len(shares) || recorded != money.Format(total) {
		return fmt.Errorf("recorded %d shares totalling %s, want %d totalling %s",
			n, recorded, len(shares), money.Format(total))
	}
	log.Printf("[INFO] split %s recorded: %d shares, %s", p.ID, n, recorded)
	return nil
}
