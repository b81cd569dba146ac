package notifier

import (
	"fmt"
	"strings"
	"time"

	"RedPacket/internal/model"
	"RedPacket/internal/money"
	"RedPacket/internal/packet"
	"RedPacket/internal/stats"

	"github.com/shopspring/decimal"
)

// FormatPacketOpened announces a new packet and how to grab it.
func FormatPacketOpened(p *model.Packet) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🧧 <b>Red packet</b> | %s\n\n", p.CreatedAt.Format("2006-01-02 15:04")))
	if p.Message != "" {
		b.WriteString(fmt.Sprintf("%s\n\n", p.Message))
	}
	b.WriteString(fmt.Sprintf("Total: ¥%s for %d people\n", money.Format(p.TotalAmount), p.Recipients))
	if !p.ExpireAt.IsZero() {
		b.WriteString(fmt.Sprintf("Expires: %s\n", p.ExpireAt.Format("2006-01-02 15:04")))
	}
	b.WriteString(fmt.Sprintf("\nGrab it: <code>/grab %s</code>\n", p.ID))
	return b.String()
}

// FormatClaim reports one grabbed share.
func FormatClaim(c *model.Claim, p *model.Packet) string {
	return fmt.Sprintf("🎉 %s grabbed ¥%s (%d/%d, ¥%s left)",
		c.Claimant, money.Format(c.Amount), c.Seq, p.Recipients, money.Format(p.RemainingAmount))
}

// FormatPacketFinished summarises a fully taken packet.
func FormatPacketFinished(p *model.Packet) string {
	var b strings.Builder
	elapsed := p.UpdatedAt.Sub(p.CreatedAt).Round(time.Second)
	b.WriteString(fmt.Sprintf("✅ <b>All %d shares taken</b> in %s\n\n", p.Recipients, elapsed))
	writeClaims(&b, p.Claims)
	if s, err := stats.Summarize(p.Amounts()); err == nil {
		b.WriteString(fmt.Sprintf("\n👑 Luckiest: %s (¥%s)\n", p.Claims[s.Luckiest].Claimant, money.Format(s.Max)))
	}
	return b.String()
}

// FormatPacketDetail shows the full state of a packet.
func FormatPacketDetail(p *model.Packet) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧧 <b>%s</b> [%s]\n\n", p.ID, p.Status))
	if p.Message != "" {
		b.WriteString(fmt.Sprintf("%s\n", p.Message))
	}
	b.WriteString(fmt.Sprintf("Total: ¥%s\n", money.Format(p.TotalAmount)))
	b.WriteString(fmt.Sprintf("Left: ¥%s for %d of %d\n", money.Format(p.RemainingAmount), p.RemainingRecipients, p.Recipients))
	if len(p.Claims) > 0 {
		b.WriteString("\n")
		writeClaims(&b, p.Claims)
	}
	return b.String()
}

// FormatPacketList shows one line per packet.
func FormatPacketList(packets []model.Packet) string {
	if len(packets) == 0 {
		return "No red packets yet."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Red packets</b>\n\n")
	for _, p := range packets {
		b.WriteString(fmt.Sprintf("• <code>%s</code> %s ¥%s %d/%d\n",
			p.ID, p.Status, money.Format(p.TotalAmount), len(p.Claims), p.Recipients))
	}
	return b.String()
}

// FormatRefunds reports expired packets and their unclaimed remainder.
func FormatRefunds(refunds []packet.Refund) string {
	var b strings.Builder
	b.WriteString("⌛ <b>Expired red packets</b>\n\n")
	total := decimal.Zero
	for _, r := range refunds {
		b.WriteString(fmt.Sprintf("• <code>%s</code> ¥%s unclaimed by %d\n", r.PacketID, money.Format(r.Amount), r.Unpaid))
		total = total.Add(r.Amount)
	}
	b.WriteString(fmt.Sprintf("\nRefunded: ¥%s", money.Format(total)))
	return b.String()
}

// FormatSplit renders a one-shot split as plain text.
func FormatSplit(amounts []decimal.Decimal) string {
	var b strings.Builder
	for i, a := range amounts {
		b.WriteString(fmt.Sprintf("#%-3d %10s\n", i+1, money.Format(a)))
	}
	s, err := stats.Summarize(amounts)
	if err != nil {
		return b.String()
	}
	b.WriteString(strings.Repeat("─", 15) + "\n")
	b.WriteString(fmt.Sprintf("sum  %10s\n", money.Format(s.Sum)))
	b.WriteString(fmt.Sprintf("min  %10s\n", money.Format(s.Min)))
	b.WriteString(fmt.Sprintf("max  %10s (#%d)\n", money.Format(s.Max), s.Luckiest+1))
	b.WriteString(fmt.Sprintf("mean %10s\n", money.Format(s.Mean)))
	return b.String()
}

func writeClaims(b *strings.Builder, claims []model.Claim) {
	for _, c := range claims {
		b.WriteString(fmt.Sprintf("  %d. %s ¥%s\n", c.Seq, c.Claimant, money.Format(c.Amount)))
	}
}
