package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PacketStatus is the lifecycle state of a red packet.
type PacketStatus string

const (
	PacketOpen     PacketStatus = "OPEN"
	PacketAllTaken PacketStatus = "ALL_TAKEN"
	PacketExpired  PacketStatus = "EXPIRED"
)

// Claim is one recipient's share of a packet.
type Claim struct {
	Seq       int             `json:"seq"`
	Claimant  string          `json:"claimant"`
	Amount    decimal.Decimal `json:"amount"`
	ClaimedAt time.Time       `json:"claimed_at"`
}

// Packet is a red packet together with its remaining pool.
type Packet struct {
	ID                  string          `json:"id"`
	Message             string          `json:"message"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Recipients          int             `json:"recipients"`
	RemainingAmount     decimal.Decimal `json:"remaining_amount"`
	RemainingRecipients int             `json:"remaining_recipients"`
	Status              PacketStatus    `json:"status"`
	Claims              []Claim         `json:"claims"`
	ExpireAt            time.Time       `json:"expire_at"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Claimed reports whether claimant already took a share.
func (p *Packet) Claimed(claimant string) bool {
	for _, c := range p.Claims {
		if c.Claimant == claimant {
			return true
		}
	}
	return false
}

// Amounts returns the claimed amounts in claim order.
func (p *Packet) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(p.Claims))
	for i, c := range p.Claims {
		out[i] = c.Amount
	}
	return out
}

// PacketState is the on-disk form of all packets.
type PacketState struct {
	Packets   []*Packet `json:"packets"`
	UpdatedAt time.Time `json:"updated_at"`
}
