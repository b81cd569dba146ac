package recorder

import "RedPacket/internal/model"

// PacketEvent records a newly opened packet.
type PacketEvent struct {
	Packet *model.Packet
	Source string // "COMMAND", "SCHEDULE" or "SPLIT"
}

// ClaimEvent records one share handed out.
type ClaimEvent struct {
	PacketID            string
	Claim               model.Claim
	RemainingAmount     string
	RemainingRecipients int
}

// RefundEvent records the remainder of an expired packet.
type RefundEvent struct {
	PacketID string
	Amount   string
	Unpaid   int
	Note     string
}

// Recorder persists packet history for later analysis.
type Recorder interface {
	RecordPacket(evt *PacketEvent) error
	RecordClaim(evt *ClaimEvent) error
	RecordRefund(evt *RefundEvent) error
	Close() error
}
