package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"RedPacket/internal/config"
	"RedPacket/internal/model"
	"RedPacket/internal/money"
	"RedPacket/internal/notifier"
	"RedPacket/internal/packet"
	"RedPacket/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Scheduler runs scheduled drops and housekeeping, and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Packets   *packet.Manager
	Notifier  notifier.Sender
	Recorder  recorder.Recorder
	TTL       time.Duration
	Retention time.Duration
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, pm *packet.Manager, sender notifier.Sender, rec recorder.Recorder, ttl, retention time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Packets:   pm,
		Notifier:  sender,
		Recorder:  rec,
		TTL:       ttl,
		Retention: retention,
		Ctx:       ctx,
	}
}

// RegisterAll registers every configured drop plus the expiry and prune sweeps.
func (s *Scheduler) RegisterAll(drops []config.Drop, expiryCron, pruneCron string) error {
	for _, d := range drops {
		if _, err := s.Cron.AddFunc(d.Cron, func() { s.dropTask(d) }); err != nil {
			return fmt.Errorf("register drop %s: %w", d.Name, err)
		}
		log.Printf("[INFO] drop %s registered: %s", d.Name, d.Cron)
	}
	if _, err := s.Cron.AddFunc(expiryCron, s.expiryTask); err != nil {
		return fmt.Errorf("register expiry task: %w", err)
	}
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) dropTask(d config.Drop) {
	log.Printf("[INFO] running drop %s", d.Name)
	amount, err := d.Total()
	if err != nil {
		log.Printf("[ERROR] drop %s: %v", d.Name, err)
		return
	}
	message := d.Message
	if message == "" {
		message = d.Name
	}
	if _, err := s.open(amount, d.Recipients, message, "SCHEDULE"); err != nil {
		log.Printf("[ERROR] drop %s: %v", d.Name, err)
	}
}

func (s *Scheduler) expiryTask() {
	refunds := s.Packets.ExpireStale(time.Now())
	if len(refunds) == 0 {
		return
	}
	log.Printf("[INFO] %d packets expired", len(refunds))
	for _, r := range refunds {
		if err := s.Recorder.RecordRefund(&recorder.RefundEvent{
			PacketID: r.PacketID,
			Amount:   money.Format(r.Amount),
			Unpaid:   r.Unpaid,
			Note:     "expired",
		}); err != nil {
			log.Printf("[ERROR] record refund: %v", err)
		}
	}
	s.trySend(notifier.FormatRefunds(refunds))
}

func (s *Scheduler) pruneTask() {
	if s.Retention <= 0 {
		return
	}
	if n := s.Packets.Prune(time.Now().Add(-s.Retention)); n > 0 {
		log.Printf("[INFO] pruned %d finished packets", n)
	}
}

// open creates a packet, records it and announces it in the chat.
func (s *Scheduler) open(amount decimal.Decimal, recipients int, message, source string) (model.Packet, error) {
	p, err := s.Packets.Create(amount, recipients, message, s.TTL)
	if err != nil {
		return model.Packet{}, err
	}
	if err := s.Recorder.RecordPacket(&recorder.PacketEvent{Packet: &p, Source: source}); err != nil {
		log.Printf("[ERROR] record packet: %v", err)
	}
	s.trySend(notifier.FormatPacketOpened(&p))
	return p, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(from, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	// Strip "@botname" suffixes Telegram adds in group chats.
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/new":
		if len(fields) < 3 {
			return "Usage: /new <amount> <recipients> [message]"
		}
		amount, err := money.Parse(fields[1])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		recipients, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Sprintf("Bad recipient count %q", fields[2])
		}
		message := strings.Join(fields[3:], " ")
		if message == "" && from != "" {
			message = fmt.Sprintf("From %s", from)
		}
		if _, err := s.open(amount, recipients, message, "COMMAND"); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return ""
	case "/grab":
		if len(fields) < 2 {
			return "Usage: /grab <id> [name]"
		}
		claimant := from
		if len(fields) > 2 {
			claimant = strings.Join(fields[2:], " ")
		}
		return s.grab(fields[1], claimant)
	case "/show":
		if len(fields) < 2 {
			return "Usage: /show <id>"
		}
		p, err := s.Packets.Get(fields[1])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatPacketDetail(&p)
	case "/list":
		return notifier.FormatPacketList(s.Packets.List())
	default:
		return usage
	}
}

const usage = "Commands:\n• /new <amount> <recipients> [message]\n• /grab <id> [name]\n• /show <id>\n• /list"

func (s *Scheduler) grab(id, claimant string) string {
	c, p, err := s.Packets.Claim(id, claimant)
	switch {
	case errors.Is(err, packet.ErrPoolExhausted):
		return "😢 Too late, this red packet is empty."
	case errors.Is(err, packet.ErrPacketExpired):
		return "⌛ This red packet has expired."
	case errors.Is(err, packet.ErrAlreadyClaimed):
		return fmt.Sprintf("%s already grabbed this one.", claimant)
	case err != nil:
		return fmt.Sprintf("❌ %v", err)
	}

	if err := s.Recorder.RecordClaim(&recorder.ClaimEvent{
		PacketID:            p.ID,
		Claim:               c,
		RemainingAmount:     money.Format(p.RemainingAmount),
		RemainingRecipients: p.RemainingRecipients,
	}); err != nil {
		log.Printf("[ERROR] record claim: %v", err)
	}

	reply := notifier.FormatClaim(&c, &p)
	if p.Status == model.PacketAllTaken {
		reply += "\n\n" + notifier.FormatPacketFinished(&p)
	}
	return reply
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
