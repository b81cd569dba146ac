package packet

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"RedPacket/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund is the undistributed remainder of an expired packet.
type Refund struct {
	PacketID string
	Amount   decimal.Decimal
	Unpaid   int
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDFunc overrides packet id generation.
func WithIDFunc(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithMaxRecipients caps the recipient count of new packets. Zero means no cap.
func WithMaxRecipients(n int) Option {
	return func(m *Manager) { m.maxRecipients = n }
}

// Manager owns all red packets and serialises claims on them.
type Manager struct {
	mu            sync.Mutex
	engine        *Engine
	state         *model.PacketState
	filePath      string
	maxRecipients int
	now           func() time.Time
	newID         func() string
}

// NewManager creates a Manager, loading packets from filePath.
// An empty filePath keeps packets in memory only.
func NewManager(filePath string, engine *Engine, opts ...Option) (*Manager, error) {
	state := &model.PacketState{}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, err
		}
	}
	if engine == nil {
		engine = NewEngine(nil)
	}

	m := &Manager{
		engine:   engine,
		state:    state,
		filePath: filePath,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Create opens a new packet of amount for recipients. A zero ttl never expires.
func (m *Manager) Create(amount decimal.Decimal, recipients int, message string, ttl time.Duration) (model.Packet, error) {
	pool, err := NewPool(amount, recipients)
	if err != nil {
		return model.Packet{}, err
	}
	if m.maxRecipients > 0 && recipients > m.maxRecipients {
		return model.Packet{}, fmt.Errorf("%w: at most %d recipients, got %d", ErrInvalidPool, m.maxRecipients, recipients)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	p := &model.Packet{
		ID:                  m.newID(),
		Message:             message,
		TotalAmount:         amount,
		Recipients:          recipients,
		RemainingAmount:     pool.Remaining(),
		RemainingRecipients: pool.RemainingRecipients(),
		Status:              model.PacketOpen,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if ttl > 0 {
		p.ExpireAt = now.Add(ttl)
	}
	m.state.Packets = append(m.state.Packets, p)
	m.save()

	return clonePacket(p), nil
}

// Claim allocates the next share of packet id to claimant.
func (m *Manager) Claim(id, claimant string) (model.Claim, model.Packet, error) {
	claimant = strings.TrimSpace(claimant)
	if claimant == "" {
		return model.Claim{}, model.Packet{}, fmt.Errorf("claim %s: empty claimant", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.find(id)
	if p == nil {
		return model.Claim{}, model.Packet{}, fmt.Errorf("claim %s: %w", id, ErrPacketNotFound)
	}
	now := m.now()

	// An overdue packet stays OPEN until ExpireStale refunds it.
	switch {
	case p.Status == model.PacketExpired || (p.Status == model.PacketOpen && m.overdue(p, now)):
		return model.Claim{}, clonePacket(p), fmt.Errorf("claim %s: %w", id, ErrPacketExpired)
	case p.Status == model.PacketAllTaken || p.RemainingRecipients <= 0:
		return model.Claim{}, clonePacket(p), fmt.Errorf("claim %s: %w", id, ErrPoolExhausted)
	case p.Claimed(claimant):
		return model.Claim{}, clonePacket(p), fmt.Errorf("claim %s by %s: %w", id, claimant, ErrAlreadyClaimed)
	}

	pool := &Pool{amount: p.RemainingAmount, recipients: p.RemainingRecipients}
	amount, err := m.engine.AllocateNext(pool)
	if err != nil {
		return model.Claim{}, clonePacket(p), fmt.Errorf("claim %s: %w", id, err)
	}

	c := model.Claim{
		Seq:       len(p.Claims) + 1,
		Claimant:  claimant,
		Amount:    amount,
		ClaimedAt: now,
	}
	p.Claims = append(p.Claims, c)
	p.RemainingAmount = pool.Remaining()
	p.RemainingRecipients = pool.RemainingRecipients()
	if pool.Exhausted() {
		p.Status = model.PacketAllTaken
	}
	p.UpdatedAt = now
	m.save()

	return c, clonePacket(p), nil
}

// Get returns a copy of packet id.
func (m *Manager) Get(id string) (model.Packet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.find(id)
	if p == nil {
		return model.Packet{}, fmt.Errorf("get %s: %w", id, ErrPacketNotFound)
	}
	return clonePacket(p), nil
}

// List returns copies of all packets, newest first.
func (m *Manager) List() []model.Packet {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Packet, 0, len(m.state.Packets))
	for _, p := range m.state.Packets {
		out = append(out, clonePacket(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ExpireStale marks open packets past their expiry as expired and returns
// what is left in each of them.
func (m *Manager) ExpireStale(now time.Time) []Refund {
	m.mu.Lock()
	defer m.mu.Unlock()

	var refunds []Refund
	for _, p := range m.state.Packets {
		if p.Status != model.PacketOpen || !m.overdue(p, now) {
			continue
		}
		p.Status = model.PacketExpired
		p.UpdatedAt = now
		refunds = append(refunds, Refund{
			PacketID: p.ID,
			Amount:   p.RemainingAmount,
			Unpaid:   p.RemainingRecipients,
		})
	}
	if len(refunds) > 0 {
		m.save()
	}
	return refunds
}

// Prune drops finished packets last updated before cutoff and returns how many were removed.
func (m *Manager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.state.Packets[:0]
	removed := 0
	for _, p := range m.state.Packets {
		if p.Status != model.PacketOpen && p.UpdatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	m.state.Packets = kept
	if removed > 0 {
		m.save()
	}
	return removed
}

func (m *Manager) find(id string) *model.Packet {
	for _, p := range m.state.Packets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *Manager) overdue(p *model.Packet, now time.Time) bool {
	return !p.ExpireAt.IsZero() && now.After(p.ExpireAt)
}

func (m *Manager) save() {
	if m.filePath == "" {
		return
	}
	if err := SaveState(m.filePath, m.state); err != nil {
		log.Printf("[ERROR] failed to save packet state: %v", err)
	}
}

func clonePacket(p *model.Packet) model.Packet {
	c := *p
	c.Claims = append([]model.Claim(nil), p.Claims...)
	return c
}
