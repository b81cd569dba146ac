package packet

import (
	"fmt"
	"math/rand/v2"

	"RedPacket/internal/money"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Engine draws red packet shares from a single random source.
// An Engine is not safe for concurrent use.
type Engine struct {
	rnd *rand.Rand
}

// NewEngine creates an Engine over src. A nil src gets a random seed from
// the runtime's global source, so engines built together still diverge.
func NewEngine(src rand.Source) *Engine {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Engine{rnd: rand.New(src)}
}

// NewSeededEngine creates an Engine whose draws are reproducible for seed.
func NewSeededEngine(seed uint64) *Engine {
	return NewEngine(rand.NewPCG(seed, seed))
}

// AllocateNext hands the next recipient their share and debits the pool.
//
// The last recipient gets whatever remains, rounded to the cent. Everyone
// else gets a uniform draw from [0, 2*average), raised to money.MinShare
// and truncated to the cent.
func (e *Engine) AllocateNext(p *Pool) (decimal.Decimal, error) {
	if p == nil || p.Exhausted() {
		return decimal.Zero, ErrPoolExhausted
	}

	if p.recipients == 1 {
		amount := money.Round(p.amount)
		p.amount = decimal.Zero
		p.recipients = 0
		return amount, nil
	}

	r := decimal.NewFromFloat(e.rnd.Float64())
	candidate := r.Mul(p.amount).Div(decimal.NewFromInt(int64(p.recipients))).Mul(two)
	if candidate.LessThan(money.MinShare) {
		candidate = money.MinShare
	}
	amount := money.Truncate(candidate)

	p.amount = p.amount.Sub(amount)
	p.recipients--
	return amount, nil
}

// Split drains the pool and returns every share in allocation order.
func (e *Engine) Split(p *Pool) ([]decimal.Decimal, error) {
	if p == nil || p.Exhausted() {
		return nil, ErrPoolExhausted
	}
	shares := make([]decimal.Decimal, 0, p.recipients)
	for !p.Exhausted() {
		amount, err := e.AllocateNext(p)
		if err != nil {
			return shares, fmt.Errorf("allocate share %d: %w", len(shares)+1, err)
		}
		shares = append(shares, amount)
	}
	return shares, nil
}
