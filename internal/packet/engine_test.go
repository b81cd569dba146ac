package packet

import (
	"errors"
	"testing"

	"RedPacket/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always yields the same 64 bits.
type fixedSource uint64

func (f fixedSource) Uint64() uint64 { return uint64(f) }

const (
	zeroDraw fixedSource = 0
	halfDraw fixedSource = 1 << 52 // Float64() == 0.5
	maxDraw  fixedSource = 1<<64 - 1
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustPool(t *testing.T, amount string, recipients int) *Pool {
	t.Helper()
	p, err := NewPool(dec(amount), recipients)
	require.NoError(t, err)
	return p
}

func TestNewPool_Invalid(t *testing.T) {
	tests := []struct {
		amount     string
		recipients int
	}{
		{"0", 5},
		{"-1", 5},
		{"10", 0},
		{"10", -2},
	}
	for _, tt := range tests {
		_, err := NewPool(dec(tt.amount), tt.recipients)
		assert.True(t, errors.Is(err, ErrInvalidPool), "amount=%s recipients=%d: %v", tt.amount, tt.recipients, err)
	}
}

func TestAllocateNext_SingleRecipient(t *testing.T) {
	p := mustPool(t, "1.00", 1)
	amount, err := NewSeededEngine(1).AllocateNext(p)
	require.NoError(t, err)
	assert.Equal(t, "1.00", money.Format(amount))
	assert.True(t, p.Exhausted())
	assert.True(t, p.Remaining().IsZero())
	assert.Equal(t, 0, p.RemainingRecipients())
}

func TestAllocateNext_LastRecipientRoundsHalfUp(t *testing.T) {
	p := mustPool(t, "3.145", 1)
	amount, err := NewSeededEngine(1).AllocateNext(p)
	require.NoError(t, err)
	assert.Equal(t, "3.15", money.Format(amount))
}

func TestAllocateNext_Exhausted(t *testing.T) {
	e := NewSeededEngine(7)
	p := mustPool(t, "5", 1)
	_, err := e.AllocateNext(p)
	require.NoError(t, err)

	_, err = e.AllocateNext(p)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	_, err = e.AllocateNext(nil)
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestAllocateNext_ClampsToMinShare(t *testing.T) {
	e := NewEngine(zeroDraw)
	p := mustPool(t, "1.00", 3)

	shares, err := e.Split(p)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	assert.Equal(t, "0.10", money.Format(shares[0]))
	assert.Equal(t, "0.10", money.Format(shares[1]))
	assert.Equal(t, "0.80", money.Format(shares[2]))
}

func TestAllocateNext_OverdrawnFinalShare(t *testing.T) {
	// Clamping to the minimum share can take more than the pool holds.
	e := NewEngine(zeroDraw)
	p := mustPool(t, "0.15", 3)

	shares, err := e.Split(p)
	require.NoError(t, err)
	assert.Equal(t, "-0.05", money.Format(shares[2]))
	assert.True(t, money.Sum(shares).Equal(dec("0.15")))
}

func TestAllocateNext_HalfDrawIsAverage(t *testing.T) {
	e := NewEngine(halfDraw)
	p := mustPool(t, "100.00", 10)

	shares, err := e.Split(p)
	require.NoError(t, err)
	for i, s := range shares {
		assert.Equal(t, "10.00", money.Format(s), "share %d", i)
	}
}

func TestAllocateNext_TruncatesTowardZero(t *testing.T) {
	e := NewEngine(maxDraw)
	p := mustPool(t, "100.00", 10)

	amount, err := e.AllocateNext(p)
	require.NoError(t, err)
	assert.Equal(t, "19.99", money.Format(amount))
	assert.Equal(t, "80.01", money.Format(p.Remaining()))
	assert.Equal(t, 9, p.RemainingRecipients())
}

func TestSplit_Properties(t *testing.T) {
	cases := []struct {
		amount     string
		recipients int
	}{
		{"100.00", 10},
		{"1.00", 1},
		{"8.88", 8},
		{"200", 3},
		{"5000.50", 100},
	}
	for seed := uint64(0); seed < 50; seed++ {
		e := NewSeededEngine(seed)
		for _, c := range cases {
			p := mustPool(t, c.amount, c.recipients)
			shares, err := e.Split(p)
			require.NoError(t, err)

			// Termination
			require.Len(t, shares, c.recipients)
			assert.True(t, p.Exhausted())
			assert.True(t, p.Remaining().IsZero())

			// Conservation
			assert.True(t, money.Sum(shares).Equal(dec(c.amount)),
				"seed %d %s/%d: sum %s", seed, c.amount, c.recipients, money.Sum(shares))

			// Minimum allocation
			for i, s := range shares[:len(shares)-1] {
				assert.False(t, s.LessThan(money.MinShare), "seed %d share %d = %s", seed, i, s)
				assert.True(t, s.Equal(money.Truncate(s)))
			}
		}
	}
}

func TestSplit_SameSeedSameShares(t *testing.T) {
	a, err := NewSeededEngine(42).Split(mustPool(t, "66.66", 6))
	require.NoError(t, err)
	b, err := NewSeededEngine(42).Split(mustPool(t, "66.66", 6))
	require.NoError(t, err)
	require.Len(t, b, len(a))
	for i := range a {
		assert.True(t, a[i].Equal(b[i]), "share %d differs: %s vs %s", i, a[i], b[i])
	}
}

func TestNewEngine_UnseededEnginesDiverge(t *testing.T) {
	a, b := NewEngine(nil), NewEngine(nil)
	same := true
	for i := 0; i < 8; i++ {
		if a.rnd.Uint64() != b.rnd.Uint64() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestSplit_ExhaustedPool(t *testing.T) {
	e := NewSeededEngine(3)
	p := mustPool(t, "10", 2)
	_, err := e.Split(p)
	require.NoError(t, err)
	_, err = e.Split(p)
	assert.ErrorIs(t, err, ErrPoolExhausted)
}
