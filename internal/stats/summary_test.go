package stats

import (
	"testing"

	"RedPacket/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("3.10"),
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("5.80"),
		decimal.RequireFromString("5.80"),
		decimal.RequireFromString("1.20"),
	}
	s, err := Summarize(amounts)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, "16.00", money.Format(s.Sum))
	assert.Equal(t, "0.10", money.Format(s.Min))
	assert.Equal(t, "5.80", money.Format(s.Max))
	assert.Equal(t, "3.20", money.Format(s.Mean))
	assert.Equal(t, 2, s.Luckiest)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	assert.Error(t, err)
}
