package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate_DropsTowardZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.239", "1.23"},
		{"1.231", "1.23"},
		{"0.109", "0.10"},
		{"-1.239", "-1.23"},
		{"5", "5.00"},
	}
	for _, tt := range tests {
		got := Truncate(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, Format(got), "truncate %s", tt.in)
	}
}

func TestRound_HalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.235", "1.24"},
		{"1.234", "1.23"},
		{"0.005", "0.01"},
		{"99.995", "100.00"},
		{"-0.005", "0.00"},
		{"-1.235", "-1.23"},
		{"-1.236", "-1.24"},
	}
	for _, tt := range tests {
		got := Round(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, Format(got), "round %s", tt.in)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("12.5")
	require.NoError(t, err)
	assert.Equal(t, "12.50", Format(d))

	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestSum(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("99.70"),
	}
	assert.True(t, Sum(amounts).Equal(decimal.NewFromInt(100)))
	assert.True(t, Sum(nil).IsZero())
	assert.Equal(t, "0.10", Format(MinShare))
}
