package stats

import (
	"errors"

	"RedPacket/internal/money"

	"github.com/shopspring/decimal"
)

// Summary describes one red packet distribution.
type Summary struct {
	Count    int
	Sum      decimal.Decimal
	Min      decimal.Decimal
	Max      decimal.Decimal
	Mean     decimal.Decimal
	Luckiest int // index of the first largest share
}

// Summarize computes the distribution summary of amounts.
func Summarize(amounts []decimal.Decimal) (Summary, error) {
	if len(amounts) == 0 {
		return Summary{}, errors.New("no amounts to summarize")
	}

	s := Summary{
		Count: len(amounts),
		Min:   amounts[0],
		Max:   amounts[0],
	}
	for i, a := range amounts {
		if a.LessThan(s.Min) {
			s.Min = a
		}
		if a.GreaterThan(s.Max) {
			s.Max = a
			s.Luckiest = i
		}
	}
	s.Sum = money.Sum(amounts)
	s.Mean = money.Round(s.Sum.Div(decimal.NewFromInt(int64(s.Count))))
	return s, nil
}
