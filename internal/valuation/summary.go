package valuation

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
)

// ErrInvalidHolding indicates a malformed balance, or a negative balance or
// price, in the input data.
var ErrInvalidHolding = errors.New("invalid holding data")

var hundred = decimal.NewFromInt(100)

// valued is a holding with its recomputed USD contribution.
type valued struct {
	usdValue  decimal.Decimal
	change24h decimal.Decimal
}

// Summarize computes portfolio-level aggregates from a list of holdings.
//
// Each holding's contribution is recomputed as balance × price; a supplied
// USDValue is never trusted, so the total is always consistent with the
// balance/price pair. A zero or undefined previous-day base (empty input, or
// a holding whose 24h change is exactly -100) yields zero change figures and
// DegenerateBase set, not an error.
func Summarize(holdings []domain.Holding) (domain.PortfolioSummary, error) {
	values := make([]valued, 0, len(holdings))
	for _, h := range holdings {
		balance, err := domain.ParseAmount(h.Balance)
		if err != nil {
			return domain.PortfolioSummary{}, fmt.Errorf("%w: holding %s: %v", ErrInvalidHolding, h.Mint, err)
		}
		if balance.IsNegative() {
			return domain.PortfolioSummary{}, fmt.Errorf("%w: holding %s: negative balance %s", ErrInvalidHolding, h.Mint, h.Balance)
		}
		if h.Price.IsNegative() {
			return domain.PortfolioSummary{}, fmt.Errorf("%w: holding %s: negative price %s", ErrInvalidHolding, h.Mint, h.Price)
		}
		values = append(values, valued{
			usdValue:  balance.Mul(h.Price),
			change24h: h.Change24h,
		})
	}

	totalValue := lo.Reduce(values, func(acc decimal.Decimal, v valued, _ int) decimal.Decimal {
		return acc.Add(v.usdValue)
	}, decimal.Zero)

	previousDayValue, ok := previousDayBase(values)
	if !ok || previousDayValue.IsZero() {
		if len(holdings) > 0 {
			slog.Warn("degenerate previous-day base, reporting zero change",
				"holdings", len(holdings), "totalValue", totalValue)
		}
		return domain.PortfolioSummary{
			TotalValue:       totalValue,
			PreviousDayValue: decimal.Zero,
			DailyChangeAbs:   decimal.Zero,
			DailyChangePct:   decimal.Zero,
			DegenerateBase:   true,
		}, nil
	}

	changeAbs := totalValue.Sub(previousDayValue)
	changePct := changeAbs.Div(previousDayValue).Mul(hundred)

	return domain.PortfolioSummary{
		TotalValue:       totalValue,
		PreviousDayValue: previousDayValue,
		DailyChangeAbs:   changeAbs,
		DailyChangePct:   changePct,
	}, nil
}

// previousDayBase sums usdValue / (1 + change24h/100) over all holdings.
// Returns ok=false when any holding has change24h == -100, which would make
// its previous-day contribution a division by zero.
func previousDayBase(values []valued) (decimal.Decimal, bool) {
	total := decimal.Zero
	for _, v := range values {
		divisor := decimal.NewFromInt(1).Add(v.change24h.Div(hundred))
		if divisor.IsZero() {
			return decimal.Zero, false
		}
		total = total.Add(v.usdValue.Div(divisor))
	}
	return total, true
}
