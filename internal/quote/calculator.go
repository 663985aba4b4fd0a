package quote

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
)

// Validation failures returned by the calculator.
var (
	ErrUnknownToken         = errors.New("unknown token")
	ErrIdenticalTokens      = errors.New("identical source and destination tokens")
	ErrInvalidAmount        = errors.New("invalid input amount")
	ErrInvalidSlippage      = errors.New("slippage out of range")
	ErrZeroDestinationPrice = errors.New("destination token has zero price")
)

// Calculator computes swap quotes from a pricing table. It is pure: no I/O,
// no internal state beyond the configured fee rate.
type Calculator struct {
	feeRate decimal.Decimal
}

// NewCalculator creates a Calculator with the given fee rate. Rates outside
// [0,1] fall back to the default.
func NewCalculator(feeRate decimal.Decimal) *Calculator {
	if feeRate.IsNegative() || feeRate.GreaterThan(decimal.NewFromInt(1)) {
		feeRate = domain.DefaultFeeRate
	}
	return &Calculator{feeRate: feeRate}
}

// ValidateRequest checks the parts of a trade request that do not depend on
// a pricing table: positive amount, distinct mints, slippage within
// [0, MaxSlippageBps].
func ValidateRequest(req domain.TradeRequest) error {
	if req.InputAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, req.InputAmount)
	}
	if req.SourceMint == req.DestinationMint {
		return fmt.Errorf("%w: %s", ErrIdenticalTokens, req.SourceMint)
	}
	if req.SlippageBps < 0 || req.SlippageBps > domain.MaxSlippageBps {
		return fmt.Errorf("%w: %d bps", ErrInvalidSlippage, req.SlippageBps)
	}
	return nil
}

// Calculate computes a quote for the requested trade out of the supplied
// pricing table. SlippageBps is validated and echoed on the quote; it does
// not reduce the net output amount.
func (c *Calculator) Calculate(pricing map[string]domain.PricingEntry, req domain.TradeRequest) (domain.Quote, error) {
	if err := ValidateRequest(req); err != nil {
		return domain.Quote{}, err
	}

	source, ok := pricing[req.SourceMint]
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: %s", ErrUnknownToken, req.SourceMint)
	}
	destination, ok := pricing[req.DestinationMint]
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: %s", ErrUnknownToken, req.DestinationMint)
	}
	if destination.Price.IsZero() {
		return domain.Quote{}, fmt.Errorf("%w: %s", ErrZeroDestinationPrice, req.DestinationMint)
	}

	rate := source.Price.Div(destination.Price)
	gross := req.InputAmount.Mul(rate)
	fee := gross.Mul(c.feeRate)

	return domain.Quote{
		SourceMint:        req.SourceMint,
		DestinationMint:   req.DestinationMint,
		InputAmount:       req.InputAmount,
		Rate:              rate,
		GrossOutputAmount: gross,
		Fee:               fee,
		NetOutputAmount:   gross.Sub(fee),
		FeeRate:           c.feeRate,
		SlippageBps:       req.SlippageBps,
		Source:            "local",
	}, nil
}
