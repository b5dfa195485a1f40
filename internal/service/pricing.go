package service

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-gin-shop/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// SumLines adds amount × quantity over lines. Lines without a usable
// price or quantity are skipped and logged; they never fail the sum.
func SumLines(lines []domain.PricedLine, log *zap.Logger) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if !l.Amount.Valid || l.Amount.Decimal.IsNegative() || l.Quantity < 1 {
			log.Warn("skipping unpriceable cart line",
				zap.String("product_id", l.ProductID),
				zap.String("product", l.ProductName),
				zap.Int("quantity", l.Quantity),
			)
			continue
		}
		total = total.Add(l.Amount.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// MinorUnits converts a major-unit amount to floor(amount × 100).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Floor().IntPart()
}
