package report

import (
	"github.com/samber/lo"

	"github.com/mercabot/mercabot-go/internal/backend"
)

// Severity classifies how urgent a low-stock situation is.
type Severity int

const (
	// SeverityNone means stock is comfortable and no alert is warranted.
	SeverityNone Severity = iota
	// SeverityModerate means stock is getting low (10-19 units).
	SeverityModerate
	// SeverityUrgent means stock is critically low (under 10 units).
	SeverityUrgent
)

// Severity thresholds in units of stock.
const (
	urgentBelow   = 10
	moderateBelow = 20
)

// ClassifyStock maps a stock count to its severity band.
func ClassifyStock(stock int) Severity {
	switch {
	case stock < urgentBelow:
		return SeverityUrgent
	case stock < moderateBelow:
		return SeverityModerate
	default:
		return SeverityNone
	}
}

// LowStock finds the active product with the least stock and its severity.
// Products are active unless their flag is explicitly false. Ties resolve to
// the first occurrence. found is false when no active product exists.
func LowStock(products []backend.Product) (lowest backend.Product, severity Severity, found bool) {
	active := lo.Filter(products, func(p backend.Product, _ int) bool {
		return p.IsActive()
	})
	if len(active) == 0 {
		return backend.Product{}, SeverityNone, false
	}

	lowest = lo.MinBy(active, func(a, b backend.Product) bool {
		return a.Stock < b.Stock
	})
	return lowest, ClassifyStock(lowest.Stock), true
}
