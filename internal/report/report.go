// Package report implements the aggregation layer behind the bot's reporting
// actions. Every function is pure: collections are fetched by the caller and
// reduced here, with no I/O. The ordering and tie-breaking rules are part of
// the contract: replies quote their output verbatim.
package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mercabot/mercabot-go/internal/backend"
)

// Truncation limits for ranked reports.
const (
	RecentOrdersLimit = 5
	TopCustomersLimit = 5
	TopProductsLimit  = 10
)

// UnknownCustomerName is the display fallback when a ranked customer id has
// no matching customer record. Missing referential integrity degrades to a
// placeholder, never an error.
const UnknownCustomerName = "Cliente desconocido"

// FilterByStatus keeps the orders whose status equals status, preserving
// input order.
func FilterByStatus(orders []backend.Order, status string) []backend.Order {
	return lo.Filter(orders, func(o backend.Order, _ int) bool {
		return o.Status == status
	})
}

// FilterByPaymentStatus keeps the orders whose payment status equals status,
// preserving input order.
func FilterByPaymentStatus(orders []backend.Order, status string) []backend.Order {
	return lo.Filter(orders, func(o backend.Order, _ int) bool {
		return o.PaymentStatus == status
	})
}

// RecentOrders returns the newest orders, at most RecentOrdersLimit of them.
// Recency is the raw CreatedAt string compared lexicographically, descending;
// that is exact for the backend's ISO timestamps, and an empty timestamp
// sorts as oldest. Orders with equal timestamps keep their input order.
func RecentOrders(orders []backend.Order) []backend.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b backend.Order) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
	if len(sorted) > RecentOrdersLimit {
		sorted = sorted[:RecentOrdersLimit]
	}
	return sorted
}

// TotalAmount sums the order totals. A missing total decoded to zero
// contributes nothing.
func TotalAmount(orders []backend.Order) float64 {
	return lo.SumBy(orders, func(o backend.Order) float64 {
		return o.TotalAmount
	})
}

// PaidRate returns the percentage of orders whose payment status is "paid".
// With no orders there is nothing to rate: ok is false and the rate is 0,
// never a division by zero.
func PaidRate(orders []backend.Order) (rate float64, ok bool) {
	if len(orders) == 0 {
		return 0, false
	}
	paid := len(FilterByPaymentStatus(orders, "paid"))
	return float64(paid) / float64(len(orders)) * 100, true
}

// AverageTicket returns the mean total of the paid orders only.
// ok is false when no order has been paid.
func AverageTicket(orders []backend.Order) (avg float64, ok bool) {
	paid := FilterByPaymentStatus(orders, "paid")
	if len(paid) == 0 {
		return 0, false
	}
	return TotalAmount(paid) / float64(len(paid)), true
}

// MostExpensiveProduct returns the product with the highest price.
// Ties resolve to the first occurrence. ok is false for an empty catalog.
func MostExpensiveProduct(products []backend.Product) (backend.Product, bool) {
	if len(products) == 0 {
		return backend.Product{}, false
	}
	return lo.MaxBy(products, func(a, b backend.Product) bool {
		return a.Price > b.Price
	}), true
}

// CustomerStat is one row of the top-customers ranking.
type CustomerStat struct {
	CustomerID string
	Name       string
	Total      float64
	Count      int
}

// TopCustomers ranks customers by total order amount, descending, truncated
// to TopCustomersLimit. Orders are walked once accumulating {total, count}
// per customer id; the sort is stable over first-appearance order, so equal
// totals rank in the order the customers first occur. Each row is enriched
// with the customer name joined by id; a missing customer degrades to
// UnknownCustomerName.
func TopCustomers(orders []backend.Order, customers []backend.Customer) []CustomerStat {
	totals := make(map[string]*CustomerStat)
	var keys []string

	for _, o := range orders {
		stat, seen := totals[o.CustomerID]
		if !seen {
			stat = &CustomerStat{CustomerID: o.CustomerID}
			totals[o.CustomerID] = stat
			keys = append(keys, o.CustomerID)
		}
		stat.Total += o.TotalAmount
		stat.Count++
	}

	ranked := make([]CustomerStat, 0, len(keys))
	for _, k := range keys {
		ranked = append(ranked, *totals[k])
	}
	slices.SortStableFunc(ranked, func(a, b CustomerStat) int {
		switch {
		case a.Total > b.Total:
			return -1
		case a.Total < b.Total:
			return 1
		default:
			return 0
		}
	})
	if len(ranked) > TopCustomersLimit {
		ranked = ranked[:TopCustomersLimit]
	}

	byID := lo.KeyBy(customers, func(c backend.Customer) string { return c.ID })
	for i := range ranked {
		if c, found := byID[ranked[i].CustomerID]; found {
			ranked[i].Name = c.Name
		} else {
			ranked[i].Name = UnknownCustomerName
		}
	}
	return ranked
}

// ProductStat is one row of the product sales ranking.
type ProductStat struct {
	Name     string
	Quantity int
	Revenue  float64
	Price    float64 // catalog price joined by name; zero when unmatched
}

// TopProducts ranks products by units sold, descending, truncated to
// TopProductsLimit. Line items are the source of truth and reference
// products by name, so name is the join key; an item whose name has no
// catalog match keeps its row with a zero price.
func TopProducts(orders []backend.Order, products []backend.Product) []ProductStat {
	ranked := productSales(orders)
	if len(ranked) > TopProductsLimit {
		ranked = ranked[:TopProductsLimit]
	}

	byName := lo.KeyBy(products, func(p backend.Product) string { return p.Name })
	for i := range ranked {
		if p, found := byName[ranked[i].Name]; found {
			ranked[i].Price = p.Price
		}
	}
	return ranked
}

// MostSoldProduct returns the single best-selling product by units.
// Ties resolve to the product that first appears in the orders.
// ok is false when no order has line items.
func MostSoldProduct(orders []backend.Order) (ProductStat, bool) {
	ranked := productSales(orders)
	if len(ranked) == 0 {
		return ProductStat{}, false
	}
	return ranked[0], true
}

// productSales accumulates {quantity, revenue} per product name over all
// line items, then ranks descending by quantity, stable over first-seen
// order.
func productSales(orders []backend.Order) []ProductStat {
	sales := make(map[string]*ProductStat)
	var keys []string

	for _, o := range orders {
		for _, item := range o.Items {
			stat, seen := sales[item.ProductName]
			if !seen {
				stat = &ProductStat{Name: item.ProductName}
				sales[item.ProductName] = stat
				keys = append(keys, item.ProductName)
			}
			stat.Quantity += item.Quantity
			stat.Revenue += float64(item.Quantity) * item.Price
		}
	}

	ranked := make([]ProductStat, 0, len(keys))
	for _, k := range keys {
		ranked = append(ranked, *sales[k])
	}
	slices.SortStableFunc(ranked, func(a, b ProductStat) int {
		return cmp.Compare(b.Quantity, a.Quantity)
	})
	return ranked
}

// Dashboard is the one-shot summary behind the dashboard action.
type Dashboard struct {
	OrderCount      int
	PaidCount       int
	TotalSales      float64
	PaidSales       float64
	PaidRate        float64
	PaidRateOK      bool
	PendingPayments int
}

// BuildDashboard computes the store summary over orders and payments.
func BuildDashboard(orders []backend.Order, payments []backend.Payment) Dashboard {
	paid := FilterByPaymentStatus(orders, "paid")
	rate, ok := PaidRate(orders)

	return Dashboard{
		OrderCount: len(orders),
		PaidCount:  len(paid),
		TotalSales: TotalAmount(orders),
		PaidSales:  TotalAmount(paid),
		PaidRate:   rate,
		PaidRateOK: ok,
		PendingPayments: lo.CountBy(payments, func(p backend.Payment) bool {
			return p.Status == "pending"
		}),
	}
}
