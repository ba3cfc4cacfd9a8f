package supplier

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// StockStatistics summarizes a supplier's inventory.
type StockStatistics struct {
	TotalProducts    int
	TotalStock       int
	ActiveProducts   int
	InactiveProducts int
	TotalStockValue  decimal.Decimal
	StockByCategory  map[string]int
}

// SalesStatistics summarizes a supplier's orders.
type SalesStatistics struct {
	TotalOrders       int
	TotalItemsSold    int
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	OrdersByStatus    map[string]int
	RevenueByMonth    map[string]decimal.Decimal
}

// MonthRevenue is the revenue of one month, keyed "YYYY-MM".
type MonthRevenue struct {
	Month   string
	Revenue decimal.Decimal
}

// Months returns RevenueByMonth in chronological order.
func (s SalesStatistics) Months() []MonthRevenue {
	out := make([]MonthRevenue, 0, len(s.RevenueByMonth))
	for m, v := range s.RevenueByMonth {
		out = append(out, MonthRevenue{Month: m, Revenue: v})
	}
	slices.SortFunc(out, func(a, b MonthRevenue) int { return strings.Compare(a.Month, b.Month) })
	return out
}

// Dashboard is the supplier console landing data.
type Dashboard struct {
	Stock StockStatistics
	Sales SalesStatistics
}

// Dashboards loads the dashboard of the supplier owned by userID.
type Dashboards interface {
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}
