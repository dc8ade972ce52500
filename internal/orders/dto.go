package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	"github.com/aarogyam-agencies/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// DateFilter narrows the admin order listing to a rolling window.
type DateFilter string

const (
	DateFilterAll   DateFilter = "all"
	DateFilterToday DateFilter = "today"
	DateFilterWeek  DateFilter = "week"
	DateFilterMonth DateFilter = "month"
)

// ParseDateFilter converts raw query input into a DateFilter. Empty means all.
func ParseDateFilter(value string) (DateFilter, error) {
	switch DateFilter(strings.TrimSpace(strings.ToLower(value))) {
	case "", DateFilterAll:
		return DateFilterAll, nil
	case DateFilterToday:
		return DateFilterToday, nil
	case DateFilterWeek:
		return DateFilterWeek, nil
	case DateFilterMonth:
		return DateFilterMonth, nil
	default:
		return "", fmt.Errorf("invalid date filter %q", value)
	}
}

// CutoffAt returns the inclusive lower bound for the filter, nil for all.
// Weeks start on Sunday, matching how the storefront reports them.
func (d DateFilter) CutoffAt(now time.Time, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch d {
	case DateFilterToday:
		return &startOfDay
	case DateFilterWeek:
		cutoff := startOfDay.AddDate(0, 0, -int(local.Weekday()))
		return &cutoff
	case DateFilterMonth:
		cutoff := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return &cutoff
	default:
		return nil
	}
}

// ListFilters describe the inputs supported by the admin orders list.
type ListFilters struct {
	Date   DateFilter
	Status *enums.OrderStatus
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// DashboardStats aggregates the back-office overview numbers.
type DashboardStats struct {
	TotalOrders    int64           `json:"total_orders"`
	TodayOrders    int64           `json:"today_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	PendingCount   int64           `json:"pending_count"`
	DeliveredCount int64           `json:"delivered_count"`
	RecentOrders   []models.Order  `json:"recent_orders"`
}
