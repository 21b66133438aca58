package trade

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

// SalesReport totals sales in the requested window and compares them
// against the immediately preceding window of the same length, so a
// dashboard card can show "this week vs last week" style figures.
func (s *SalesOrderService) SalesReport(ctx context.Context, tenantID uuid.UUID, req SalesReportRequest) (*SalesReportResponse, error) {
	start, err := time.ParseInLocation(reportDateLayout, req.StartDate, time.Local)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Start date must be formatted as YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(reportDateLayout, req.EndDate, time.Local)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot precede start date")
	}

	// Both bounds are inclusive calendar days.
	days := int(end.Sub(start).Hours()/24) + 1
	windowEnd := endOfDay(end)
	prevStart := start.AddDate(0, 0, -days)
	prevEnd := endOfDay(start.AddDate(0, 0, -1))

	current, err := s.orderRepo.SalesTotalsInRange(ctx, tenantID, start, windowEnd)
	if err != nil {
		return nil, err
	}
	previous, err := s.orderRepo.SalesTotalsInRange(ctx, tenantID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	frequency := frequencyLabel(days)
	return &SalesReportResponse{
		Title:        strings.ToUpper(frequency[:1]) + frequency[1:],
		Description:  "Last " + frequency,
		CurrentValue: current.Total,
		LastValue:    previous.Total,
		OrderCount:   current.Orders,
		IsCurrency:   true,
		Frequency:    frequency,
	}, nil
}

// DailyPaymentSummary breaks the current day's sales down by payment
// method. Methods without sales appear with zero totals so the client
// can render a stable set of rows.
func (s *SalesOrderService) DailyPaymentSummary(ctx context.Context, tenantID uuid.UUID) (*DailyPaymentSummaryResponse, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := endOfDay(dayStart)

	totals, err := s.orderRepo.SalesTotalsInRange(ctx, tenantID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	perMethod, err := s.orderRepo.PaymentTotalsInRange(ctx, tenantID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	methods := trade.AllPaymentMethods()
	summaries := make([]PaymentMethodSummary, 0, len(methods))
	for _, method := range methods {
		data := perMethod[method]
		percentage := decimal.Zero
		if totals.Total.IsPositive() {
			percentage = data.Total.Div(totals.Total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		summaries = append(summaries, PaymentMethodSummary{
			Method:           string(method),
			TotalAmount:      data.Total,
			TransactionCount: data.Count,
			Percentage:       percentage,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalAmount.GreaterThan(summaries[j].TotalAmount)
	})

	return &DailyPaymentSummaryResponse{
		Date:            dayStart.Format(reportDateLayout),
		TotalDailySales: totals.Total,
		TotalOrders:     totals.Orders,
		PaymentMethods:  summaries,
	}, nil
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func frequencyLabel(days int) string {
	switch {
	case days <= 1:
		return "day"
	case days <= 7:
		return "week"
	case days <= 31:
		return "month"
	case days <= 365:
		return "year"
	default:
		return "period"
	}
}
