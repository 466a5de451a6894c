package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/ContractorHub/app/models"
)

// Aggregate is a named, read-only query whose grouping, filter and result
// coercion are fixed by its type instead of living in handler code.
type Aggregate[R any] interface {
	Name() string
	Run(ctx context.Context, db *gorm.DB) (R, error)
}

// RunAggregate executes a named aggregate and classifies its failure.
func RunAggregate[R any](ctx context.Context, db *gorm.DB, a Aggregate[R]) (R, error) {
	out, err := a.Run(ctx, db.WithContext(ctx))
	if err != nil {
		var zero R
		return zero, fmt.Errorf("aggregate %s: %w", a.Name(), classify(err))
	}
	return out, nil
}

// CommissionTotals sums an affiliate's commissions grouped by is_paid.
type CommissionTotals struct {
	AffiliateID string
}

// CommissionTotalsResult is the typed result of CommissionTotals.
type CommissionTotalsResult struct {
	Paid   float64 `json:"paid"`
	Unpaid float64 `json:"unpaid"`
}

func (CommissionTotals) Name() string { return "commission_totals" }

func (q CommissionTotals) Run(ctx context.Context, db *gorm.DB) (CommissionTotalsResult, error) {
	var out CommissionTotalsResult
	rows, err := db.Raw(
		"SELECT is_paid, COALESCE(SUM(amount), 0) AS total FROM commissions WHERE affiliate_id = ? GROUP BY is_paid",
		q.AffiliateID,
	).Rows()
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		var paidRaw, totalRaw any
		if err := rows.Scan(&paidRaw, &totalRaw); err != nil {
			return out, err
		}
		total, err := toFloat(totalRaw)
		if err != nil {
			return out, err
		}
		if toBool(paidRaw) {
			out.Paid += total
		} else {
			out.Unpaid += total
		}
	}
	return out, rows.Err()
}

// RatingSummary reports review count and mean rating for a contractor.
type RatingSummary struct {
	ContractorID string
}

type RatingSummaryResult struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

func (RatingSummary) Name() string { return "rating_summary" }

func (q RatingSummary) Run(ctx context.Context, db *gorm.DB) (RatingSummaryResult, error) {
	var out RatingSummaryResult
	var countRaw, avgRaw any
	row := db.Raw(
		"SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE contractor_id = ?",
		q.ContractorID,
	).Row()
	if err := row.Scan(&countRaw, &avgRaw); err != nil {
		return out, err
	}
	count, err := toFloat(countRaw)
	if err != nil {
		return out, err
	}
	avg, err := toFloat(avgRaw)
	if err != nil {
		return out, err
	}
	out.Count = int64(count)
	out.Average = avg
	return out, nil
}

// PlatformStats collects the admin dashboard counters.
type PlatformStats struct{}

type PlatformStatsResult struct {
	UsersByRole         map[string]int64 `json:"usersByRole"`
	OpenLeads           int64            `json:"openLeads"`
	ActiveSubscriptions int64            `json:"activeSubscriptions"`
	PausedContractors   int64            `json:"pausedContractors"`
}

func (PlatformStats) Name() string { return "platform_stats" }

func (PlatformStats) Run(ctx context.Context, db *gorm.DB) (PlatformStatsResult, error) {
	out := PlatformStatsResult{UsersByRole: map[string]int64{}}

	type roleCount struct {
		Role  string
		Total int64
	}
	var roles []roleCount
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS total").Group("role").Scan(&roles).Error; err != nil {
		return out, err
	}
	for _, rc := range roles {
		out.UsersByRole[rc.Role] = rc.Total
	}

	if err := db.Model(&models.Lead{}).Where("status = ?", models.LeadStatusOpen).Count(&out.OpenLeads).Error; err != nil {
		return out, err
	}
	if err := db.Model(&models.ContractorSubscription{}).Where("is_active = ?", true).Count(&out.ActiveSubscriptions).Error; err != nil {
		return out, err
	}
	if err := db.Model(&models.ContractorBilling{}).Where("is_paused = ?", true).Count(&out.PausedContractors).Error; err != nil {
		return out, err
	}
	return out, nil
}

// toFloat coerces driver values into float64. MySQL returns DECIMAL sums as
// byte strings, SQLite as float64 or int64.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case []byte:
		return parseNumber(string(n))
	case string:
		return parseNumber(n)
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case []byte:
		s := string(b)
		return s == "1" || strings.EqualFold(s, "true")
	case string:
		return b == "1" || strings.EqualFold(b, "true")
	default:
		return false
	}
}
