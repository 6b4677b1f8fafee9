package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gridworks/plotregistry/api/internal/logger"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/gridworks/plotregistry/api/internal/query"
	"github.com/gridworks/plotregistry/api/internal/repository"
	"github.com/shopspring/decimal"
)

// Group columns the summary engine accepts. Anything else is rejected
// before a column name gets anywhere near SQL text.
const (
	GroupPlotUse    = query.ColPlotUseForInvoice
	GroupDepartment = query.ColDepartmentRemark
)

// unknownCategory substitutes for a null or empty group value.
const unknownCategory = "Unknown"

// ErrUnsupportedGroupColumn is returned for a group column outside the
// allow-list.
var ErrUnsupportedGroupColumn = errors.New("unsupported group column")

// SummaryService computes grouped percentage breakdowns over plot records.
type SummaryService interface {
	// Summarize groups the rows matching the optional node/sector filters
	// by groupColumn and returns per-category area sums, additional-plot
	// sums, and each category's percentage of the total area. Groups whose
	// area sum is not strictly positive are dropped. Results are sorted by
	// category.
	Summarize(ctx context.Context, groupColumn, node, sector string) ([]models.SummaryRow, error)
}

// summaryService is the concrete implementation of SummaryService.
type summaryService struct {
	repo repository.PlotRepository
	log  *logger.Logger
}

// NewSummaryService creates a new instance of SummaryService.
func NewSummaryService(repo repository.PlotRepository, log *logger.Logger) SummaryService {
	return &summaryService{
		repo: repo,
		log:  log,
	}
}

// bucket accumulates the decimal sums for one category.
type bucket struct {
	area       decimal.Decimal
	additional decimal.Decimal
}

func (s *summaryService) Summarize(ctx context.Context, groupColumn, node, sector string) ([]models.SummaryRow, error) {
	if groupColumn != GroupPlotUse && groupColumn != GroupDepartment {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGroupColumn, groupColumn)
	}

	source, err := s.repo.FetchSummarySource(ctx, groupColumn, node, sector)
	if err != nil {
		s.log.Error("Failed to fetch summary source", err, map[string]interface{}{
			"group":  groupColumn,
			"node":   node,
			"sector": sector,
		})
		return nil, fmt.Errorf("failed to fetch summary source: %w", err)
	}

	// Group by category, summing whatever numeric signal the text fields
	// carry. Values that strip down to nothing contribute nothing.
	buckets := make(map[string]*bucket)
	for _, src := range source {
		category := unknownCategory
		if src.Category != nil && *src.Category != "" {
			category = *src.Category
		}

		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		if area, ok := extractNumeric(src.Area); ok {
			b.area = b.area.Add(area)
		}
		if count, ok := extractNumeric(src.AdditionalCount); ok {
			b.additional = b.additional.Add(count)
		}
	}

	// Drop categories without a strictly positive area, then total the
	// survivors for the percentage base.
	categories := make([]string, 0, len(buckets))
	total := decimal.Zero
	for category, b := range buckets {
		if !b.area.IsPositive() {
			continue
		}
		categories = append(categories, category)
		total = total.Add(b.area)
	}
	sort.Strings(categories)

	hundred := decimal.NewFromInt(100)
	rows := make([]models.SummaryRow, 0, len(categories))
	for _, category := range categories {
		b := buckets[category]
		percent := decimal.Zero
		if total.IsPositive() {
			percent = b.area.Div(total).Mul(hundred).Round(2)
		}
		rows = append(rows, models.SummaryRow{
			Category:        category,
			Area:            b.area.InexactFloat64(),
			AdditionalCount: b.additional.InexactFloat64(),
			Percent:         percent.InexactFloat64(),
		})
	}

	s.log.Info("Summary computed", map[string]interface{}{
		"group":  groupColumn,
		"node":   node,
		"sector": sector,
		"groups": len(rows),
	})
	return rows, nil
}

// extractNumeric pulls the numeric signal out of a text-stored number by
// discarding every character that is not a digit or decimal point.
// Values that are null, strip down to nothing, or fail to parse carry no
// signal and are excluded from sums rather than coerced to zero.
func extractNumeric(raw *string) (decimal.Decimal, bool) {
	if raw == nil {
		return decimal.Zero, false
	}

	var sb strings.Builder
	for _, r := range *raw {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(sb.String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
