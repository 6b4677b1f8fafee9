package models

// SummaryRow is one group of the aggregate report: the summed invoice area
// and additional-plot count for a category, plus the category's share of
// the total area across all returned groups. Computed fresh per request,
// never persisted.
type SummaryRow struct {
	Category        string  `json:"category"`
	Area            float64 `json:"area"`
	AdditionalCount float64 `json:"additionalCount"`
	Percent         float64 `json:"percent"`
}
