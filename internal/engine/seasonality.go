package engine

import "time"

// Seasonality is the hiring-market factor for a calendar month.
type Seasonality struct {
	Factor float64 `json:"factor"`
	Label  string  `json:"label"`
}

// SeasonalityAt returns the factor for the month of t.
func SeasonalityAt(t time.Time) Seasonality {
	switch t.Month() {
	case time.October, time.November, time.December:
		return Seasonality{Factor: 1.15, Label: "Q4 Holiday Season"}
	case time.January, time.February:
		return Seasonality{Factor: 1.05, Label: "Q1 New Year"}
	case time.March, time.April, time.May:
		return Seasonality{Factor: 0.95, Label: "Q2 Spring - Peak Hiring"}
	default:
		return Seasonality{Factor: 1.0, Label: "Q3 Summer"}
	}
}

// Points converts the factor to complexity points.
func (s Seasonality) Points(scale float64) int {
	return round((s.Factor - 1) * scale)
}
