package model

import "time"

// UtilizationRow is one reactor's share of a utilization report. Minutes are
// kept at full precision; the human-readable fields are display renderings of
// the same numbers.
type UtilizationRow struct {
	ReactorID         string  `json:"reactor_id"`
	ReactorName       string  `json:"reactor_name"`
	TransactionCount  int     `json:"transaction_count"`
	ProductionMinutes float64 `json:"production_minutes"`
	WashingMinutes    float64 `json:"washing_minutes"`
	DelayMinutes      float64 `json:"delay_minutes"`
	IdleMinutes       float64 `json:"idle_minutes"`
	ProductionTime    string  `json:"production_time"`
	WashingTime       string  `json:"washing_time"`
	DelayTime         string  `json:"delay_time"`
	IdleTime          string  `json:"idle_time"`
	UsagePercent      float64 `json:"usage_percent"`
	IdealUsagePercent float64 `json:"ideal_usage_percent"`
	Difference        float64 `json:"difference"`
}

// UtilizationSummary is the output of one analytics invocation: one row per
// reactor plus an aggregate. The aggregate percentages are the arithmetic
// mean of the per-reactor percentages, not a recomputation from the summed
// minutes; the summed minutes are carried so callers can re-derive a
// range-weighted figure if they need one.
type UtilizationSummary struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	RangeMinutes float64          `json:"range_minutes"`
	Rows         []UtilizationRow `json:"rows"`
	Aggregate    UtilizationRow   `json:"aggregate"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
