package models

import "time"

// Significance grades how notable a history record is.
type Significance string

const (
	SignificanceLow    Significance = "low"
	SignificanceMedium Significance = "medium"
	SignificanceHigh   Significance = "high"
)

// IsValid reports whether s is a known significance grade.
func (s Significance) IsValid() bool {
	switch s {
	case SignificanceLow, SignificanceMedium, SignificanceHigh:
		return true
	}
	return false
}

// HistoryRecord is one change event in an entity's append-only history.
type HistoryRecord struct {
	ID           string       `json:"id"`
	EntityID     string       `json:"entity_id"`
	Timestamp    time.Time    `json:"timestamp"`
	ChangeType   string       `json:"change_type"`
	Significance Significance `json:"significance"`
	Description  string       `json:"description"`
	ImpactScore  float64      `json:"impact_score"`
}

// TrendAnalysis is the fixed-shape trend summary for an entity's history.
type TrendAnalysis struct {
	Trend      string   `json:"trend"`
	Direction  string   `json:"direction,omitempty"`
	Velocity   string   `json:"velocity,omitempty"`
	KeyChanges []string `json:"key_changes,omitempty"`
}

// Milestone is a high-significance history record in summary form.
type Milestone struct {
	Date   time.Time `json:"date"`
	Event  string    `json:"event"`
	Impact float64   `json:"impact"`
}

// Evolution summarizes how an entity has changed over a timeframe.
type Evolution struct {
	EntityID      string          `json:"entity_id"`
	Timeframe     string          `json:"timeframe"`
	Changes       []HistoryRecord `json:"changes"`
	TrendAnalysis TrendAnalysis   `json:"trend_analysis"`
	KeyMilestones []Milestone     `json:"key_milestones"`
}
