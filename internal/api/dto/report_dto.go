package dto

import "time"

// DashboardResponse is the headline stats block plus 30-day trend.
type DashboardResponse struct {
	Totals       DashboardTotals `json:"totals"`
	TicketsByDay []DayVolume     `json:"tickets_by_day"`
	SLA          SLAPolicyView   `json:"sla"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// DashboardTotals mirrors the all-time counters.
type DashboardTotals struct {
	Total                  int      `json:"total"`
	Resolved               int      `json:"resolved"`
	Dismissed              int      `json:"dismissed"`
	Unresolved             int      `json:"unresolved"`
	AvgPickupTimeMinutes   *float64 `json:"avg_pickup_time_minutes"`
	AvgHandlingTimeMinutes *float64 `json:"avg_handling_time_minutes"`
}

// DayVolume is one day on the volume trend chart.
type DayVolume struct {
	Date          string `json:"date"`
	TicketCount   int    `json:"ticket_count"`
	ResolvedCount int    `json:"resolved_count"`
}

// SLAPolicyView exposes the thresholds the dashboard renders against.
type SLAPolicyView struct {
	UrgentThresholdMinutes  int `json:"urgent_threshold_minutes"`
	NormalThresholdMinutes  int `json:"normal_threshold_minutes"`
	ComplianceTargetPercent int `json:"compliance_target_percent"`
}

// LeaderboardResponse covers the current scoring month.
type LeaderboardResponse struct {
	Operators        []LeaderboardOperator `json:"operators"`
	Teams            []LeaderboardTeam     `json:"teams"`
	ComplianceTarget int                   `json:"compliance_target"`
}

// LeaderboardOperator is one ranked operator row. SLAPercent is null when
// the operator resolved nothing in the period.
type LeaderboardOperator struct {
	Rank          int     `json:"rank"`
	OperatorID    string  `json:"operator_id"`
	FullName      string  `json:"full_name"`
	TeamName      *string `json:"team_name,omitempty"`
	TicketsScored int     `json:"tickets_scored"`
	TotalScore    int     `json:"total_score"`
	SLACompliant  int     `json:"sla_compliant"`
	SLATotal      int     `json:"sla_total"`
	SLAPercent    *int    `json:"sla_percent"`
}

// LeaderboardTeam is one ranked team row.
type LeaderboardTeam struct {
	Rank          int    `json:"rank"`
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	MemberCount   int    `json:"member_count"`
	TicketsScored int    `json:"tickets_scored"`
	TotalScore    int    `json:"total_score"`
}
