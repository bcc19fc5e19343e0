package service

import (
	"context"
	"sort"
	"time"

	"github.com/fleetrelay/support-service/internal/repository"
	"github.com/fleetrelay/support-service/internal/sla"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// ReportingService computes the dashboard and leaderboard aggregates.
type ReportingService struct {
	tickets  repository.TicketRepository
	scores   repository.ScoreEntryRepository
	settings *SettingsService
	now      func() time.Time
}

// NewReportingService constructs the service. A nil clock defaults to
// time.Now.
func NewReportingService(tickets repository.TicketRepository, scores repository.ScoreEntryRepository, settings *SettingsService, now func() time.Time) *ReportingService {
	if now == nil {
		now = time.Now
	}
	return &ReportingService{tickets: tickets, scores: scores, settings: settings, now: now}
}

// DashboardStats is the headline figures plus 30-day volume.
type DashboardStats struct {
	Totals  repository.TicketStats
	PerDay  []repository.TicketsPerDay
	SLA     sla.Policy
	TrendTo time.Time
}

// OperatorCompliance is one operator's SLA compliance for the period.
// Percent is meaningless when Total is zero; clients display "N/A".
type OperatorCompliance struct {
	OperatorID string
	Compliant  int
	Total      int
	Percent    int
	HasData    bool
}

// Leaderboard bundles the current-month ranking views.
type Leaderboard struct {
	Operators        []RankedOperator
	Teams            []RankedTeam
	Compliance       map[string]OperatorCompliance
	ComplianceTarget int
}

// RankedOperator is one leaderboard row with its computed rank.
type RankedOperator struct {
	Rank int
	repository.LeaderboardRow
}

// RankedTeam is one team row with its computed rank.
type RankedTeam struct {
	Rank int
	repository.TeamLeaderboardRow
}

// Dashboard computes the main dashboard aggregates.
func (s *ReportingService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	now := s.now()
	since := now.AddDate(0, 0, -29)
	since = time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())
	perDay, err := s.tickets.PerDay(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	policy, err := s.settings.LoadSLAPolicy(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Totals:  *stats,
		PerDay:  perDay,
		SLA:     policy,
		TrendTo: now,
	}, nil
}

// CurrentMonthLeaderboard ranks operators and teams by score entries from
// the first of the current month, and computes per-operator SLA compliance
// over tickets resolved in the same window. Compliance measures raw
// resolution age; hold time is not subtracted here.
func (s *ReportingService) CurrentMonthLeaderboard(ctx context.Context) (*Leaderboard, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	rows, err := s.scores.LeaderboardSince(ctx, monthStart)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	teamRows, err := s.scores.TeamLeaderboardSince(ctx, monthStart)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	policy, err := s.settings.LoadSLAPolicy(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := s.tickets.ListResolvedSince(ctx, monthStart)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	tallies := make(map[string]*sla.ComplianceTally)
	for i := range resolved {
		ticket := &resolved[i]
		if ticket.AssignedOperatorID == nil {
			continue
		}
		operatorID := *ticket.AssignedOperatorID
		tally, ok := tallies[operatorID]
		if !ok {
			tally = &sla.ComplianceTally{}
			tallies[operatorID] = tally
		}
		tally.Add(ticket, policy)
	}

	compliance := make(map[string]OperatorCompliance, len(tallies))
	for operatorID, tally := range tallies {
		percent, ok := tally.Percent()
		compliance[operatorID] = OperatorCompliance{
			OperatorID: operatorID,
			Compliant:  tally.Compliant,
			Total:      tally.Total,
			Percent:    percent,
			HasData:    ok,
		}
	}

	return &Leaderboard{
		Operators:        rankOperators(rows),
		Teams:            rankTeams(teamRows),
		Compliance:       compliance,
		ComplianceTarget: policy.ComplianceTargetPercent,
	}, nil
}

func rankOperators(rows []repository.LeaderboardRow) []RankedOperator {
	sorted := make([]repository.LeaderboardRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})
	ranked := make([]RankedOperator, len(sorted))
	for i, row := range sorted {
		ranked[i] = RankedOperator{Rank: i + 1, LeaderboardRow: row}
	}
	return ranked
}

func rankTeams(rows []repository.TeamLeaderboardRow) []RankedTeam {
	sorted := make([]repository.TeamLeaderboardRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})
	ranked := make([]RankedTeam, len(sorted))
	for i, row := range sorted {
		ranked[i] = RankedTeam{Rank: i + 1, TeamLeaderboardRow: row}
	}
	return ranked
}
