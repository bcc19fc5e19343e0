package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetrelay/support-service/internal/api/dto"
	"github.com/fleetrelay/support-service/internal/service"
)

// ReportsHandler serves the dashboard and leaderboard aggregates.
type ReportsHandler struct {
	reporting *service.ReportingService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reporting *service.ReportingService) *ReportsHandler {
	return &ReportsHandler{reporting: reporting}
}

// Dashboard GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.reporting.Dashboard(c.UserContext())
	if err != nil {
		return err
	}

	days := make([]dto.DayVolume, 0, len(stats.PerDay))
	for _, day := range stats.PerDay {
		days = append(days, dto.DayVolume{
			Date:          day.Date.Format("2006-01-02"),
			TicketCount:   day.TicketCount,
			ResolvedCount: day.ResolvedCount,
		})
	}

	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Totals: dto.DashboardTotals{
			Total:                  stats.Totals.Total,
			Resolved:               stats.Totals.Resolved,
			Dismissed:              stats.Totals.Dismissed,
			Unresolved:             stats.Totals.Unresolved,
			AvgPickupTimeMinutes:   stats.Totals.AvgPickupTimeMinutes,
			AvgHandlingTimeMinutes: stats.Totals.AvgHandlingTimeMinutes,
		},
		TicketsByDay: days,
		SLA: dto.SLAPolicyView{
			UrgentThresholdMinutes:  stats.SLA.UrgentThresholdMinutes,
			NormalThresholdMinutes:  stats.SLA.NormalThresholdMinutes,
			ComplianceTargetPercent: stats.SLA.ComplianceTargetPercent,
		},
		GeneratedAt: stats.TrendTo,
	}})
}

// Leaderboard GET /reports/leaderboard.
func (h *ReportsHandler) Leaderboard(c *fiber.Ctx) error {
	board, err := h.reporting.CurrentMonthLeaderboard(c.UserContext())
	if err != nil {
		return err
	}

	operators := make([]dto.LeaderboardOperator, 0, len(board.Operators))
	for _, row := range board.Operators {
		operator := dto.LeaderboardOperator{
			Rank:          row.Rank,
			OperatorID:    row.OperatorID,
			FullName:      row.FullName,
			TeamName:      row.TeamName,
			TicketsScored: row.TicketsScored,
			TotalScore:    row.TotalScore,
		}
		if compliance, ok := board.Compliance[row.OperatorID]; ok {
			operator.SLACompliant = compliance.Compliant
			operator.SLATotal = compliance.Total
			if compliance.HasData {
				percent := compliance.Percent
				operator.SLAPercent = &percent
			}
		}
		operators = append(operators, operator)
	}

	teams := make([]dto.LeaderboardTeam, 0, len(board.Teams))
	for _, row := range board.Teams {
		teams = append(teams, dto.LeaderboardTeam{
			Rank:          row.Rank,
			TeamID:        row.TeamID,
			TeamName:      row.TeamName,
			MemberCount:   row.MemberCount,
			TicketsScored: row.TicketsScored,
			TotalScore:    row.TotalScore,
		})
	}

	return c.JSON(fiber.Map{"data": dto.LeaderboardResponse{
		Operators:        operators,
		Teams:            teams,
		ComplianceTarget: board.ComplianceTarget,
	}})
}
