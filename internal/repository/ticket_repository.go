package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetrelay/support-service/internal/domain"
)

// ErrTicketConflict signals that a concurrent writer won a lifecycle race:
// the conditional update matched zero rows because the ticket left the state
// the caller validated against.
var ErrTicketConflict = errors.New("ticket was updated by another operator")

// TicketFilter captures dashboard search parameters.
type TicketFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	AssigneeID  *string
	DriverID    *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TransitionGuard restricts a lifecycle write to tickets still in the state
// the engine validated against. At most one concurrent transition matches.
type TransitionGuard struct {
	// Statuses the ticket must still be in for the write to apply.
	Statuses []domain.TicketStatus
	// RequireUnassigned demands assigned_operator_id IS NULL (claim).
	RequireUnassigned bool
	// RequireAssignee demands the current assignee still be this operator
	// (release).
	RequireAssignee *string
}

// TicketStats aggregates counts and timing averages for the dashboard.
type TicketStats struct {
	Total                  int
	Resolved               int
	Dismissed              int
	Unresolved             int
	AvgPickupTimeMinutes   *float64
	AvgHandlingTimeMinutes *float64
}

// TicketsPerDay is one day's ticket volume.
type TicketsPerDay struct {
	Date          time.Time
	TicketCount   int
	ResolvedCount int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByDisplayID(ctx context.Context, displayID string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListResolvedSince(ctx context.Context, since time.Time) ([]domain.Ticket, error)
	ApplyTransition(ctx context.Context, ticket *domain.Ticket, guard TransitionGuard) error
	Stats(ctx context.Context) (*TicketStats, error)
	PerDay(ctx context.Context, since time.Time) ([]TicketsPerDay, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, display_id, driver_id, source, source_name, summary, category, location, urgency,
               status, priority, assigned_operator_id, claimed_at, resolved_at, dismissed_at,
               held_at, held_by_id, hold_note, total_hold_seconds, score_category_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (driver_id, source, source_name, summary, category, location, urgency,
                             status, priority, assigned_operator_id, claimed_at, total_hold_seconds)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, display_id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.DriverID,
		ticket.Source,
		ticket.SourceName,
		ticket.Summary,
		ticket.Category,
		ticket.Location,
		ticket.Urgency,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedOperatorID,
		ticket.ClaimedAt,
		ticket.TotalHoldSeconds,
	).Scan(&ticket.ID, &ticket.DisplayID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE id=$1", ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByDisplayID(ctx context.Context, displayID string) (*domain.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE display_id=$1", ticketColumns)
	return r.fetchSingle(ctx, query, displayID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	return scanTicket(row)
}

// ApplyTransition persists a lifecycle transition with a compare-and-swap
// guard. Zero rows affected means another writer got there first; the caller
// surfaces that as ErrTicketConflict instead of overwriting their work.
func (r *ticketRepository) ApplyTransition(ctx context.Context, ticket *domain.Ticket, guard TransitionGuard) error {
	clauses := []string{"id=$1"}
	args := []any{ticket.ID}

	if len(guard.Statuses) > 0 {
		placeholders := make([]string, len(guard.Statuses))
		for i, status := range guard.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if guard.RequireUnassigned {
		clauses = append(clauses, "assigned_operator_id IS NULL")
	}
	if guard.RequireAssignee != nil {
		args = append(args, *guard.RequireAssignee)
		clauses = append(clauses, fmt.Sprintf("assigned_operator_id=$%d", len(args)))
	}

	set := []string{}
	setArg := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	setArg("status", ticket.Status)
	setArg("assigned_operator_id", ticket.AssignedOperatorID)
	setArg("claimed_at", ticket.ClaimedAt)
	setArg("resolved_at", ticket.ResolvedAt)
	setArg("dismissed_at", ticket.DismissedAt)
	setArg("held_at", ticket.HeldAt)
	setArg("held_by_id", ticket.HeldByID)
	setArg("hold_note", ticket.HoldNote)
	setArg("total_hold_seconds", ticket.TotalHoldSeconds)
	setArg("score_category_id", ticket.ScoreCategoryID)
	set = append(set, "updated_at=NOW()")

	query := fmt.Sprintf("UPDATE tickets SET %s WHERE %s",
		strings.Join(set, ", "), strings.Join(clauses, " AND "))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTicketConflict
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assigned_operator_id=$%d", len(args)))
	}
	if filter.DriverID != nil {
		args = append(args, *filter.DriverID)
		clauses = append(clauses, fmt.Sprintf("driver_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(display_id) LIKE %s OR LOWER(COALESCE(summary,'')) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListResolvedSince(ctx context.Context, since time.Time) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE status='resolved' AND resolved_at >= $1`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Stats(ctx context.Context) (*TicketStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='resolved'),
               COUNT(*) FILTER (WHERE status='dismissed'),
               COUNT(*) FILTER (WHERE status IN ('open','in_progress','on_hold')),
               AVG(EXTRACT(EPOCH FROM (claimed_at - created_at))/60) FILTER (WHERE claimed_at IS NOT NULL),
               AVG(EXTRACT(EPOCH FROM (resolved_at - claimed_at))/60) FILTER (WHERE resolved_at IS NOT NULL AND claimed_at IS NOT NULL)
        FROM tickets`
	var stats TicketStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Resolved,
		&stats.Dismissed,
		&stats.Unresolved,
		&stats.AvgPickupTimeMinutes,
		&stats.AvgHandlingTimeMinutes,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *ticketRepository) PerDay(ctx context.Context, since time.Time) ([]TicketsPerDay, error) {
	const query = `
        SELECT DATE(created_at) AS day,
               COUNT(*),
               COUNT(*) FILTER (WHERE status='resolved')
        FROM tickets
        WHERE created_at >= $1
        GROUP BY day
        ORDER BY day`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TicketsPerDay
	for rows.Next() {
		var day TicketsPerDay
		if err := rows.Scan(&day.Date, &day.TicketCount, &day.ResolvedCount); err != nil {
			return nil, err
		}
		result = append(result, day)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.DisplayID,
		&ticket.DriverID,
		&ticket.Source,
		&ticket.SourceName,
		&ticket.Summary,
		&ticket.Category,
		&ticket.Location,
		&ticket.Urgency,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssignedOperatorID,
		&ticket.ClaimedAt,
		&ticket.ResolvedAt,
		&ticket.DismissedAt,
		&ticket.HeldAt,
		&ticket.HeldByID,
		&ticket.HoldNote,
		&ticket.TotalHoldSeconds,
		&ticket.ScoreCategoryID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
