package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetrelay/support-service/internal/domain"
)

// ErrDuplicateScoreEntry signals that a ticket already has a score entry.
// The ledger allows at most one entry per ticket, enforced by a unique index.
var ErrDuplicateScoreEntry = errors.New("ticket already has a score entry")

// LeaderboardRow is one operator's aggregate for a scoring period.
type LeaderboardRow struct {
	OperatorID    string
	FullName      string
	TeamID        *string
	TeamName      *string
	TicketsScored int
	TotalScore    int
}

// TeamLeaderboardRow aggregates a team for a scoring period.
type TeamLeaderboardRow struct {
	TeamID        string
	TeamName      string
	MemberCount   int
	TicketsScored int
	TotalScore    int
}

// ScoreCategoryRepository reads the point-award taxonomy.
type ScoreCategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ScoreCategory, error)
	ListActive(ctx context.Context) ([]domain.ScoreCategory, error)
	Create(ctx context.Context, category *domain.ScoreCategory) error
	Update(ctx context.Context, category *domain.ScoreCategory) error
}

// ScoreEntryRepository appends to and aggregates the append-only ledger.
type ScoreEntryRepository interface {
	Append(ctx context.Context, entry *domain.ScoreEntry) error
	LeaderboardSince(ctx context.Context, since time.Time) ([]LeaderboardRow, error)
	TeamLeaderboardSince(ctx context.Context, since time.Time) ([]TeamLeaderboardRow, error)
}

type scoreCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewScoreCategoryRepository instantiates repository.
func NewScoreCategoryRepository(pool *pgxpool.Pool) ScoreCategoryRepository {
	return &scoreCategoryRepository{pool: pool}
}

func (r *scoreCategoryRepository) GetByID(ctx context.Context, id string) (*domain.ScoreCategory, error) {
	const query = `
        SELECT id, name, points, is_active, created_at, updated_at
        FROM score_categories WHERE id=$1`
	var category domain.ScoreCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Points,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *scoreCategoryRepository) ListActive(ctx context.Context) ([]domain.ScoreCategory, error) {
	const query = `
        SELECT id, name, points, is_active, created_at, updated_at
        FROM score_categories WHERE is_active ORDER BY points DESC, name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ScoreCategory
	for rows.Next() {
		var category domain.ScoreCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Points,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *scoreCategoryRepository) Create(ctx context.Context, category *domain.ScoreCategory) error {
	const query = `
        INSERT INTO score_categories (name, points, is_active)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Points,
		category.IsActive,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *scoreCategoryRepository) Update(ctx context.Context, category *domain.ScoreCategory) error {
	const query = `
        UPDATE score_categories
        SET name=$2, points=$3, is_active=$4, updated_at=NOW()
        WHERE id=$1
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.ID,
		category.Name,
		category.Points,
		category.IsActive,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
}

type scoreEntryRepository struct {
	pool *pgxpool.Pool
}

// NewScoreEntryRepository instantiates repository.
func NewScoreEntryRepository(pool *pgxpool.Pool) ScoreEntryRepository {
	return &scoreEntryRepository{pool: pool}
}

func (r *scoreEntryRepository) Append(ctx context.Context, entry *domain.ScoreEntry) error {
	const query = `
        INSERT INTO score_entries (operator_id, score_category_id, ticket_id, points, scored_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		entry.OperatorID,
		entry.ScoreCategoryID,
		entry.TicketID,
		entry.Points,
		entry.ScoredDate,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateScoreEntry
		}
		return err
	}
	return nil
}

func (r *scoreEntryRepository) LeaderboardSince(ctx context.Context, since time.Time) ([]LeaderboardRow, error) {
	const query = `
        SELECT e.operator_id, u.full_name, u.team_id, t.name,
               COUNT(*), COALESCE(SUM(e.points),0)
        FROM score_entries e
        JOIN users u ON u.id = e.operator_id
        LEFT JOIN teams t ON t.id = u.team_id
        WHERE e.scored_date >= $1
        GROUP BY e.operator_id, u.full_name, u.team_id, t.name
        ORDER BY COALESCE(SUM(e.points),0) DESC, u.full_name`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(
			&row.OperatorID,
			&row.FullName,
			&row.TeamID,
			&row.TeamName,
			&row.TicketsScored,
			&row.TotalScore,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *scoreEntryRepository) TeamLeaderboardSince(ctx context.Context, since time.Time) ([]TeamLeaderboardRow, error) {
	const query = `
        SELECT t.id, t.name, COUNT(DISTINCT u.id),
               COUNT(e.id), COALESCE(SUM(e.points),0)
        FROM teams t
        JOIN users u ON u.team_id = t.id
        LEFT JOIN score_entries e ON e.operator_id = u.id AND e.scored_date >= $1
        GROUP BY t.id, t.name
        ORDER BY COALESCE(SUM(e.points),0) DESC, t.name`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TeamLeaderboardRow
	for rows.Next() {
		var row TeamLeaderboardRow
		if err := rows.Scan(
			&row.TeamID,
			&row.TeamName,
			&row.MemberCount,
			&row.TicketsScored,
			&row.TotalScore,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
