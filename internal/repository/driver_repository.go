package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetrelay/support-service/internal/domain"
)

// DriverRepository reads drivers recorded by the ingestion bot.
type DriverRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	List(ctx context.Context) ([]domain.Driver, error)
}

type driverRepository struct {
	pool *pgxpool.Pool
}

// NewDriverRepository instantiates repository.
func NewDriverRepository(pool *pgxpool.Pool) DriverRepository {
	return &driverRepository{pool: pool}
}

const driverColumns = `id, telegram_user_id, first_name, last_name, username, first_seen_at, last_seen_at, created_at, updated_at`

func (r *driverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := "SELECT " + driverColumns + " FROM drivers WHERE id=$1"
	var driver domain.Driver
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&driver.ID,
		&driver.TelegramUserID,
		&driver.FirstName,
		&driver.LastName,
		&driver.Username,
		&driver.FirstSeenAt,
		&driver.LastSeenAt,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepository) List(ctx context.Context) ([]domain.Driver, error) {
	query := "SELECT " + driverColumns + " FROM drivers ORDER BY first_name"
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrivers(rows)
}

func scanDrivers(rows pgx.Rows) ([]domain.Driver, error) {
	var result []domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(
			&driver.ID,
			&driver.TelegramUserID,
			&driver.FirstName,
			&driver.LastName,
			&driver.Username,
			&driver.FirstSeenAt,
			&driver.LastSeenAt,
			&driver.CreatedAt,
			&driver.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, driver)
	}
	return result, rows.Err()
}
