package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/fleetrelay/support-service/internal/api/dto"
	"github.com/fleetrelay/support-service/internal/domain"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

type fakeDriverRoster struct {
	drivers []domain.Driver
}

func (r *fakeDriverRoster) GetByID(_ context.Context, id string) (*domain.Driver, error) {
	for i := range r.drivers {
		if r.drivers[i].ID == id {
			return &r.drivers[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDriverRoster) List(_ context.Context) ([]domain.Driver, error) {
	return r.drivers, nil
}

func newDriversTestApp(roster *fakeDriverRoster) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"error": fiber.Map{"code": domainErr.Code},
			})
		},
	})
	h := NewDriversHandler(roster)
	app.Get("/drivers", h.ListDrivers)
	app.Get("/drivers/:id", h.GetDriver)
	return app
}

func TestListDriversReturnsRoster(t *testing.T) {
	lastName := "Petrov"
	seen := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	app := newDriversTestApp(&fakeDriverRoster{drivers: []domain.Driver{
		{ID: "drv-1", TelegramUserID: 42, FirstName: "Marko", LastName: &lastName, FirstSeenAt: seen, LastSeenAt: seen},
		{ID: "drv-2", TelegramUserID: 77, FirstName: "Ana", FirstSeenAt: seen, LastSeenAt: seen},
	}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/drivers", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Data []dto.DriverResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("drivers = %d, want 2", len(body.Data))
	}
	if body.Data[0].FullName != "Marko Petrov" {
		t.Errorf("full name = %q, want %q", body.Data[0].FullName, "Marko Petrov")
	}
	if body.Data[1].LastName != nil {
		t.Errorf("last name = %v, want nil", body.Data[1].LastName)
	}
}

func TestGetDriverMissingIsNotFound(t *testing.T) {
	app := newDriversTestApp(&fakeDriverRoster{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/drivers/drv-gone", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
