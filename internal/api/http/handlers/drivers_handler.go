package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetrelay/support-service/internal/api/dto"
	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/repository"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// DriversHandler exposes the driver roster written by the ingestion bot.
// The roster is read-only here; drivers are created upstream when they
// first message, and their tickets are reachable via the ticket filter.
type DriversHandler struct {
	drivers repository.DriverRepository
}

// NewDriversHandler constructs handler.
func NewDriversHandler(drivers repository.DriverRepository) *DriversHandler {
	return &DriversHandler{drivers: drivers}
}

// ListDrivers GET /drivers.
func (h *DriversHandler) ListDrivers(c *fiber.Ctx) error {
	drivers, err := h.drivers.List(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		items = append(items, driverResponse(&driver))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetDriver GET /drivers/:id.
func (h *DriversHandler) GetDriver(c *fiber.Ctx) error {
	driver, err := h.drivers.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": driverResponse(driver)})
}

func driverResponse(driver *domain.Driver) dto.DriverResponse {
	return dto.DriverResponse{
		ID:             driver.ID,
		TelegramUserID: driver.TelegramUserID,
		FirstName:      driver.FirstName,
		LastName:       driver.LastName,
		Username:       driver.Username,
		FullName:       driver.FullName(),
		FirstSeenAt:    driver.FirstSeenAt,
		LastSeenAt:     driver.LastSeenAt,
	}
}
