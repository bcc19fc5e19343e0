package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fleetrelay/support-service/internal/api/dto"
	"github.com/fleetrelay/support-service/internal/auth"
	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/repository"
	"github.com/fleetrelay/support-service/internal/service"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// SettingsHandler manages the keyed configuration endpoints.
type SettingsHandler struct {
	settings   *service.SettingsService
	categories repository.ScoreCategoryRepository
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService, categories repository.ScoreCategoryRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings, categories: categories}
}

// ListSettings GET /settings.
func (h *SettingsHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.settings.ListSettings(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SettingResponse, 0, len(settings))
	for _, setting := range settings {
		items = append(items, dto.SettingResponse{
			Key:       setting.Key,
			Value:     setting.Value,
			UpdatedAt: setting.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateSettings PUT /settings. Admin only.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.settings.UpdateSettings(c.UserContext(), principal.User, req.Settings); err != nil {
		return err
	}
	return h.ListSettings(c)
}

// ListScoreCategories GET /score-categories.
func (h *SettingsHandler) ListScoreCategories(c *fiber.Ctx) error {
	categories, err := h.categories.ListActive(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.ScoreCategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, scoreCategoryResponse(&category))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateScoreCategory POST /score-categories. Admin only.
func (h *SettingsHandler) CreateScoreCategory(c *fiber.Ctx) error {
	var req dto.CreateScoreCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if req.Points < 0 {
		return apperrors.NewValidationError("points must not be negative", nil)
	}
	category := &domain.ScoreCategory{Name: name, Points: req.Points, IsActive: true}
	if err := h.categories.Create(c.UserContext(), category); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": scoreCategoryResponse(category)})
}

// UpdateScoreCategory PATCH /score-categories/:id. Admin only.
func (h *SettingsHandler) UpdateScoreCategory(c *fiber.Ctx) error {
	var req dto.UpdateScoreCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return apperrors.NewValidationError("name must not be empty", nil)
		}
		category.Name = name
	}
	if req.Points != nil {
		if *req.Points < 0 {
			return apperrors.NewValidationError("points must not be negative", nil)
		}
		category.Points = *req.Points
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := h.categories.Update(c.UserContext(), category); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": scoreCategoryResponse(category)})
}

func scoreCategoryResponse(category *domain.ScoreCategory) dto.ScoreCategoryResponse {
	return dto.ScoreCategoryResponse{
		ID:       category.ID,
		Name:     category.Name,
		Points:   category.Points,
		IsActive: category.IsActive,
	}
}
