package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fleetrelay/support-service/internal/api/dto"
	"github.com/fleetrelay/support-service/internal/auth"
	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/service"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// AuthHandler manages registration, login, and account administration.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register POST /auth/register. New accounts await admin approval.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      userResponse(result.User),
	}})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	return c.JSON(fiber.Map{"data": userResponse(principal.User)})
}

// ListOperators GET /users/operators. Admin only.
func (h *AuthHandler) ListOperators(c *fiber.Ctx) error {
	operators, err := h.auth.ListOperators(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(operators))
	for i := range operators {
		items = append(items, userResponse(&operators[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateUserStatus PATCH /users/:id/status. Admin only.
func (h *AuthHandler) UpdateUserStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.SetUserStatus(c.UserContext(), principal.User, c.Params("id"), req.Status); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Status:    user.Status,
		TeamID:    user.TeamID,
		CreatedAt: user.CreatedAt,
	}
}
