package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "realagent/internal/errors"
	"realagent/internal/model"
	"realagent/internal/service"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// UserHandler bundles user CRUD handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest represents a user registration payload.
type CreateUserRequest struct {
	Name     string     `json:"name" validate:"required,min=2,max=100"`
	Email    string     `json:"email" validate:"required,email"`
	Role     model.Role `json:"role" validate:"required,oneof='Admin' 'Player' 'Agent' 'Club Manager'"`
	Password string     `json:"password" validate:"required,min=6,max=50"`
}

// UpdateUserRequest represents a partial update. Absent fields stay nil and
// leave the stored value unchanged.
type UpdateUserRequest struct {
	Name     *string     `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string     `json:"email" validate:"omitempty,email"`
	Role     *model.Role `json:"role" validate:"omitempty,oneof='Admin' 'Player' 'Agent' 'Club Manager'"`
	Password *string     `json:"password" validate:"omitempty,min=6,max=50"`
	IsActive *bool       `json:"is_active"`
}

// MessageResponse is a generic confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// CreateUser godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	user, err := h.svc.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users with pagination
// @Tags users
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Max rows to return (default 100)"
// @Success 200 {array} model.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	users, err := h.svc.ListUsers(c.Request().Context(), skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// ListUsersByRole godoc
// @Summary List users with a specific role
// @Tags users
// @Produce json
// @Param role path string true "Role name"
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/role/{role} [get]
func (h *UserHandler) ListUsersByRole(c echo.Context) error {
	role := model.Role(c.Param("role"))
	if !role.Valid() {
		return httpError(apperrors.ErrInvalidRole)
	}

	users, err := h.svc.ListUsersByRole(c.Request().Context(), role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// ListActiveUsers godoc
// @Summary List active users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Router /users/active [get]
func (h *UserHandler) ListActiveUsers(c echo.Context) error {
	users, err := h.svc.ListActiveUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser godoc
// @Summary Update user fields
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), uint(id), service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteUser(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: "User deleted successfully",
		Success: true,
	})
}
