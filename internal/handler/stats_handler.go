package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"realagent/internal/model"
	"realagent/internal/service"
)

// StatsHandler serves aggregate user counts.
type StatsHandler struct {
	svc service.UserService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(svc service.UserService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// StatsResponse mirrors the user statistics payload.
type StatsResponse struct {
	TotalUsers    int64                `json:"total_users"`
	ActiveUsers   int64                `json:"active_users"`
	InactiveUsers int64                `json:"inactive_users"`
	ByRole        map[model.Role]int64 `json:"by_role"`
}

// GetUserStats godoc
// @Summary Get user statistics
// @Tags stats
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats/users [get]
func (h *StatsHandler) GetUserStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, StatsResponse{
		TotalUsers:    stats.Total,
		ActiveUsers:   stats.Active,
		InactiveUsers: stats.Inactive,
		ByRole:        stats.ByRole,
	})
}
