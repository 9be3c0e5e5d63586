package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"realagent/internal/config"
	"realagent/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	statsHandler *handler.StatsHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/api", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Welcome to Real Agent API",
			"version": "1.0.0",
			"endpoints": echo.Map{
				"users": "/users",
				"login": "/auth/login",
				"stats": "/stats/users",
			},
		})
	})

	if cfg.StaticDir != "" {
		e.Static("/static", cfg.StaticDir)
		e.File("/", cfg.StaticDir+"/index.html")
	}

	// User CRUD
	e.POST("/users", userHandler.CreateUser)
	e.GET("/users", userHandler.ListUsers)
	e.GET("/users/active", userHandler.ListActiveUsers)
	e.GET("/users/role/:role", userHandler.ListUsersByRole)
	e.GET("/users/:id", userHandler.GetUser)
	e.PUT("/users/:id", userHandler.UpdateUser)
	e.DELETE("/users/:id", userHandler.DeleteUser)

	// Authentication
	e.POST("/auth/login", authHandler.Login)

	// Statistics
	e.GET("/stats/users", statsHandler.GetUserStats)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
