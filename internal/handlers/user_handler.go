package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/okravets/openblog/backend/internal/models"
	"github.com/okravets/openblog/backend/internal/repositories"
)

// UserHandler handles HTTP requests related to users and their
// notification lists.
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.GetUsers)
	g.GET("/users/:id/notifications", h.GetNotifications)
	g.PATCH("/users/:userId/notifications/:notificationId", h.MarkNotificationRead)
}

// GetUsers lists all users
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// GetNotifications returns a user's notifications, newest first, with
// an unread count.
func (h *UserHandler) GetNotifications(c echo.Context) error {
	notifications, err := h.userRepository.GetNotifications(c.Request().Context(), c.Param("id"))
	if err != nil {
		return repoError(err, "User not found")
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	unread := lo.CountBy(notifications, func(n models.Notification) bool { return !n.Read })

	return c.JSON(http.StatusOK, echo.Map{
		"unread":        unread,
		"notifications": notifications,
	})
}

// MarkNotificationRead flips one notification's read flag
func (h *UserHandler) MarkNotificationRead(c echo.Context) error {
	err := h.userRepository.MarkNotificationRead(c.Request().Context(), c.Param("userId"), c.Param("notificationId"))
	if err != nil {
		return repoError(err, "User or notification not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}
