package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/middleware"
	"club-lotto-backend/internal/features/player/service"
)

type PlayerHandler struct {
	service service.PlayerService
}

func NewPlayerHandler(service service.PlayerService) *PlayerHandler {
	return &PlayerHandler{service: service}
}

func (h *PlayerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/players/me", h.getMe)

	admin := router.Group("/players")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("", h.create)
		admin.GET("", h.list)
		admin.GET("/:id", h.get)
		admin.PUT("/:id", h.update)
		admin.DELETE("/:id", h.deactivate)
	}
}

type playerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
}

func (r playerRequest) toInput() service.PlayerInput {
	return service.PlayerInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
	}
}

// @Summary Get the calling player's profile
// @Tags players
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Player
// @Failure 404 {object} middleware.ErrorResponse "Player not found"
// @Router /players/me [get]
func (h *PlayerHandler) getMe(c *gin.Context) {
	playerID := middleware.GetPlayerID(c)
	if playerID == "" {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("missing player identity"))
		return
	}

	player, err := h.service.Get(c.Request.Context(), playerID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// @Summary Register a club member
// @Tags players
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body playerRequest true "Profile"
// @Success 201 {object} models.Player
// @Failure 400 {object} middleware.ErrorResponse "Invalid profile"
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /players [post]
func (h *PlayerHandler) create(c *gin.Context) {
	var input playerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	player, err := h.service.Create(c.Request.Context(), input.toInput())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, player)
}

// @Summary List club members
// @Tags players
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Player
// @Router /players [get]
func (h *PlayerHandler) list(c *gin.Context) {
	players, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

// @Summary Get a club member
// @Tags players
// @Produce json
// @Security BearerAuth
// @Param id path string true "Player ID"
// @Success 200 {object} models.Player
// @Failure 404 {object} middleware.ErrorResponse "Player not found"
// @Router /players/{id} [get]
func (h *PlayerHandler) get(c *gin.Context) {
	player, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// @Summary Update a club member's profile
// @Tags players
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Player ID"
// @Param input body playerRequest true "Profile"
// @Success 200 {object} models.Player
// @Failure 404 {object} middleware.ErrorResponse "Player not found"
// @Router /players/{id} [put]
func (h *PlayerHandler) update(c *gin.Context) {
	var input playerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	player, err := h.service.Update(c.Request.Context(), c.Param("id"), input.toInput())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// @Summary Deactivate a club member
// @Description Soft delete. History stays; new boards and deposits are refused.
// @Tags players
// @Produce json
// @Security BearerAuth
// @Param id path string true "Player ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse "Player not found"
// @Router /players/{id} [delete]
func (h *PlayerHandler) deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
