package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/middleware"
	"club-lotto-backend/internal/features/game/service"
)

type GameHandler struct {
	service service.GameService
}

func NewGameHandler(service service.GameService) *GameHandler {
	return &GameHandler{service: service}
}

func (h *GameHandler) RegisterRoutes(router *gin.RouterGroup) {
	games := router.Group("/games")
	{
		games.GET("", h.getHistory)
		games.GET("/active", h.getActive)
		games.GET("/:id/settlement", h.getSettlement)
	}

	admin := router.Group("/games")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/open", h.openRound)
		admin.POST("/:id/winning-numbers", h.closeRound)
	}
}

// @Summary Get the active round
// @Description Returns the round currently open for board purchases.
// @Tags games
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Game
// @Failure 404 {object} middleware.ErrorResponse "No active round"
// @Router /games/active [get]
func (h *GameHandler) getActive(c *gin.Context) {
	game, err := h.service.GetActiveGame(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// @Summary List closed rounds
// @Description Returns settled rounds, newest first.
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Game
// @Router /games [get]
func (h *GameHandler) getHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	games, err := h.service.GetHistory(c.Request.Context(), limit, offset)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// @Summary Open the next round
// @Description Creates the round for the week after the latest one and renews
// @Description repeat-active boards into it. Fails while a round is open.
// @Tags games
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Game
// @Failure 409 {object} middleware.ErrorResponse "A round is already active"
// @Router /games/open [post]
func (h *GameHandler) openRound(c *gin.Context) {
	game, err := h.service.OpenNextRound(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

type closeRoundRequest struct {
	WinningNumbers []int64 `json:"winning_numbers" binding:"required"`
}

// @Summary Close a round with its winning numbers
// @Description Stores the drawn numbers, marks every board won or lost and
// @Description returns the settlement summary. A second close is rejected.
// @Tags games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Game ID"
// @Param input body closeRoundRequest true "The three drawn numbers"
// @Success 200 {object} models.SettlementSummary
// @Failure 400 {object} middleware.ErrorResponse "Invalid winning numbers"
// @Failure 404 {object} middleware.ErrorResponse "Round not found"
// @Failure 409 {object} middleware.ErrorResponse "Round already closed"
// @Router /games/{id}/winning-numbers [post]
func (h *GameHandler) closeRound(c *gin.Context) {
	var input closeRoundRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("winning_numbers", err.Error()))
		return
	}

	summary, err := h.service.SetWinningNumbers(c.Request.Context(), c.Param("id"), input.WinningNumbers)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Get a round's settlement summary
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param id path string true "Game ID"
// @Success 200 {object} models.SettlementSummary
// @Failure 404 {object} middleware.ErrorResponse "Round not found"
// @Failure 409 {object} middleware.ErrorResponse "Round not settled yet"
// @Router /games/{id}/settlement [get]
func (h *GameHandler) getSettlement(c *gin.Context) {
	summary, err := h.service.GetSettlement(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
