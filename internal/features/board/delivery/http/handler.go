package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/middleware"
	"club-lotto-backend/internal/features/board/service"
)

type BoardHandler struct {
	service service.BoardService
}

func NewBoardHandler(service service.BoardService) *BoardHandler {
	return &BoardHandler{service: service}
}

func (h *BoardHandler) RegisterRoutes(router *gin.RouterGroup) {
	boards := router.Group("/boards")
	{
		boards.POST("", h.create)
		boards.GET("/me", h.getMine)
	}

	admin := router.Group("/games")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/:id/boards", h.listForGame)
	}
}

type createBoardRequest struct {
	GameID      string  `json:"game_id" binding:"required"`
	Numbers     []int64 `json:"numbers" binding:"required"`
	RepeatWeeks int     `json:"repeat_weeks"`
}

// @Summary Buy a board in the active round
// @Description Creates a board for the calling player. The price is derived
// @Description from the number count and charged against the derived balance.
// @Tags boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createBoardRequest true "Board selection"
// @Success 201 {object} models.Board
// @Failure 400 {object} middleware.ErrorResponse "Invalid number selection"
// @Failure 409 {object} middleware.ErrorResponse "Round not open for purchases"
// @Failure 422 {object} middleware.ErrorResponse "Insufficient balance"
// @Router /boards [post]
func (h *BoardHandler) create(c *gin.Context) {
	var input createBoardRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	playerID := middleware.GetPlayerID(c)
	if playerID == "" {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("missing player identity"))
		return
	}

	board, err := h.service.CreateBoard(c.Request.Context(), service.CreateBoardInput{
		PlayerID:    playerID,
		GameID:      input.GameID,
		Numbers:     input.Numbers,
		RepeatWeeks: input.RepeatWeeks,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// @Summary List the calling player's boards
// @Tags boards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Board
// @Router /boards/me [get]
func (h *BoardHandler) getMine(c *gin.Context) {
	playerID := middleware.GetPlayerID(c)
	if playerID == "" {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("missing player identity"))
		return
	}

	boards, err := h.service.GetBoardsForPlayer(c.Request.Context(), playerID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// @Summary List every board in a round
// @Tags boards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Game ID"
// @Success 200 {array} models.Board
// @Router /games/{id}/boards [get]
func (h *BoardHandler) listForGame(c *gin.Context) {
	boards, err := h.service.GetBoardsForGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}
