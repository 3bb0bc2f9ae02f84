package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/middleware"
	"club-lotto-backend/internal/features/wallet/service"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(service service.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/balance/me", h.getBalance)

	transactions := router.Group("/transactions")
	{
		transactions.POST("", h.create)
		transactions.GET("/me", h.getMine)
	}

	admin := router.Group("/transactions")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/pending", h.listPending)
		admin.POST("/:id/approve", h.approve)
		admin.POST("/:id/reject", h.reject)
	}
}

type createTransactionRequest struct {
	MobilePayNumber string `json:"mobile_pay_number" binding:"required"`
	Amount          int64  `json:"amount" binding:"required"`
}

// @Summary Register a deposit request
// @Description Records a MobilePay deposit as pending. The amount counts
// @Description toward the balance only after an administrator approves it.
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createTransactionRequest true "Deposit details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} middleware.ErrorResponse "Invalid amount or MobilePay number"
// @Failure 422 {object} middleware.ErrorResponse "Player is deactivated"
// @Router /transactions [post]
func (h *WalletHandler) create(c *gin.Context) {
	var input createTransactionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	playerID := middleware.GetPlayerID(c)
	if playerID == "" {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("missing player identity"))
		return
	}

	tx, err := h.service.CreateTransaction(c.Request.Context(), playerID, input.MobilePayNumber, input.Amount)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// @Summary Get the calling player's balance
// @Description Recomputes the spendable balance: approved deposits minus the
// @Description price of every board the player has ever bought.
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Balance
// @Router /balance/me [get]
func (h *WalletHandler) getBalance(c *gin.Context) {
	playerID := middleware.GetPlayerID(c)
	if playerID == "" {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("missing player identity"))
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), playerID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// @Summary List the calling player's deposit requests
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Router /transactions/me [get]
func (h *WalletHandler) getMine(c *gin.Context) {
	playerID := middleware.GetPlayerID(c)
	if playerID == "" {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("missing player identity"))
		return
	}

	txs, err := h.service.ListForPlayer(c.Request.Context(), playerID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// @Summary List pending deposit requests
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Router /transactions/pending [get]
func (h *WalletHandler) listPending(c *gin.Context) {
	txs, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// @Summary Approve a pending deposit
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} middleware.ErrorResponse "Transaction not found"
// @Failure 409 {object} middleware.ErrorResponse "Transaction is not pending"
// @Router /transactions/{id}/approve [post]
func (h *WalletHandler) approve(c *gin.Context) {
	tx, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// @Summary Reject a pending deposit
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} middleware.ErrorResponse "Transaction not found"
// @Failure 409 {object} middleware.ErrorResponse "Transaction is not pending"
// @Router /transactions/{id}/reject [post]
func (h *WalletHandler) reject(c *gin.Context) {
	tx, err := h.service.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}
