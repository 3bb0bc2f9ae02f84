package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode identifies the kind of application error.
type ErrorCode string

const (
	// Generic codes
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeConflict   ErrorCode = "CONFLICT"

	// Auth codes
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Game round codes
	ErrCodeNoActiveRound         ErrorCode = "NO_ACTIVE_ROUND"
	ErrCodeRoundNotFound         ErrorCode = "ROUND_NOT_FOUND"
	ErrCodeRoundAlreadyActive    ErrorCode = "ROUND_ALREADY_ACTIVE"
	ErrCodeRoundAlreadyClosed    ErrorCode = "ROUND_ALREADY_CLOSED"
	ErrCodeRoundNotOpen          ErrorCode = "ROUND_NOT_OPEN"
	ErrCodeInvalidWinningNumbers ErrorCode = "INVALID_WINNING_NUMBERS"

	// Board codes
	ErrCodeBoardNotFound          ErrorCode = "BOARD_NOT_FOUND"
	ErrCodeInvalidNumberSelection ErrorCode = "INVALID_NUMBER_SELECTION"
	ErrCodeInsufficientBalance    ErrorCode = "INSUFFICIENT_BALANCE"

	// Player codes
	ErrCodePlayerNotFound ErrorCode = "PLAYER_NOT_FOUND"
	ErrCodePlayerInactive ErrorCode = "PLAYER_INACTIVE"

	// Transaction codes
	ErrCodeTransactionNotFound    ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeTransactionNotPending  ErrorCode = "TRANSACTION_NOT_PENDING"
	ErrCodeInvalidAmount          ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidMobilePayNumber ErrorCode = "INVALID_MOBILE_PAY_NUMBER"

	// Infrastructure codes
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"
	ErrCodeCacheError        ErrorCode = "CACHE_ERROR"
)

// AppError is the typed application error carried from services to the HTTP layer.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"stack,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a missing-resource error.
func (e *AppError) IsNotFound() bool {
	switch e.Code {
	case ErrCodeNotFound, ErrCodeNoActiveRound, ErrCodeRoundNotFound,
		ErrCodeBoardNotFound, ErrCodePlayerNotFound, ErrCodeTransactionNotFound:
		return true
	}
	return false
}

// IsValidation reports whether the error is a malformed-input error.
func (e *AppError) IsValidation() bool {
	switch e.Code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidWinningNumbers,
		ErrCodeInvalidNumberSelection, ErrCodeInvalidAmount, ErrCodeInvalidMobilePayNumber:
		return true
	}
	return false
}

// IsConflict reports whether the error is an illegal-state-transition error.
func (e *AppError) IsConflict() bool {
	switch e.Code {
	case ErrCodeConflict, ErrCodeRoundAlreadyActive, ErrCodeRoundAlreadyClosed,
		ErrCodeRoundNotOpen, ErrCodeTransactionNotPending:
		return true
	}
	return false
}

// IsPolicy reports whether the error is a business-policy rejection.
func (e *AppError) IsPolicy() bool {
	return e.Code == ErrCodeInsufficientBalance || e.Code == ErrCodePlayerInactive
}

// IsUnauthorized reports whether the error is an auth error.
func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden
}

// IsInternal reports whether the error is an infrastructure failure.
func (e *AppError) IsInternal() bool {
	switch e.Code {
	case ErrCodeInternal, ErrCodeDatabaseError, ErrCodeTransactionFailed, ErrCodeCacheError:
		return true
	}
	return false
}

// WithContext adds a request-scoped context value to the error.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail adds detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID attaches the request id to the error.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// WithStack attaches the call stack to the error.
func (e *AppError) WithStack() *AppError {
	e.Stack = getStackTrace()
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap wraps an existing error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with formatting.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// Constructors for frequently used errors

// NewValidationError creates a field validation error.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewNoActiveRoundError signals that no game round is currently open.
func NewNoActiveRoundError() *AppError {
	return New(ErrCodeNoActiveRound, "No active game round")
}

// NewRoundNotFoundError signals a missing game round.
func NewRoundNotFoundError(gameID string) *AppError {
	return New(ErrCodeRoundNotFound, fmt.Sprintf("Game round not found: %s", gameID)).
		WithDetail("game_id", gameID)
}

// NewRoundAlreadyActiveError signals that a round is already open.
func NewRoundAlreadyActiveError(gameID string) *AppError {
	return New(ErrCodeRoundAlreadyActive, "A game round is already active").
		WithDetail("active_game_id", gameID)
}

// NewRoundAlreadyClosedError signals a close attempt on a settled round.
func NewRoundAlreadyClosedError(gameID string) *AppError {
	return New(ErrCodeRoundAlreadyClosed, fmt.Sprintf("Game round already closed: %s", gameID)).
		WithDetail("game_id", gameID)
}

// NewRoundNotOpenError signals a purchase against a round that is not the open one.
func NewRoundNotOpenError(gameID string) *AppError {
	return New(ErrCodeRoundNotOpen, fmt.Sprintf("Game round is not open for purchases: %s", gameID)).
		WithDetail("game_id", gameID)
}

// NewPlayerNotFoundError signals a missing player.
func NewPlayerNotFoundError(playerID string) *AppError {
	return New(ErrCodePlayerNotFound, fmt.Sprintf("Player not found: %s", playerID)).
		WithDetail("player_id", playerID)
}

// NewPlayerInactiveError signals an operation for a deactivated player.
func NewPlayerInactiveError(playerID string) *AppError {
	return New(ErrCodePlayerInactive, fmt.Sprintf("Player is inactive: %s", playerID)).
		WithDetail("player_id", playerID)
}

// NewInsufficientBalanceError signals a purchase the balance cannot cover.
func NewInsufficientBalanceError(balance, price int64) *AppError {
	return New(ErrCodeInsufficientBalance, "Balance does not cover the board price").
		WithDetail("balance", balance).
		WithDetail("price", price)
}

// NewTransactionNotFoundError signals a missing deposit request.
func NewTransactionNotFoundError(txID string) *AppError {
	return New(ErrCodeTransactionNotFound, fmt.Sprintf("Transaction not found: %s", txID)).
		WithDetail("transaction_id", txID)
}

// NewTransactionNotPendingError signals an approve/reject on a settled transaction.
func NewTransactionNotPendingError(txID, status string) *AppError {
	return New(ErrCodeTransactionNotPending, fmt.Sprintf("Transaction is not pending: %s", txID)).
		WithDetail("transaction_id", txID).
		WithDetail("status", status)
}

// NewUnauthorizedError creates an auth error.
func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

// NewForbiddenError creates an access error.
func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithDetail("reason", reason)
}

// NewDatabaseError creates a database error.
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewCacheError creates a cache error.
func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError casts err to AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
