package core

import "errors"

// Terminal errors. Any of these aborts the whole invocation; the ledger
// is never left with a partial commit.
var (
	// ErrAlreadyInitialized already initialized
	ErrAlreadyInitialized = errors.New("already initialized")
	// ErrNotInitialized not initialized
	ErrNotInitialized = errors.New("not initialized")
	// ErrInvalidInput non-positive amount or out-of-range parameter
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized caller is not the stated principal
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInsufficientBalance amount exceeds the account balance
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientLiquidity amount exceeds the pool's free liquidity
	ErrInsufficientLiquidity = errors.New("insufficient pool liquidity")
	// ErrExceedsCapacity post-borrow debt would exceed the ltv capacity
	ErrExceedsCapacity = errors.New("borrow exceeds capacity")
	// ErrUnhealthyPosition operation would leave the position undercollateralized
	ErrUnhealthyPosition = errors.New("position would be unhealthy")
	// ErrNoOutstandingDebt nothing to repay
	ErrNoOutstandingDebt = errors.New("no outstanding debt")
	// ErrPriceNotSet asset has no price entry
	ErrPriceNotSet = errors.New("price not set")
	// ErrStalePrice price entry is older than the staleness threshold
	ErrStalePrice = errors.New("price is stale")
	// ErrPositionHealthy liquidation target is not undercollateralized
	ErrPositionHealthy = errors.New("position is healthy")
)

// ErrorCode int
type ErrorCode int

const (
	// CodeUnknown unknown
	CodeUnknown ErrorCode = 100000
	// CodeAlreadyInitialized already initialized
	CodeAlreadyInitialized ErrorCode = 100001
	// CodeNotInitialized not initialized
	CodeNotInitialized ErrorCode = 100002
	// CodeInvalidInput invalid input
	CodeInvalidInput ErrorCode = 100003
	// CodeUnauthorized unauthorized
	CodeUnauthorized ErrorCode = 100004
	// CodeInsufficientBalance insufficient balance
	CodeInsufficientBalance ErrorCode = 100005
	// CodeInsufficientLiquidity insufficient liquidity
	CodeInsufficientLiquidity ErrorCode = 100006
	// CodeExceedsCapacity exceeds capacity
	CodeExceedsCapacity ErrorCode = 100007
	// CodeUnhealthyPosition unhealthy position
	CodeUnhealthyPosition ErrorCode = 100008
	// CodeNoOutstandingDebt no outstanding debt
	CodeNoOutstandingDebt ErrorCode = 100009
	// CodePriceNotSet price not set
	CodePriceNotSet ErrorCode = 100010
	// CodeStalePrice stale price
	CodeStalePrice ErrorCode = 100011
	// CodePositionHealthy position healthy
	CodePositionHealthy ErrorCode = 100012
)

var errorCodes = map[error]ErrorCode{
	ErrAlreadyInitialized:    CodeAlreadyInitialized,
	ErrNotInitialized:        CodeNotInitialized,
	ErrInvalidInput:          CodeInvalidInput,
	ErrUnauthorized:          CodeUnauthorized,
	ErrInsufficientBalance:   CodeInsufficientBalance,
	ErrInsufficientLiquidity: CodeInsufficientLiquidity,
	ErrExceedsCapacity:       CodeExceedsCapacity,
	ErrUnhealthyPosition:     CodeUnhealthyPosition,
	ErrNoOutstandingDebt:     CodeNoOutstandingDebt,
	ErrPriceNotSet:           CodePriceNotSet,
	ErrStalePrice:            CodeStalePrice,
	ErrPositionHealthy:       CodePositionHealthy,
}

// CodeOf map an error to its numeric code for the rest api
func CodeOf(err error) ErrorCode {
	for e, code := range errorCodes {
		if errors.Is(err, e) {
			return code
		}
	}

	return CodeUnknown
}
