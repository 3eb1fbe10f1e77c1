package types

import "errors"

// Error taxonomy surfaced undecorated at the provider facade boundary. The
// HTTP layer maps these to status codes in pkg/response; nothing inside the
// core swallows or retries them.
var (
	// ErrUnsupportedPair means the ordered currency pair has no table entry.
	ErrUnsupportedPair = errors.New("unsupported currency pair")

	// ErrNotFound means an unknown quote, trade or debt id.
	ErrNotFound = errors.New("record not found")

	// ErrExpiredQuote means a trade was attempted against a stale quote; the
	// caller must obtain a fresh one.
	ErrExpiredQuote = errors.New("quote has expired")

	// ErrTrade means a trade precondition was violated, e.g. a buy without a
	// deposit address or a quote already consumed by another trade.
	ErrTrade = errors.New("trade precondition failed")

	// ErrTransfer means a broadcast or mint failed at the chain boundary. The
	// caller may retry with a fresh trade request.
	ErrTransfer = errors.New("transfer failed")

	// ErrInvariantViolation indicates a programming or data-corruption defect,
	// such as a trade executed twice. Never expected in correct operation.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrPersistence means storage is unavailable; transient from the caller's
	// point of view.
	ErrPersistence = errors.New("storage unavailable")
)
