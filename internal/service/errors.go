package service

import "errors"

var (
	// ErrInvalidAddress means the queried address is not a valid account.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrWalletUnavailable means no wallet is connected or access was declined.
	ErrWalletUnavailable = errors.New("wallet unavailable")
	// ErrLookupFailed means the ownership lookup failed; the whole query fails.
	ErrLookupFailed = errors.New("ownership lookup failed")
)
