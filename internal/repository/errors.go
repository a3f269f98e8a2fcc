// Package repository defines the keyed stores behind the auth, payment and
// upload surfaces, together with the sentinel errors handlers translate into
// HTTP status codes. Each sentinel maps to exactly one status so rejections
// always carry a specific reason.
package repository

import "errors"

var (
	// ErrEmailExists signals a duplicate unique email at registration (409).
	ErrEmailExists = errors.New("email already exists")

	// ErrNotFound signals that a referenced entity is absent (404).
	ErrNotFound = errors.New("not found")

	// ErrOrderNotPending signals a violated pending->paid guard (400).
	ErrOrderNotPending = errors.New("order invalid or already paid")

	// ErrTokenNotFound signals an unknown purchase token (403).
	ErrTokenNotFound = errors.New("purchase token not found")

	// ErrTokenExpired signals a purchase token past its validity window (403).
	ErrTokenExpired = errors.New("purchase token expired")
)
