package domain

import "errors"

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidCoinID    = errors.New("invalid coin id")
)
