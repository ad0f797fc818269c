package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput wraps every validation failure; the wrapped message is
// safe to show to the caller
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrOrderNotFound    = errors.New("order not found")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
