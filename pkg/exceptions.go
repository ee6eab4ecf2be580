package pkg

import "errors"

var (
	// Confirmation errors ✋
	ErrNotConfirmed = errors.New("❌ write not confirmed")
)
