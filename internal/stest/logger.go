package stest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a logger that routes through t.Log,
// so output is associated with the correct (sub)test
// and only shown for failures or in verbose mode.
func NewLogger(t testing.TB) *slog.Logger {
	return slogt.New(t)
}
