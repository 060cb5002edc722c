package repository

import (
	"context"
	"time"
)

// Every store call is bounded: a hung connection surfaces as a timeout the
// client can retry instead of a request that never returns.
const storeTimeout = 10 * time.Second

func opCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, storeTimeout)
}
