package services

import (
	"context"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// RolloverSvcFacade runs the daily carry-forward. Safe to invoke arbitrarily
// many times per day; only the first invocation of a calendar date does work.
type RolloverSvcFacade interface {
	Run(ctx context.Context, trigger string) (*domain.RolloverResult, error)
}
