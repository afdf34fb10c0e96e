package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapErrorPassesDomainErrorsThrough(t *testing.T) {
	orig := domainagg.NewError(domainagg.CodeIncorrectAmount, "Tenancy.Agreement.PayRent", "expected payment of 150, got 100", nil)
	mapped := MapError("Tenancy.Agreement.PayRent", orig)
	if mapped != orig {
		t.Fatalf("tagged domain errors must pass through unchanged, got %v", mapped)
	}
}

func TestMapErrorInfrastructure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code domainagg.ErrorCode
	}{
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"context canceled", context.Canceled, domainagg.CodeRetryable},
		{"deadline exceeded", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"validation sentinel", ValidationError("bad input"), domainagg.CodeValidation},
		{"conflict sentinel", ConflictError("already exists"), domainagg.CodeConflict},
		{"unique violation", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, domainagg.CodeRetryable},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, domainagg.CodeRetryable},
		{"wrapped pg error", fmt.Errorf("tx: %w", &pgconn.PgError{Code: "23505"}), domainagg.CodeConflict},
		{"duplicate key message", errors.New("ERROR: duplicate key value violates unique constraint"), domainagg.CodeConflict},
		{"deadlock message", errors.New("database deadlock while locking row"), domainagg.CodeRetryable},
		{"unknown", errors.New("disk on fire"), domainagg.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError("op", tc.err)
			if got := domainagg.CodeOf(mapped); got != tc.code {
				t.Fatalf("expected code %q, got %q (%v)", tc.code, got, mapped)
			}
			if !errors.Is(mapped, tc.err) {
				t.Fatalf("mapped error must wrap the cause")
			}
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	if err := MapError("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
