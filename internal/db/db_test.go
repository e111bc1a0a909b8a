package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsApplicationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Constraint violation is an application error",
			err:      &pgconn.PgError{Code: "23502", Message: "null value in column"},
			expected: true,
		},
		{
			name:     "Wrapped PgError is still an application error",
			err:      fmt.Errorf("failed to create demand record: %w", &pgconn.PgError{Code: "42P01"}),
			expected: true,
		},
		{
			name:     "Network failure is a store-level error",
			err:      &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			expected: false,
		},
		{
			name:     "Context cancellation is a store-level error",
			err:      context.DeadlineExceeded,
			expected: false,
		},
		{
			name:     "Plain error is a store-level error",
			err:      errors.New("unexpected EOF"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsApplicationError(tt.err))
		})
	}
}
