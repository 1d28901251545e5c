package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/99minutos/admin-console/internal/core/domain"
)

func TestMapErr(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrUserNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, domain.ErrUserExists},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, domain.ErrUserNotFound},
		{"other", boom, boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapErr("op", tc.in); !errors.Is(got, tc.want) {
				t.Fatalf("mapErr(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
