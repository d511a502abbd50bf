package database

import (
	"context"
	"testing"
)

func TestNormalizeDSN(t *testing.T) {
	cases := map[string]string{
		"":                                      "",
		"  postgres://u:p@h:5432/db  ":          "postgres://u:p@h:5432/db",
		"postgresql+asyncpg://u:p@h/db":         "postgresql://u:p@h/db",
		"postgres+asyncpg://u:p@h/db":           "postgres://u:p@h/db",
		"postgresql+pgx://u:p@h/db?sslmode=off": "postgresql://u:p@h/db?sslmode=off",
		"postgres+pgx://u@h/db":                 "postgres://u@h/db",
	}
	for in, want := range cases {
		if got := normalizeDSN(in); got != want {
			t.Errorf("normalizeDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConnect_EmptyDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "   "); err == nil {
		t.Error("Expected an error for an empty DSN")
	}
}
