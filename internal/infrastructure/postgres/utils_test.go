package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClasificacionDeErroresPg(t *testing.T) {
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isCheckViolation(fk))
	assert.True(t, isCheckViolation(check))
	assert.False(t, isForeignKeyViolation(errors.New("23503")))
}

func TestMigracionesEmbebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.Equal(t, "00001_init.sql", entries[0].Name())
}
