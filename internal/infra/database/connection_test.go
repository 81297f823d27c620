package database

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapPgError(t *testing.T) {
	assert.NoError(t, wrapPgError("op", nil))

	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key"}
	assert.ErrorIs(t, wrapPgError("inserir", dup), ErrAlreadyExists)

	lock := &pgconn.PgError{Code: "55P03", Message: "lock not available"}
	assert.ErrorIs(t, wrapPgError("atualizar", lock), ErrLockTimeout)

	other := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	err := wrapPgError("ler", other)
	assert.ErrorIs(t, err, other)
	assert.Contains(t, err.Error(), "ler")

	plain := errors.New("conn reset")
	assert.ErrorIs(t, wrapPgError("ler", plain), plain)
}

func TestFlagsFrom(t *testing.T) {
	assert.Nil(t, flagsFrom(nil))
}
