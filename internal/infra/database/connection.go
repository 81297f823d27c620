package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver do Postgres
)

var (
	ErrAlreadyExists = errors.New("registro já existe")
	ErrLockTimeout   = errors.New("tempo de espera por lock esgotado")
)

// NewDBConnection abre a conexão e testa o Ping
func NewDBConnection(connString string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// wrapPgError traduz os códigos do Postgres que o sync trata de forma específica.
func wrapPgError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		case "55P03":
			return fmt.Errorf("%s: %w", op, ErrLockTimeout)
		}
		log.Printf("Erro crítico no banco (%s): %s [%s]", op, pgErr.Message, pgErr.Code)
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
