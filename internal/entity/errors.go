package entity

import "errors"

var (
	// ErrInvariantViolation é fatal: a execução para antes de escrever algo possivelmente corrompido.
	ErrInvariantViolation = errors.New("violação de invariante")
	ErrCheckpointNotFound = errors.New("checkpoint não encontrado")
)
