package usecase

import (
	"errors"
	"fmt"
)

// DomainError é um resultado esperado do negócio (entrada recusada, conflito).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha de colaborador (banco, CRM, fila). A execução aborta
// sem avançar o checkpoint e é refeita inteira na próxima rodada.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ValidationError é o motivo pelo qual um campo foi rejeitado na normalização.
type ValidationError struct {
	Field   string
	Message string
	Value   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func technical(code, msg string, err error) error {
	return &TechnicalError{Code: code, Message: msg, Err: err}
}
