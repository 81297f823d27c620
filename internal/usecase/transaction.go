package usecase

import (
	"context"
	"fmt"
	"log"
)

// Transaction executa passos em ordem. Se um passo falhar, as compensações dos
// passos que já rodaram são executadas em ordem reversa.
type Transaction struct {
	steps []Step
}

type Step struct {
	Name       string
	Fn         func(context.Context) error
	Compensate func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{steps: []Step{}}
}

// AddStep registra um passo. compensate pode ser nil.
func (t *Transaction) AddStep(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, Step{Name: name, Fn: fn, Compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, step := range t.steps {
		if err := step.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("step '%s' failed: %w", step.Name, err)
		}
	}
	return nil
}

// rollback roda mesmo com o contexto cancelado: cancelamento é justamente um dos motivos de rollback.
func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	ctx = context.WithoutCancel(ctx)
	for i := failedAt - 1; i >= 0; i-- {
		step := t.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			log.Printf("⚠️ Compensação '%s' falhou: %v (risco de inconsistência!)", step.Name, err)
		}
	}
}
