package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// Notifier entrega o relatório de uma execução (hoje: email com a fila de revisão anexada).
type Notifier interface {
	SendRunReport(ctx context.Context, report entity.RunReport) error
}

// Consumer é o subconjunto de *amqp.Channel usado pelo worker.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier Notifier
}

func NewWorker(ch Consumer, notifier Notifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

// Start consome a fila até o contexto ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 [WORKER] Encerrando consumidor de relatórios")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload entity.RunReport
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		log.Printf("❌ [WORKER] JSON Inválido: %s", err)
		// Mensagem malformada: rejeita sem requeue para não travar a fila.
		d.Nack(false, false)
		return
	}

	log.Printf("📥 [WORKER] Relatório do sync %s (%s, %d para revisão)", payload.RunID, payload.Status, len(payload.Review))

	if err := w.Notifier.SendRunReport(ctx, payload); err != nil {
		log.Printf("❌ [WORKER] Falha ao notificar sync %s: %s", payload.RunID, err)
		d.Nack(false, false)
		return
	}

	log.Printf("✅ [WORKER] Relatório do sync %s enviado", payload.RunID)
	d.Ack(false)
}
