package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"agriguard/internal/model"
	"agriguard/internal/repository"
)

// ScanPersistWorker consumes the scan persist queue and writes scan rows.
// Persistence is decoupled from the /analyze request path; the client gets
// its result before the row exists.
type ScanPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.ScanRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScanPersistWorker(conn *amqp.Connection, repo *repository.ScanRepository, queueName string) *ScanPersistWorker {
	return &ScanPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *ScanPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var scan model.Scan
				if err := json.Unmarshal(d.Body, &scan); err != nil {
					log.Printf("worker decode scan failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&scan); err != nil {
					log.Printf("worker persist scan failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *ScanPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
