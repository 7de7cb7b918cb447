// Package main forwards request transitions from the DynamoDB stream of the
// requests table to Kafka.
package main

import (
	"context"
	"log"

	"partner_repairs/internal/adapter/stream"
	"partner_repairs/internal/infrastructure/config"
	"partner_repairs/internal/infrastructure/messaging"
	"partner_repairs/internal/infrastructure/tracing"
	"partner_repairs/internal/usecase"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

type App struct {
	notifier usecase.INotificationUseCase
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.KafkaEnabled() {
		log.Fatal("KAFKA_BROKERS is required for the notifier")
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	flush := func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("[notify][lambda] tracing shutdown error: %v", err)
		}
	}
	defer flush()

	writer, err := messaging.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Fatalf("failed to create kafka writer: %v", err)
	}
	publisher := messaging.NewKafkaPublisher(writer)
	defer publisher.Close()

	app := &App{notifier: usecase.NewNotificationUseCase(publisher)}
	// The runtime freezes the process between invocations, so pending spans
	// are flushed when it signals shutdown.
	lambda.StartWithOptions(app.handler, lambda.WithEnableSIGTERM(flush))
}

// handler fails the whole batch on a publish error so the stream redelivers it.
func (a *App) handler(ctx context.Context, ev events.DynamoDBEvent) error {
	transitions := stream.TransitionsFromStream(ev)
	sent, err := a.notifier.Notify(ctx, transitions)
	if err != nil {
		return err
	}
	log.Printf("[notify][lambda] records=%d transitions=%d sent=%d", len(ev.Records), len(transitions), sent)
	return nil
}
