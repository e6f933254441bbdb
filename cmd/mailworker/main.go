package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/taskhub/internal/config"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/mailqueue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-mailworker")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := &mailqueue.LogSender{Logger: logger}

	var err error
	switch cfg.Mail.Transport {
	case "kafka":
		if len(cfg.Mail.KafkaBrokers) == 0 {
			log.Fatal("KAFKA_BROKERS is empty")
		}
		if cfg.Mail.KafkaCreateTopics {
			if err := mailqueue.EnsureTopics(ctx, cfg.Mail.KafkaBrokers[0], cfg.Mail.KafkaTopic); err != nil {
				logger.Error("kafka_topic_setup_failed", "error", err)
				os.Exit(1)
			}
		}
		logger.Info("mailworker_started", "transport", "kafka", "topic", cfg.Mail.KafkaTopic)
		err = mailqueue.RunKafkaConsumer(ctx, mailqueue.KafkaConsumerConfig{
			Brokers: cfg.Mail.KafkaBrokers,
			Topic:   cfg.Mail.KafkaTopic,
			GroupID: cfg.Mail.KafkaGroupID,
		}, sender, logger)
	case "rabbitmq":
		logger.Info("mailworker_started", "transport", "rabbitmq", "queue", cfg.Mail.RabbitQueue)
		err = mailqueue.RunRabbitConsumer(ctx, cfg.Mail.RabbitURL, cfg.Mail.RabbitQueue, sender, logger)
	default:
		log.Fatalf("mailworker needs MAIL_TRANSPORT=kafka or rabbitmq, got %q", cfg.Mail.Transport)
	}

	if err != nil {
		logger.Error("mailworker_failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mailworker_stopped")
}
