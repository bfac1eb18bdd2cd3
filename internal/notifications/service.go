package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"activly/internal/shared/config"
)

type NotificationService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error

	SendBookingNotification(ctx context.Context, userID uuid.UUID, email, name string,
		bookingID, activityID uuid.UUID, notificationType NotificationType,
		templateData map[string]interface{}) error

	SendWelcomeNotification(ctx context.Context, userID uuid.UUID, email, name string) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type EmailNotificationService struct {
	kafkaCfg     config.KafkaConfig
	producer     NotificationProducer
	consumer     NotificationConsumer
	publisher    *NotificationPublisher
	emailService EmailService

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewEmailNotificationService wires the Kafka producer, the consumer
// workers and the SMTP sender. When SMTP credentials are absent the
// mock sender is used so local runs work without a mail account.
func NewEmailNotificationService(kafkaCfg config.KafkaConfig, emailCfg config.EmailConfig) (NotificationService, error) {
	var emailService EmailService

	smtpConfig := NewSMTPConfig(emailCfg)
	if smtpConfig.Host == "" || smtpConfig.Username == "" {
		log.Printf("📧 SMTP not configured, using mock email sender")
		emailService = NewMockEmailService()
	} else {
		svc, err := NewSMTPEmailService(smtpConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = svc
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = kafkaCfg.Brokers
	producerConfig.NotificationTopic = kafkaCfg.NotificationTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = kafkaCfg.Brokers
	consumerConfig.Topics = []string{kafkaCfg.NotificationTopic}
	consumerConfig.GroupID = kafkaCfg.ConsumerGroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &EmailNotificationService{
		kafkaCfg:     kafkaCfg,
		producer:     producer,
		consumer:     consumer,
		publisher:    NewNotificationPublisher(producer),
		emailService: emailService,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (ens *EmailNotificationService) Start(ctx context.Context) error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if ens.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	numWorkers := ens.kafkaCfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 3
	}

	if err := ens.consumer.StartConsumers(ens.ctx, numWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	ens.isRunning = true
	log.Printf("✅ Email notification service started with %d workers", numWorkers)

	return nil
}

func (ens *EmailNotificationService) Stop() error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if !ens.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	ens.cancel()

	if err := ens.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := ens.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	ens.isRunning = false
	log.Printf("✅ Email notification service stopped")

	return nil
}

func (ens *EmailNotificationService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	return ens.producer.PublishNotification(ctx, notification)
}

func (ens *EmailNotificationService) SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	return ens.producer.PublishBatchNotifications(ctx, notifications)
}

func (ens *EmailNotificationService) SendBookingNotification(ctx context.Context, userID uuid.UUID, email, name string,
	bookingID, activityID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	return ens.publisher.PublishBookingNotification(ctx, userID, email, name, bookingID, activityID, notificationType, templateData)
}

func (ens *EmailNotificationService) SendWelcomeNotification(ctx context.Context, userID uuid.UUID, email, name string) error {
	return ens.publisher.PublishWelcomeNotification(ctx, userID, email, name)
}

func (ens *EmailNotificationService) HealthCheck(ctx context.Context) error {
	ens.mu.RLock()
	isRunning := ens.isRunning
	ens.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := ens.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := ens.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}
