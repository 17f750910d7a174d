package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"

    "github.com/lehoang/visit-registration/internal/config"
    "github.com/lehoang/visit-registration/internal/mailer"
    "github.com/lehoang/visit-registration/internal/model"
    "github.com/lehoang/visit-registration/internal/repository"
)

// SMTPSource resolves the SMTP configuration used for a notification.
// The email config repository implements it; tests substitute fakes.
type SMTPSource interface {
    GetByUser(ctx context.Context, userID uint64) (model.EmailConfig, error)
}

// Consumer drains the notification queue and sends emails.  Email
// failures are logged and the message is rejected without requeue so a
// bad recipient cannot wedge the queue; they never affect the status
// mutation that produced the event.
type Consumer struct {
    url      string
    fallback config.SMTPConfig
    source   SMTPSource
    logger   zerolog.Logger
}

// NewConsumer builds a consumer.  source may be nil, in which case
// every email uses the fallback configuration.
func NewConsumer(url string, fallback config.SMTPConfig, source SMTPSource, logger zerolog.Logger) *Consumer {
    return &Consumer{url: url, fallback: fallback, source: source, logger: logger}
}

// Start connects to RabbitMQ, declares the durable notification queue
// and consumes messages until the context is cancelled.  It runs a
// reconnect loop with exponential backoff so a broker restart does not
// take the server down.
func (c *Consumer) Start(ctx context.Context) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(c.url)
        if err != nil {
            log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := c.consumeLoop(ctx, conn); err != nil {
            log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
            _ = conn.Close()
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(2 * time.Second):
            }
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(20, 0, false); err != nil {
        log.Printf("notification-consumer: set QoS failed: %v", err)
    }

    if _, err := ch.QueueDeclare(NotificationQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(NotificationQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(ctx, d.Body); err != nil {
                log.Printf("notification-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
    var ev NotificationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Email == "" {
        return nil // nothing to notify
    }

    smtpCfg := c.resolveSMTP(ctx, ev.ActorUserID)
    msg := mailer.BuildStatusEmail(ev.Name, ev.Email, ev.Date, ev.Time, ev.Floor, ev.Status)
    if err := mailer.Send(&c.logger, smtpCfg, msg); err != nil {
        // Best-effort policy: log and drop, never fail the mutation.
        c.logger.Warn().
            Str("registration_id", ev.RegistrationID).
            Err(err).
            Msg("notification email dropped")
    }
    return nil
}

// resolveSMTP prefers the acting admin's stored credentials and falls
// back to the process-wide configuration.
func (c *Consumer) resolveSMTP(ctx context.Context, userID uint64) config.SMTPConfig {
    if c.source == nil || userID == 0 {
        return c.fallback
    }
    ec, err := c.source.GetByUser(ctx, userID)
    if err != nil {
        if !errors.Is(err, repository.ErrNotFound) {
            c.logger.Warn().Uint64("user_id", userID).Err(err).Msg("email config lookup failed")
        }
        return c.fallback
    }
    return config.SMTPConfig{
        Host:     ec.Host,
        Port:     ec.Port,
        Secure:   ec.Secure,
        Email:    ec.Email,
        Password: ec.Password,
    }
}
