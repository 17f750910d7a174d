// Package service provides the RabbitMQ publisher used to hand
// notification events to the background mail consumer.  Errors are
// logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/lehoang/visit-registration/internal/queue"
)

// PublishNotification publishes a NotificationEvent to the durable
// registration.notifications queue.  Messages are marked persistent so
// they survive a broker restart.
func PublishNotification(ctx context.Context, url string, event q.NotificationEvent) error {
    conn, err := amqp.Dial(url)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.NotificationQueueName, // name
        true,                    // durable
        false,                   // autoDelete
        false,                   // exclusive
        false,                   // noWait
        nil,                     // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",                      // default exchange
        q.NotificationQueueName, // routing key = queue name
        false,                   // mandatory
        false,                   // immediate
        pub,
    ); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }

    return nil
}

// AsyncNotifier publishes notification events on a background
// goroutine so HTTP responses never wait on the broker.  It satisfies
// the handler.Notifier interface.
type AsyncNotifier struct {
    URL string
}

// Notify fires the publish and forgets it.  A short timeout bounds the
// goroutine; failures are already logged by PublishNotification.
func (n AsyncNotifier) Notify(event q.NotificationEvent) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = PublishNotification(ctx, n.URL, event)
    }()
}
