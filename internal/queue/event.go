// Package queue defines the notification payloads exchanged over the
// message broker and the background consumer that turns them into
// emails.
package queue

// NotificationQueueName is the durable queue carrying email
// notification events from lifecycle handlers to the consumer.
const NotificationQueueName = "registration.notifications"

// NotificationEvent is published after a registration status change
// commits.  It carries a snapshot of everything the mail consumer
// needs so it never has to query the primary database.
type NotificationEvent struct {
    RegistrationID string `json:"registration_id"`
    Name           string `json:"name"`
    Email          string `json:"email"`
    Date           string `json:"date"`
    Time           string `json:"time,omitempty"`
    Floor          string `json:"floor"`
    Status         string `json:"status"`
    ActorUserID    uint64 `json:"actor_user_id,omitempty"`
    OccurredAt     string `json:"occurred_at"`
}
