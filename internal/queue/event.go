// Package queue defines message payloads exchanged over the message broker.
package queue

// Account event kinds. Exactly one outbound email template exists per kind.
const (
    KindWelcome      = "welcome"
    KindCancellation = "cancellation"
)

// AccountEvent is published when an account is created or deleted. It
// carries everything the mail consumer needs to address and render the
// notification without querying the primary database; no response ever
// flows back to the publisher.
type AccountEvent struct {
    Kind       string `json:"kind"` // welcome | cancellation
    Email      string `json:"email"`
    Name       string `json:"name"`
    OccurredAt string `json:"occurred_at"`
}
