// Package audit_publisher provides best-effort delivery of sign-in audit
// events.  Publishing happens after the authentication response has been
// decided and must never delay or fail it: errors are logged, the broker
// path falls back to a direct database insert, and both run detached from
// the request's control flow.
package audit_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/plantora/plant-shop-backend/internal/queue"
	"github.com/plantora/plant-shop-backend/internal/repository"
)

// PublishSignIn publishes a sign-in event to the durable signin.recorded
// queue.  Any error is logged and returned so the caller can choose a
// fallback without interrupting the main request flow.  Messages are
// marked as persistent.
func PublishSignIn(ctx context.Context, event q.SignInEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
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
		q.SignInQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
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
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		q.SignInQueueName, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}

// Recorder queues audit events asynchronously.  When the broker is
// unreachable it degrades to a direct best-effort insert; when that fails
// too the event is dropped with a log line, never an error to the caller.
type Recorder struct {
	Logs *repository.SignInLogRepo
}

func NewRecorder(logs *repository.SignInLogRepo) *Recorder { return &Recorder{Logs: logs} }

// Record captures a sign-in event and returns immediately.  Delivery runs
// in its own goroutine with its own timeout, detached from the request
// context, so the already-prepared auth response is never re-ordered or
// delayed.
func (r *Recorder) Record(username, role, ip, userAgent string) {
	now := time.Now().UTC()
	ev := q.SignInEvent{
		Username:  username,
		Role:      role,
		IPAddress: ip,
		UserAgent: userAgent,
		LoginTime: now.Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := PublishSignIn(ctx, ev); err == nil {
			return
		}
		if err := r.Logs.Insert(ctx, username, role, ip, userAgent, now); err != nil {
			log.Printf("audit: sign-in event dropped for %s: %v", username, err)
		}
	}()
}
