package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	queueDepth     = 1000
	maxAttempts    = 3
	attemptBackoff = 2 * time.Second
)

// Dispatcher delivers signed event payloads in the background. Deliveries
// flow through a bounded queue; when it is full new events are dropped so a
// slow endpoint cannot stall experiment processing.
type Dispatcher struct {
	db     *pgxpool.Pool
	client *http.Client
	queue  chan DeliveryRequest
}

type DeliveryRequest struct {
	WebhookID uuid.UUID
	URL       string
	Secret    string
	Event     string
	Payload   []byte
}

func NewDispatcher(db *pgxpool.Pool) *Dispatcher {
	d := &Dispatcher{
		db:     db,
		client: &http.Client{Timeout: 10 * time.Second},
		queue:  make(chan DeliveryRequest, queueDepth),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Enqueue(req DeliveryRequest) {
	select {
	case d.queue <- req:
	default:
		slog.Warn("webhook queue full, dropping event", "webhook_id", req.WebhookID, "event", req.Event)
	}
}

func (d *Dispatcher) run() {
	for req := range d.queue {
		d.deliverWithRetry(req)
	}
}

func (d *Dispatcher) deliverWithRetry(req DeliveryRequest) {
	var (
		status  int
		lastErr error
	)
	attempts := 0
	for attempts < maxAttempts {
		attempts++
		status, lastErr = d.attempt(req)
		if lastErr == nil && status < 500 {
			break
		}
		if attempts < maxAttempts {
			time.Sleep(attemptBackoff * time.Duration(attempts))
		}
	}

	d.record(req, status, attempts, lastErr)

	if lastErr != nil {
		slog.Error("webhook delivery failed", "webhook_id", req.WebhookID, "event", req.Event, "attempts", attempts, "error", lastErr)
	} else if status >= 400 {
		slog.Warn("webhook endpoint returned error", "webhook_id", req.WebhookID, "status", status)
	}
}

func (d *Dispatcher) attempt(req DeliveryRequest) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ts := strconv.FormatInt(time.Now().Unix(), 10)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Payload))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Webhook-ID", req.WebhookID.String())
	httpReq.Header.Set("X-Webhook-Event", req.Event)
	httpReq.Header.Set("X-Webhook-Timestamp", ts)
	httpReq.Header.Set("X-Webhook-Signature", Sign(req.Payload, ts, req.Secret))

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func (d *Dispatcher) record(req DeliveryRequest, status, attempts int, deliveryErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var deliveredAt *time.Time
	if deliveryErr == nil && status < 400 {
		now := time.Now()
		deliveredAt = &now
	}

	_, err := d.db.Exec(ctx,
		`INSERT INTO webhook_deliveries (webhook_id, event, payload, response_status, attempts, delivered_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		req.WebhookID, req.Event, req.Payload, status, attempts, deliveredAt,
	)
	if err != nil {
		slog.Error("failed to record webhook delivery", "error", err)
	}
}

// Sign computes the signature header value for a delivery. The timestamp is
// part of the signed input so receivers can reject replayed requests.
func Sign(payload []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
