// Package webhook lets clients register callbacks for experiment lifecycle
// events. Delivery is fire-and-forget: a failing endpoint never affects the
// training simulation.
package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slmforge/trainbench/internal/apperr"
	"github.com/slmforge/trainbench/internal/models"
)

var knownEvents = map[string]bool{
	models.EventExperimentCompleted: true,
	models.EventExperimentFailed:    true,
}

type Service struct {
	db         *pgxpool.Pool
	dispatcher *Dispatcher
}

func NewService(db *pgxpool.Pool, dispatcher *Dispatcher) *Service {
	return &Service{db: db, dispatcher: dispatcher}
}

type CreateRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Webhook, error) {
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, apperr.Validationf("url must be a valid http(s) URL")
	}

	events := req.Events
	if len(events) == 0 {
		events = []string{models.EventExperimentCompleted, models.EventExperimentFailed}
	}
	for _, e := range events {
		if !knownEvents[e] {
			return nil, apperr.Validationf("unknown event %q", e)
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	eventsJSON, _ := json.Marshal(events)

	var wh models.Webhook
	var rawEvents []byte
	err = s.db.QueryRow(ctx,
		`INSERT INTO webhooks (id, url, secret, events, active)
		 VALUES ($1, $2, $3, $4, true)
		 RETURNING id, url, secret, events, active, created_at`,
		uuid.New(), req.URL, secret, eventsJSON,
	).Scan(&wh.ID, &wh.URL, &wh.Secret, &rawEvents, &wh.Active, &wh.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert webhook: %w", err)
	}
	json.Unmarshal(rawEvents, &wh.Events)

	return &wh, nil
}

func (s *Service) List(ctx context.Context) ([]models.Webhook, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, url, events, active, created_at FROM webhooks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	var out []models.Webhook
	for rows.Next() {
		var wh models.Webhook
		var rawEvents []byte
		if err := rows.Scan(&wh.ID, &wh.URL, &rawEvents, &wh.Active, &wh.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		json.Unmarshal(rawEvents, &wh.Events)
		out = append(out, wh)
	}
	return out, rows.Err()
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("webhook")
	}
	return nil
}

// Notify queues a delivery to every active webhook subscribed to the event.
func (s *Service) Notify(ctx context.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, url, secret FROM webhooks
		 WHERE active AND events @> jsonb_build_array($1::text)`,
		event,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var whURL, secret string
		if err := rows.Scan(&id, &whURL, &secret); err != nil {
			return fmt.Errorf("scan subscriber: %w", err)
		}
		s.dispatcher.Enqueue(DeliveryRequest{
			WebhookID: id,
			URL:       whURL,
			Secret:    secret,
			Event:     event,
			Payload:   data,
		})
	}
	return rows.Err()
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
