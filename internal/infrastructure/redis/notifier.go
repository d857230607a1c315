package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/pkg/config"
)

// Conservamos los últimos eventos por bandeja; el consumidor in-app pagina sobre esto.
const inboxMaxLen = 500

var _ alerts.Notifier = (*Notifier)(nil)

// Notifier adaptador de notificaciones sobre Redis. Publica cada evento en el canal
// pub/sub del tenant y, para el canal in_app, lo empuja además a una lista acotada
// que sirve de bandeja persistente.
type Notifier struct {
	client *redis.Client
}

// NewNotifier conecta el cliente Redis y verifica la conexión.
func NewNotifier(ctx context.Context, cfg config.RedisConfig) (*Notifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Notifier{client: client}, nil
}

// Close libera la conexión.
func (n *Notifier) Close() error {
	return n.client.Close()
}

type envelope struct {
	Type       string          `json:"type"`
	TenantID   string          `json:"tenant_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func channelKey(tenantID string) string { return "notifications:" + tenantID }
func inboxKey(tenantID string) string   { return "inbox:" + tenantID }

// PublishLowStock emite el evento de stock bajo por los canales de la regla.
func (n *Notifier) PublishLowStock(ctx context.Context, ev alerts.LowStockEvent) error {
	if err := n.Publish(ctx, ev.TenantID, "inventory.low_stock", ev); err != nil {
		return err
	}
	for _, ch := range ev.Channels {
		if ch != entity.AlertChannelInApp {
			continue
		}
		raw, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal low stock event: %w", err)
		}
		pipe := n.client.TxPipeline()
		pipe.LPush(ctx, inboxKey(ev.TenantID), raw)
		pipe.LTrim(ctx, inboxKey(ev.TenantID), 0, inboxMaxLen-1)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("push inbox: %w", err)
		}
	}
	return nil
}

// Publish emite un evento genérico en el canal pub/sub del tenant.
func (n *Notifier) Publish(ctx context.Context, tenantID, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	env := envelope{
		Type:       eventType,
		TenantID:   tenantID,
		Payload:    raw,
		OccurredAt: time.Now().UTC(),
	}
	msg, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := n.client.Publish(ctx, channelKey(tenantID), msg).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
