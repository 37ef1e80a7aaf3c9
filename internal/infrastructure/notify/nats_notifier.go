package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"

	"scanrecon/internal/bootstrap/config"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

// NATSNotifier publishes applied catalog updates to a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

func NewNATSNotifier(cfg config.NotifyConfig) (*NATSNotifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("notify url is required")
	}
	if cfg.Subject == "" {
		return nil, errors.New("notify subject is required")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("scanrecon"))
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}

	return &NATSNotifier{conn: conn, subject: cfg.Subject}, nil
}

func (n *NATSNotifier) PublishCatalogUpdate(ctx context.Context, update ports.CatalogUpdate) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return errs.Wrap(err, "marshal catalog update")
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		return errs.Wrap(err, "publish catalog update")
	}

	logging.Info(ctx, "catalog update published",
		slog.String("subject", n.subject),
		slog.String("sku", update.SKU),
		slog.Uint64("decision_id", update.DecisionID),
	)
	return nil
}

func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
