package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pariskandee/real-estate/internal/listing/domain"
)

// Publisher emits listing lifecycle events as JSON on NATS subjects.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string, connectTimeout time.Duration) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Timeout(connectTimeout))
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(_ context.Context, subject string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, jsonData)
}

func (p *Publisher) Close() {
	p.conn.Close()
}

var _ domain.Publisher = (*Publisher)(nil)
