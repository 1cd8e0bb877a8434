// Package bus publishes dispatch outcomes to a websocket message bus so
// other services can follow what the assistant did.
package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"voxassist/internal/dispatch"
)

const writeTimeout = 5 * time.Second

type Bus struct {
	url  string
	mu   sync.Mutex
	conn *websocket.Conn
}

// Message is the envelope written to the bus.
type Message struct {
	ID      string           `json:"id"`
	From    string           `json:"from"`
	Kind    string           `json:"kind"`
	Content string           `json:"content"`
	Outcome dispatch.Outcome `json:"outcome"`
	At      time.Time        `json:"at"`
}

func NewBus(wsURL string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	b := &Bus{url: u.String()}
	if err := b.dial(); err != nil {
		return nil, err
	}

	slog.Info("Connected to bus", "url", wsURL)
	return b, nil
}

func (b *Bus) dial() error {
	conn, _, err := websocket.DefaultDialer.Dial(b.url, nil)
	if err != nil {
		return fmt.Errorf("dial bus %s: %w", b.url, err)
	}
	b.conn = conn
	return nil
}

// Report writes o to the bus. A broken connection is redialled once on the
// next report.
func (b *Bus) Report(o dispatch.Outcome) error {
	data, err := json.Marshal(Message{
		ID:      uuid.NewString(),
		From:    "voxassist",
		Kind:    o.Kind.String(),
		Content: o.Reply,
		Outcome: o,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		if err := b.dial(); err != nil {
			return err
		}
	}

	_ = b.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		b.conn.Close()
		b.conn = nil
		return fmt.Errorf("write bus: %w", err)
	}
	return nil
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}
	_ = b.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := b.conn.Close()
	b.conn = nil
	return err
}
