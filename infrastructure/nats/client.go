package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"gofiber-todo/pkg/logger"
)

// Client wraps NATS connection (core pub/sub, event ไม่ต้อง persist)
type Client struct {
	conn *nats.Conn
}

// ClientConfig configuration สำหรับ NATS Client
type ClientConfig struct {
	URL  string // nats://localhost:4222
	Name string
}

// NewClient เชื่อมต่อ NATS
func NewClient(cfg ClientConfig) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1), // Reconnect forever
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS client initialized", "url", cfg.URL)
	return &Client{conn: nc}, nil
}

// NewClientFromConn ใช้ connection ที่มีอยู่แล้ว (เช่น test กับ embedded server)
func NewClientFromConn(conn *nats.Conn) *Client {
	return &Client{conn: conn}
}

// Conn returns the underlying NATS connection
func (c *Client) Conn() *nats.Conn {
	return c.conn
}

// IsConnected ใช้ใน health check
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close drain แล้วปิด connection
func (c *Client) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Drain(); err != nil {
		logger.Warn("NATS drain failed", "error", err)
		c.conn.Close()
	}
	logger.Info("NATS connection closed")
}
