// Package twitch implements a minimal Twitch chat client over the
// IRC-on-WebSocket gateway.
package twitch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultGatewayURL is Twitch's secure chat gateway.
const DefaultGatewayURL = "wss://irc-ws.chat.twitch.tv:443"

const reconnectDelay = 3 * time.Second

// Handler receives every chat message from the joined channels.
type Handler func(ctx context.Context, msg Message)

// Config holds chat connection settings.
type Config struct {
	// GatewayURL overrides the chat gateway, mainly for tests.
	GatewayURL string

	// Username is the bot's Twitch login name.
	Username string

	// Token is the OAuth token, with or without the "oauth:" prefix.
	Token string

	// Channels lists the channels to join.
	Channels []string
}

// Client maintains a chat connection, reconnecting when it drops.
type Client struct {
	cfg     Config
	handler Handler
	logger  *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a chat client. The handler is called from the read
// loop for every PRIVMSG.
func NewClient(cfg Config, handler Handler, logger *slog.Logger) *Client {
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = DefaultGatewayURL
	}
	return &Client{cfg: cfg, handler: handler, logger: logger}
}

// Run connects to the gateway and processes messages until the context is
// cancelled, redialing after connection failures.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.connectAndListen(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("chat connection lost", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Client) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.GatewayURL, nil)
	if err != nil {
		return fmt.Errorf("dial chat gateway: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	// Close the socket when the context is cancelled so the read loop
	// unblocks.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := c.login(); err != nil {
		return err
	}
	c.logger.Info("connected to chat", "channels", strings.Join(c.cfg.Channels, ","))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read chat message: %w", err)
		}
		for _, raw := range strings.Split(string(data), "\r\n") {
			if raw == "" {
				continue
			}
			c.handleLine(ctx, raw)
		}
	}
}

func (c *Client) login() error {
	token := c.cfg.Token
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}

	lines := []string{
		"PASS " + token,
		"NICK " + strings.ToLower(c.cfg.Username),
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
	}
	for _, channel := range c.cfg.Channels {
		lines = append(lines, "JOIN #"+strings.ToLower(channel))
	}
	for _, line := range lines {
		if err := c.writeLine(line); err != nil {
			return fmt.Errorf("chat login: %w", err)
		}
	}
	return nil
}

func (c *Client) handleLine(ctx context.Context, raw string) {
	line := parseLine(raw)
	switch line.command {
	case "PING":
		if err := c.writeLine("PONG :" + line.trailing); err != nil {
			c.logger.Error("failed to answer ping", "error", err)
		}
	case "RECONNECT":
		// The gateway is about to drop us; force the redial now.
		c.logger.Info("chat gateway requested reconnect")
		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.mu.Unlock()
	case "NOTICE":
		c.logger.Warn("chat notice", "text", line.trailing)
	case "PRIVMSG":
		if msg, ok := line.privmsg(); ok && c.handler != nil {
			c.handler(ctx, msg)
		}
	}
}

// Say sends a chat message to a channel.
func (c *Client) Say(channel, text string) error {
	return c.writeLine(fmt.Sprintf("PRIVMSG #%s :%s", strings.ToLower(channel), text))
}

func (c *Client) writeLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}
