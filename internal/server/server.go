// Package server implements the live preview server: it serves a minimal
// page embedding the current chart and pushes re-rendered vector markup
// to connected browsers over a websocket hub.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"

	"github.com/chartel-dev/chartel/internal/config"
	"github.com/chartel-dev/chartel/internal/logging"
)

// Message is one websocket push to preview clients.
type Message struct {
	Type  string `json:"type"` // renderUpdate | raceFrame
	SVG   string `json:"svg,omitempty"`
	Label string `json:"label,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Preview is the live preview server. It retains the latest rendered
// markup so newly connected clients see the chart immediately.
type Preview struct {
	cfg    config.ServerConfig
	logger logging.Logger

	mu      sync.Mutex
	clients map[*client]bool
	latest  []byte

	httpServer *http.Server
}

// New creates a preview server.
func New(cfg config.ServerConfig, logger logging.Logger) *Preview {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Preview{
		cfg:     cfg,
		logger:  logger.WithComponent("server"),
		clients: make(map[*client]bool),
	}
}

// Addr returns the host:port the server binds.
func (p *Preview) Addr() string {
	return net.JoinHostPort(p.cfg.Host, fmt.Sprintf("%d", p.cfg.Port))
}

// Broadcast pushes a render update to every connected client and retains
// it for future connections.
func (p *Preview) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	p.mu.Lock()
	p.latest = payload
	for c := range p.clients {
		select {
		case c.send <- payload:
		default:
			// Slow client: drop it rather than block the render loop.
			close(c.send)
			delete(p.clients, c)
		}
	}
	p.mu.Unlock()
}

// ListenAndServe runs until the context is cancelled, then shuts down
// gracefully.
func (p *Preview) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", p.handleIndex)
	mux.HandleFunc("/ws", p.handleWebSocket)

	p.httpServer = &http.Server{
		Addr:              p.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.httpServer.ListenAndServe()
	}()

	p.logger.Info(ctx, "preview server listening", "addr", p.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (p *Preview) originPatterns() []string {
	if len(p.cfg.AllowedOrigins) > 0 {
		return p.cfg.AllowedOrigins
	}
	return []string{
		p.Addr(),
		fmt.Sprintf("localhost:%d", p.cfg.Port),
		fmt.Sprintf("127.0.0.1:%d", p.cfg.Port),
	}
}

func (p *Preview) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: p.originPatterns(),
	})
	if err != nil {
		p.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}

	p.mu.Lock()
	p.clients[c] = true
	latest := p.latest
	count := len(p.clients)
	p.mu.Unlock()

	p.logger.Debug(r.Context(), "client connected", "total", count)

	if latest != nil {
		c.send <- latest
	}

	go c.writePump(p)
	// Discard inbound messages; the preview channel is one-way.
	ctx := conn.CloseRead(context.Background())
	<-ctx.Done()
	p.drop(c)
}

func (c *client) writePump(p *Preview) {
	for payload := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			p.drop(c)
			return
		}
	}
	c.conn.Close(websocket.StatusNormalClosure, "")
}

func (p *Preview) drop(c *client) {
	p.mu.Lock()
	if p.clients[c] {
		delete(p.clients, c)
		close(c.send)
	}
	p.mu.Unlock()
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>chartel preview</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
#status { color: #888; font-size: 12px; }
</style>
</head>
<body>
<div id="chart"></div>
<p id="status">connecting…</p>
<script>
const status = document.getElementById("status");
const chart = document.getElementById("chart");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onopen = () => { status.textContent = "live"; };
ws.onclose = () => { status.textContent = "disconnected"; };
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.svg) { chart.innerHTML = msg.svg; }
  if (msg.label) { status.textContent = "frame " + msg.label; }
};
</script>
</body>
</html>
`))

func (p *Preview) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		p.logger.Warn(r.Context(), err, "writing index page")
	}
}
