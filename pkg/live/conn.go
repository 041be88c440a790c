package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vmtco/funday/pkg/middleware"
	"github.com/vmtco/funday/pkg/rsvp"
	"github.com/vmtco/funday/pkg/toast"
)

// Conn is one live form connection.
type Conn struct {
	id      string
	ctx     context.Context
	ws      *websocket.Conn
	config  Config
	ctl     *rsvp.Controller
	logger  *slog.Logger
	metrics *middleware.Metrics

	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}

	// workers tracks the heartbeat and in-flight submit goroutines.
	workers sync.WaitGroup
}

func newConn(ctx context.Context, ws *websocket.Conn, h *Handler, id string) *Conn {
	c := &Conn{
		id:      id,
		ctx:     ctx,
		ws:      ws,
		config:  h.config,
		logger:  h.logger.With("conn_id", id),
		metrics: h.metrics,
		done:    make(chan struct{}),
	}
	c.ctl = h.factory(c.onStatus)
	return c
}

// ID returns the connection ID.
func (c *Conn) ID() string {
	return c.id
}

// Done is closed when the connection has shut down.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Emit sends a client event. Toast events become toast messages; other
// events are dropped.
func (c *Conn) Emit(name string, data any) {
	if name != toast.EventName {
		c.logger.Debug("dropping unknown event", "event", name)
		return
	}
	t, ok := data.(toast.Toast)
	if !ok {
		return
	}
	c.send(ServerMessage{
		Type:    TypeToast,
		Level:   string(t.Level),
		Title:   t.Title,
		Message: t.Message,
	})
}

// serve runs the read loop, then waits for the heartbeat and in-flight
// submissions and closes the socket.
func (c *Conn) serve(cancel context.CancelFunc) {
	defer func() {
		cancel()
		c.workers.Wait()
		c.close()
	}()

	c.ws.SetReadLimit(c.config.MaxMessageSize)
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	})

	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		c.heartbeat()
	}()

	for {
		c.ws.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Warn("live read error", "error", err)
				c.metrics.RecordLiveError(err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("live decode error", "error", err)
			c.metrics.RecordLiveError(err)
			continue
		}
		c.metrics.RecordLiveMessage(messageLabel(msg.Type))
		c.handle(msg)
	}
}

func (c *Conn) handle(msg ClientMessage) {
	switch msg.Type {
	case TypeInput:
		if !c.ctl.Update(msg.Field, msg.Value) {
			c.logger.Debug("ignored input", "field", msg.Field)
		}

	case TypeToggle:
		if !c.ctl.Toggle(msg.Value, msg.Checked) {
			c.logger.Debug("ignored toggle", "activity", msg.Value)
		}

	case TypeSubmit:
		c.workers.Add(1)
		go func() {
			defer c.workers.Done()
			c.submit()
		}()

	default:
		c.logger.Debug("unknown message type", "type", msg.Type)
	}
}

// messageLabel maps a client message type onto a fixed metric label set.
func messageLabel(t string) string {
	switch t {
	case TypeInput, TypeToggle, TypeSubmit:
		return t
	}
	return "unknown"
}

// heartbeat pings the client until the connection's context ends. Pongs
// push the read deadline forward, so an idle form stays connected.
func (c *Conn) heartbeat() {
	ticker := time.NewTicker(c.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Conn) ping() error {
	if c.closed.Load() {
		return websocket.ErrCloseSent
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.config.WriteTimeout))
	if err != nil {
		c.logger.Debug("live ping error", "error", err)
		c.metrics.RecordLiveError(err)
		return err
	}
	return nil
}

func (c *Conn) submit() {
	out := c.ctl.Submit(c.ctx)
	c.metrics.RecordOutcome(out)

	switch out.Kind {
	case rsvp.Busy:
		// The in-flight submission will report its own result.
	case rsvp.Invalid:
		c.send(errorsMessage(out.Errors))
	case rsvp.Failed:
		c.send(errorsMessage(out.Errors))
		toast.Error(c, out.Alert)
	case rsvp.Accepted:
		c.send(errorsMessage(out.Errors))
		c.send(navigateMessage(out.Location))
	}
}

func (c *Conn) onStatus(s rsvp.Status) {
	c.send(statusMessage(s == rsvp.Submitting))
}

// send writes msg as JSON. Writes after close are dropped.
func (c *Conn) send(msg ServerMessage) {
	if c.closed.Load() {
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.ws.WriteJSON(msg); err != nil {
		c.logger.Debug("live write error", "type", msg.Type, "error", err)
		c.metrics.RecordLiveError(err)
	}
}

func (c *Conn) close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}

	c.writeMu.Lock()
	c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	c.ws.Close()
	close(c.done)

	c.logger.Debug("live connection closed")
}
