package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vmtco/funday/pkg/middleware"
	"github.com/vmtco/funday/pkg/rsvp"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startServer(t *testing.T, sub rsvp.Submitter) *httptest.Server {
	t.Helper()
	return startServerWith(t, Config{ReadTimeout: 5 * time.Second}, sub)
}

func startServerWith(t *testing.T, config Config, sub rsvp.Submitter, opts ...Option) *httptest.Server {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	h := NewHandler(config, func(onStatus func(rsvp.Status)) *rsvp.Controller {
		return rsvp.NewController(rsvp.Options{
			Submitter: sub,
			OnStatus:  onStatus,
			Logger:    quietLogger(),
		})
	}, opts...)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func sendMsg(t *testing.T, ws *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := ws.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readMsg(t *testing.T, ws *websocket.Conn) ServerMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ServerMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func fillValid(t *testing.T, ws *websocket.Conn) {
	t.Helper()
	for field, value := range map[string]string{
		rsvp.FieldFirstName:      "Jane",
		rsvp.FieldLastName:       "Doe",
		rsvp.FieldEmail:          "jane@x.com",
		rsvp.FieldCellPhone:      "123-456-7890",
		rsvp.FieldEmergencyPhone: "987-654-3210",
	} {
		sendMsg(t, ws, ClientMessage{Type: TypeInput, Field: field, Value: value})
	}
	sendMsg(t, ws, ClientMessage{Type: TypeToggle, Value: "Volleyball", Checked: true})
}

func instant() rsvp.Submitter {
	return rsvp.SubmitterFunc(func(context.Context, rsvp.FormState) error { return nil })
}

func TestLive_InvalidSubmitReturnsErrors(t *testing.T) {
	ws := dial(t, startServer(t, instant()))

	sendMsg(t, ws, ClientMessage{Type: TypeInput, Field: rsvp.FieldEmail, Value: "not-an-email"})
	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})

	msg := readMsg(t, ws)
	if msg.Type != TypeErrors {
		t.Fatalf("Type = %q, want %q", msg.Type, TypeErrors)
	}
	want := map[string]string{
		rsvp.FieldFirstName:      rsvp.MsgFirstNameRequired,
		rsvp.FieldLastName:       rsvp.MsgLastNameRequired,
		rsvp.FieldEmail:          rsvp.MsgEmailInvalid,
		rsvp.FieldCellPhone:      rsvp.MsgCellPhoneRequired,
		rsvp.FieldEmergencyPhone: rsvp.MsgEmergencyPhoneRequired,
		rsvp.FieldActivities:     rsvp.MsgActivitiesRequired,
	}
	if diff := cmp.Diff(want, msg.Errors); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
}

func TestLive_AcceptedSubmitNavigates(t *testing.T) {
	ws := dial(t, startServer(t, instant()))
	fillValid(t, ws)
	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})

	var got []string
	for {
		msg := readMsg(t, ws)
		switch msg.Type {
		case TypeStatus:
			got = append(got, "status:"+map[bool]string{true: "on", false: "off"}[*msg.Submitting])
		case TypeErrors:
			if len(msg.Errors) != 0 {
				t.Fatalf("unexpected errors: %v", msg.Errors)
			}
			got = append(got, "errors")
		case TypeNavigate:
			got = append(got, "navigate:"+msg.URL)
		}
		if msg.Type == TypeNavigate {
			break
		}
	}

	want := []string{"status:on", "status:off", "errors", "navigate:/confirmation?name=Jane"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
}

func TestLive_FailedSubmitSendsToast(t *testing.T) {
	ws := dial(t, startServer(t, rsvp.SubmitterFunc(func(context.Context, rsvp.FormState) error {
		return errors.New("unavailable")
	})))
	fillValid(t, ws)
	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})

	for {
		msg := readMsg(t, ws)
		if msg.Type == TypeNavigate {
			t.Fatal("failed submission navigated")
		}
		if msg.Type == TypeToast {
			if msg.Level != "error" || msg.Message != rsvp.FailureAlert {
				t.Errorf("toast = %+v", msg)
			}
			return
		}
	}
}

func TestLive_EditsFlowWhileSubmitting(t *testing.T) {
	release := make(chan struct{})
	seen := make(chan rsvp.FormState, 1)
	ws := dial(t, startServer(t, rsvp.SubmitterFunc(func(_ context.Context, s rsvp.FormState) error {
		seen <- s
		<-release
		return nil
	})))
	fillValid(t, ws)
	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})

	if msg := readMsg(t, ws); msg.Type != TypeStatus || !*msg.Submitting {
		t.Fatalf("first message = %+v, want submitting status", msg)
	}

	// Second submit is refused silently; an edit is still accepted.
	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})
	sendMsg(t, ws, ClientMessage{Type: TypeInput, Field: rsvp.FieldFirstName, Value: "Janet"})
	time.Sleep(50 * time.Millisecond)
	close(release)

	for {
		msg := readMsg(t, ws)
		if msg.Type == TypeNavigate {
			if msg.URL != "/confirmation?name=Jane" {
				t.Errorf("URL = %q, want snapshot name Jane", msg.URL)
			}
			break
		}
	}
	if s := <-seen; s.FirstName != "Jane" {
		t.Errorf("submitter saw %q", s.FirstName)
	}
}

func TestLive_BadMessagesAreIgnored(t *testing.T) {
	ws := dial(t, startServer(t, instant()))

	if err := ws.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	sendMsg(t, ws, ClientMessage{Type: "explode"})
	sendMsg(t, ws, ClientMessage{Type: TypeInput, Field: "nope", Value: "x"})
	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})

	if msg := readMsg(t, ws); msg.Type != TypeErrors {
		t.Errorf("connection did not survive bad input: %+v", msg)
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "example.com", "", true},
		{"same", "example.com", "https://example.com", true},
		{"same with port", "localhost:8080", "http://localhost:8080", true},
		{"cross", "example.com", "https://evil.com", false},
		{"port mismatch", "localhost:8080", "http://localhost:9090", false},
		{"bad origin", "example.com", "://bad", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/live", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	d := DefaultConfig()
	if c.ReadTimeout != d.ReadTimeout || c.WriteTimeout != d.WriteTimeout || c.MaxMessageSize != d.MaxMessageSize {
		t.Errorf("withDefaults() = %+v", c)
	}
	if c.HeartbeatInterval != d.HeartbeatInterval {
		t.Errorf("HeartbeatInterval = %v, want %v", c.HeartbeatInterval, d.HeartbeatInterval)
	}
	if c.CheckOrigin == nil {
		t.Error("CheckOrigin not defaulted")
	}
}

func TestConfigHeartbeatBelowReadTimeout(t *testing.T) {
	c := Config{ReadTimeout: 10 * time.Second, HeartbeatInterval: time.Minute}.withDefaults()
	if c.HeartbeatInterval != 5*time.Second {
		t.Errorf("HeartbeatInterval = %v, want 5s", c.HeartbeatInterval)
	}
}

func TestLive_HeartbeatKeepsIdleClient(t *testing.T) {
	srv := startServerWith(t, Config{
		ReadTimeout:       200 * time.Millisecond,
		HeartbeatInterval: 50 * time.Millisecond,
	}, instant())
	ws := dial(t, srv)

	// Pings are only answered while the client is reading.
	msgs := make(chan ServerMessage, 8)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg ServerMessage
			if err := ws.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			msgs <- msg
		}
	}()

	select {
	case err := <-readErr:
		t.Fatalf("idle connection dropped: %v", err)
	case <-time.After(600 * time.Millisecond):
	}

	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})
	select {
	case msg := <-msgs:
		if msg.Type != TypeErrors {
			t.Errorf("Type = %q, want %q", msg.Type, TypeErrors)
		}
	case err := <-readErr:
		t.Fatalf("read after idle: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply after idle period")
	}
}

func TestLive_MessageTypeLabelsBounded(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	ws := dial(t, startServerWith(t, Config{ReadTimeout: 5 * time.Second}, instant(), WithMetrics(metrics)))

	const junk = 50
	for i := 0; i < junk; i++ {
		sendMsg(t, ws, ClientMessage{Type: fmt.Sprintf("junk-%d", i)})
	}
	sendMsg(t, ws, ClientMessage{Type: TypeSubmit})
	if msg := readMsg(t, ws); msg.Type != TypeErrors {
		t.Fatalf("Type = %q, want %q", msg.Type, TypeErrors)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "funday_live_messages_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "type" {
					got[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}

	want := map[string]float64{"unknown": junk, TypeSubmit: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("live message series mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageLabel(t *testing.T) {
	for in, want := range map[string]string{
		TypeInput:  TypeInput,
		TypeToggle: TypeToggle,
		TypeSubmit: TypeSubmit,
		TypeErrors: "unknown",
		"":         "unknown",
		"INPUT":    "unknown",
	} {
		if got := messageLabel(in); got != want {
			t.Errorf("messageLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
