package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"
)

// testToken has the shape the Bot API issues, so client-side validation
// accepts it.
const testToken = "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw4"

// apiHandler handles one Bot API method and returns the HTTP status plus
// the JSON body to respond with.
type apiHandler func(body []byte) (int, string)

// fakeAPI is an httptest stand-in for the Bot API. Handlers are keyed by
// method name (getMe, getUpdates, sendMessage); request bodies are
// recorded per method.
type fakeAPI struct {
	mu       sync.Mutex
	requests map[string][][]byte
}

func newTestClient(t *testing.T, handlers map[string]apiHandler) (*Client, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{requests: map[string][][]byte{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/bot"+testToken+"/") {
			t.Errorf("request path %q missing bot token prefix", r.URL.Path)
		}
		method := path.Base(r.URL.Path)
		body, _ := io.ReadAll(r.Body)

		api.mu.Lock()
		api.requests[method] = append(api.requests[method], body)
		api.mu.Unlock()

		h, ok := handlers[method]
		if !ok {
			t.Errorf("unexpected API call: %s", method)
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
			return
		}
		status, resp := h(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(testToken, WithAPIServer(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, api
}

func (a *fakeAPI) lastRequest(t *testing.T, method string) []byte {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	reqs := a.requests[method]
	if len(reqs) == 0 {
		t.Fatalf("no %s requests recorded", method)
	}
	return reqs[len(reqs)-1]
}

func TestVerifyToken(t *testing.T) {
	client, _ := newTestClient(t, map[string]apiHandler{
		"getMe": func([]byte) (int, string) {
			return 200, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Demo Bot","username":"demo_bot"}}`
		},
	})

	identity, err := client.VerifyToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Handle != "demo_bot" {
		t.Errorf("handle = %q, want demo_bot", identity.Handle)
	}
	if identity.DisplayName != "Demo Bot" {
		t.Errorf("display name = %q, want Demo Bot", identity.DisplayName)
	}
}

func TestVerifyTokenRejected(t *testing.T) {
	client, _ := newTestClient(t, map[string]apiHandler{
		"getMe": func([]byte) (int, string) {
			return 401, `{"ok":false,"error_code":401,"description":"Unauthorized"}`
		},
	})

	if _, err := client.VerifyToken(context.Background()); err == nil {
		t.Fatal("expected verification failure for rejected token")
	}
}

func TestPollConvertsMessagesAndAdvancesCursor(t *testing.T) {
	client, api := newTestClient(t, map[string]apiHandler{
		"getUpdates": func([]byte) (int, string) {
			return 200, `{"ok":true,"result":[
				{"update_id":1,"message":{"message_id":5,"date":1,"chat":{"id":777,"type":"private"},"text":"/start","from":{"id":9,"is_bot":false,"first_name":"Alice"}}},
				{"update_id":2,"edited_message":{"message_id":5,"date":2,"chat":{"id":777,"type":"private"},"text":"edit"}}
			]}`
		},
	})

	events, cursor := client.Poll(context.Background(), Cursor{}, time.Second)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (non-message updates are skipped)", len(events))
	}
	ev := events[0]
	if ev.ID != 1 || ev.ConversationID != "777" || ev.Text != "/start" || ev.SenderName != "Alice" {
		t.Errorf("event = %+v", ev)
	}
	// Skipped updates still advance the cursor past their ids.
	if cursor.Offset() != 3 {
		t.Errorf("cursor offset = %d, want 3", cursor.Offset())
	}

	// The next poll requests from the advanced offset.
	client.Poll(context.Background(), cursor, time.Second)
	var params struct {
		Offset  int `json:"offset"`
		Timeout int `json:"timeout"`
	}
	if err := json.Unmarshal(api.lastRequest(t, "getUpdates"), &params); err != nil {
		t.Fatalf("decode getUpdates request: %v", err)
	}
	if params.Offset != 3 {
		t.Errorf("requested offset = %d, want 3", params.Offset)
	}
	if params.Timeout != 1 {
		t.Errorf("requested timeout = %d, want 1", params.Timeout)
	}
}

func TestPollFailureLeavesCursorUnchanged(t *testing.T) {
	client, _ := newTestClient(t, map[string]apiHandler{
		"getUpdates": func([]byte) (int, string) {
			return 500, `not json at all`
		},
	})

	before := Cursor{}.Advance(41)
	events, after := client.Poll(context.Background(), before, time.Second)

	if len(events) != 0 {
		t.Errorf("got %d events from a failed poll, want 0", len(events))
	}
	if after.Offset() != before.Offset() {
		t.Errorf("cursor moved on failure: %d -> %d", before.Offset(), after.Offset())
	}
}

func TestPollEmptyBatchLeavesCursorUnchanged(t *testing.T) {
	client, _ := newTestClient(t, map[string]apiHandler{
		"getUpdates": func([]byte) (int, string) {
			return 200, `{"ok":true,"result":[]}`
		},
	})

	before := Cursor{}.Advance(9)
	events, after := client.Poll(context.Background(), before, time.Second)

	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
	if after.Offset() != before.Offset() {
		t.Errorf("cursor moved on empty batch: %d -> %d", before.Offset(), after.Offset())
	}
}

func TestSend(t *testing.T) {
	client, api := newTestClient(t, map[string]apiHandler{
		"sendMessage": func([]byte) (int, string) {
			return 200, `{"ok":true,"result":{"message_id":10,"date":1,"chat":{"id":777,"type":"private"},"text":"hello"}}`
		},
	})

	if err := client.Send(context.Background(), "777", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var params struct {
		ChatID    int64  `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}
	if err := json.Unmarshal(api.lastRequest(t, "sendMessage"), &params); err != nil {
		t.Fatalf("decode sendMessage request: %v", err)
	}
	if params.ChatID != 777 {
		t.Errorf("chat_id = %d, want 777", params.ChatID)
	}
	if params.Text != "hello" {
		t.Errorf("text = %q, want hello", params.Text)
	}
	if params.ParseMode != "Markdown" {
		t.Errorf("parse_mode = %q, want Markdown", params.ParseMode)
	}
}

func TestSendRejectsInvalidConversationID(t *testing.T) {
	client, _ := newTestClient(t, map[string]apiHandler{})

	if err := client.Send(context.Background(), "not-a-chat-id", "hi"); err == nil {
		t.Fatal("expected error for non-numeric conversation id")
	}
}
