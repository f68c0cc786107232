package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestLiveStream_PushesStatus(t *testing.T) {
	h := Handler(&fakeReceiver{snap: fixedSnapshot()}, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var doc StatusDoc
	if err := conn.ReadJSON(&doc); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.Service != "navmon" {
		t.Fatalf("service = %q", doc.Service)
	}
	if doc.Receiver.Status != "outdoor" || doc.Receiver.SpeedKmh != 41.5 {
		t.Fatalf("receiver = %+v", doc.Receiver)
	}
}
