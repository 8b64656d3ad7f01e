package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"calorie-backend/events"
	"calorie-backend/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, h *Hub, userID uint) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_DeliversOnlyToOwner(t *testing.T) {
	h := NewHub(testutil.Logger())
	mine := dial(t, h, 1)
	theirs := dial(t, h, 2)
	require.Eventually(t, func() bool { return h.Connections(1) == 1 && h.Connections(2) == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, h.Publish(events.Event{Kind: events.KindFoodLogSaved, UserID: 1, Data: "pizza"}))

	_ = mine.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := mine.ReadMessage()
	require.NoError(t, err)
	var ev events.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, events.KindFoodLogSaved, ev.Kind)
	assert.Equal(t, "pizza", ev.Data)

	_ = theirs.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = theirs.ReadMessage()
	assert.Error(t, err, "other user must not receive the event")
}

func TestHub_UnregistersOnClose(t *testing.T) {
	h := NewHub(testutil.Logger())
	conn := dial(t, h, 7)
	require.Eventually(t, func() bool { return h.Connections(7) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.Connections(7) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	h := NewHub(nil)
	assert.NoError(t, h.Publish(events.Event{UserID: 99}))
}

func TestServe_RejectsPlainHTTP(t *testing.T) {
	h := NewHub(testutil.Logger())
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/ws", nil), 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, h.Connections(1))
}
