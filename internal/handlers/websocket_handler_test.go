package handlers

import (
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWatcher(t *testing.T, addr, path string) *fastws.Conn {
	t.Helper()
	conn, resp, err := fastws.DefaultDialer.Dial("ws://"+addr+path, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func readMessage(t *testing.T, conn *fastws.Conn) models.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var m models.Message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestWebSocketReplaysHistoryThenStreams(t *testing.T) {
	app, service := newTestApp(t)
	addr := listen(t, app)

	d := service.CreateDebate([]models.Participant{
		models.NewParticipant("Agent_1", models.RoleDebater),
		models.NewParticipant("VERA_Agent", models.RoleVerifier),
	}, 1, "X will rise", "")
	claim, err := models.NewMessage(models.Propose, "User", models.Broadcast, "X will rise", "msg1")
	require.NoError(t, err)
	service.AppendMessage(d, claim)

	conn := dialWatcher(t, addr, "/ws/debates/"+d.DebateId.String()+"?name=viewer")

	// The replayed message arrives only after the watcher is registered.
	assert.Equal(t, claim, readMessage(t, conn))

	live, err := models.NewMessage(models.Challenge, "Agent_1", models.Broadcast, "Demand is soft", "r1", "msg1")
	require.NoError(t, err)
	service.AppendMessage(d, live)
	assert.Equal(t, live, readMessage(t, conn))

	d.Mu.Lock()
	require.Len(t, d.Watchers, 1)
	for _, w := range d.Watchers {
		assert.Equal(t, "viewer", w.Name)
	}
	d.Mu.Unlock()

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		d.Mu.Lock()
		defer d.Mu.Unlock()
		return len(d.Watchers) == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWebSocketUnknownDebateCloses(t *testing.T) {
	app, _ := newTestApp(t)
	addr := listen(t, app)

	conn := dialWatcher(t, addr, "/ws/debates/00000000-0000-0000-0000-000000000000")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
