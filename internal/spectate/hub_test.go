package spectate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-flappy/internal/driver"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testFrame() driver.Frame {
	return driver.Frame{
		Snapshot: &flappy.Snapshot{
			Tick:          7,
			Status:        flappy.StatusGameOver,
			Cause:         flappy.CauseObstacle,
			Score:         3,
			PlayerY:       250,
			Width:         800,
			Height:        600,
			PlayerX:       377.5,
			PlayerRadius:  22.5,
			ObstacleWidth: 60,
			Obstacles: []flappy.Obstacle{
				{ID: 4, X: 410, GapTop: 120, GapHeight: 280},
			},
		},
		Best: 5,
	}
}

func TestHub_Health(t *testing.T) {
	_, srv := startHub(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","viewers":0}`, string(body))
}

func TestHub_BroadcastsFrames(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ViewerCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var hello HelloMessage
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, TypeHello, hello.Type)
	assert.Equal(t, 1, hello.Viewers)

	hub.Listener("alice")(testFrame())

	var msg FrameMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, TypeFrame, msg.Type)
	assert.Equal(t, "alice", msg.Session)
	assert.EqualValues(t, 7, msg.Tick)
	assert.Equal(t, "game_over", msg.Status)
	assert.Equal(t, "obstacle", msg.Cause)
	assert.Equal(t, 3, msg.Score)
	assert.Equal(t, 5, msg.Best)
	require.Len(t, msg.Obstacles, 1)
	assert.EqualValues(t, 4, msg.Obstacles[0].ID)
	assert.Equal(t, 280.0, msg.Obstacles[0].GapHeight)
}

func TestHub_ViewerDisconnect(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ViewerCount() == 1 }, time.Second, 5*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.ViewerCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_PublishWithoutViewersDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	// Run is not started; Publish must still return.
	for i := 0; i < 1000; i++ {
		hub.Publish("nobody", testFrame())
	}
	assert.Zero(t, hub.ViewerCount())
}

func TestNewFrameMessageOmitsCauseWhileRunning(t *testing.T) {
	f := testFrame()
	f.Snapshot.Status = flappy.StatusRunning

	data, err := json.Marshal(NewFrameMessage("bob", f))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"cause"`)
	assert.Contains(t, string(data), `"status":"running"`)
}
