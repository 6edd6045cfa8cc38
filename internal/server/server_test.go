package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/tictactoe/internal/game"
	"github.com/lox/tictactoe/internal/session"
	"github.com/lox/tictactoe/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestServer(t *testing.T) (*Server, *session.Session, *httptest.Server) {
	t.Helper()

	sess := session.New(testLogger(), session.WithClock(quartz.NewMock(t)))
	srv := NewServer("127.0.0.1:0", sess, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		ts.Close()
		sess.Close()
	})
	return srv, sess, ts
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) view.Shell {
	t.Helper()

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeState, msg.Type)
	var shell view.Shell
	require.NoError(t, json.Unmarshal(msg.Data, &shell))
	return shell
}

func readError(t *testing.T, conn *websocket.Conn) ErrorData {
	t.Helper()

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func sendMessage(t *testing.T, conn *websocket.Conn, typ MessageType, data interface{}) {
	t.Helper()

	msg, err := NewMessage(typ, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func TestHealth(t *testing.T) {
	_, _, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, WaitForHealthy(ctx, ts.URL))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", BaseURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9000", BaseURL("127.0.0.1:9000"))
}

func TestPage(t *testing.T) {
	_, sess, ts := newTestServer(t)
	sess.ApplyMove(4)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	page := string(body)
	assert.Contains(t, page, "<title>Tic Tac Toe</title>")
	assert.Contains(t, page, "Next: Player O")
	assert.Contains(t, page, "⏳ Timer: 10s")
	assert.Contains(t, page, `placeholder="Player X Name"`)
	assert.Contains(t, page, `data-index="4" disabled>X</button>`)
	assert.Contains(t, page, "ws.onopen = function () { version = -1; };", "reconnects accept any version")
}

func TestAPI(t *testing.T) {
	t.Run("state", func(t *testing.T) {
		_, _, ts := newTestServer(t)

		var shell view.Shell
		assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/state", nil, &shell))
		assert.Equal(t, "Next: Player X", shell.Status)
		assert.Equal(t, game.X, shell.Turn)
		assert.Equal(t, game.TurnSeconds, shell.Timer)
		assert.Equal(t, session.ThemeLight, shell.Theme)
	})

	t.Run("moves", func(t *testing.T) {
		_, sess, ts := newTestServer(t)

		var result MoveResult
		assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/moves", map[string]int{"index": 0}, &result))
		assert.True(t, result.Applied)
		assert.Equal(t, "X", result.State.Cells[0].Label)
		assert.Equal(t, sess.Snapshot().Version, result.State.Version)
		assert.Equal(t, game.O, result.State.Turn)

		assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/moves", map[string]int{"index": 0}, &result))
		assert.False(t, result.Applied, "occupied cell")

		assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/moves", map[string]int{"index": 9}, &result))
		assert.False(t, result.Applied, "out of range")

		assert.Equal(t, game.O, sess.Snapshot().Game.Turn)
	})

	t.Run("move without index", func(t *testing.T) {
		_, _, ts := newTestServer(t)

		var errData ErrorData
		assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, ts.URL+"/api/moves", map[string]string{}, &errData))
		assert.Equal(t, ErrorCodeInvalidMessage, errData.Code)
		assert.Equal(t, "index is required", errData.Message)
	})

	t.Run("reset", func(t *testing.T) {
		_, sess, ts := newTestServer(t)
		sess.ApplyMove(0)
		before := sess.Snapshot().ID

		var shell view.Shell
		assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/reset", nil, &shell))
		assert.Equal(t, "", shell.Cells[0].Label)
		assert.Equal(t, game.X, shell.Turn)
		assert.NotEqual(t, before, shell.SessionID)
	})

	t.Run("players", func(t *testing.T) {
		_, _, ts := newTestServer(t)

		var shell view.Shell
		assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPut, ts.URL+"/api/players/x", map[string]string{"name": "Alice"}, &shell))
		assert.Equal(t, "Alice", shell.Players.X)
		assert.Equal(t, "Next: Alice", shell.Status)

		var errData ErrorData
		assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPut, ts.URL+"/api/players/z", map[string]string{"name": "Zed"}, &errData))
		assert.Equal(t, ErrorCodeInvalidMark, errData.Code)
	})

	t.Run("theme", func(t *testing.T) {
		_, _, ts := newTestServer(t)

		var shell view.Shell
		assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/theme/toggle", nil, &shell))
		assert.Equal(t, session.ThemeDark, shell.Theme)
		assert.Equal(t, "☀", shell.ThemeIcon)
	})
}

func TestWebSocket(t *testing.T) {
	t.Run("initial state and moves", func(t *testing.T) {
		srv, _, ts := newTestServer(t)
		conn := dial(t, ts)

		shell := readState(t, conn)
		assert.Equal(t, game.X, shell.Turn)
		assert.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

		sendMessage(t, conn, MessageTypeMove, MoveData{Index: intPtr(4)})
		shell = readState(t, conn)
		assert.Equal(t, "X", shell.Cells[4].Label)
		assert.Equal(t, game.O, shell.Turn)
	})

	t.Run("first state on a new connection is current", func(t *testing.T) {
		_, sess, ts := newTestServer(t)
		sess.ApplyMove(0)
		sess.ToggleTheme()
		sess.Reset()
		want := sess.Snapshot()
		require.Equal(t, uint64(3), want.Version)

		shell := readState(t, dial(t, ts))
		assert.Equal(t, want.Version, shell.Version)
		assert.Equal(t, want.ID, shell.SessionID)

		// a server restarted with a fresh session counts from zero, and the
		// page must accept that after reconnecting
		_, _, restarted := newTestServer(t)
		assert.Equal(t, uint64(0), readState(t, dial(t, restarted)).Version)
	})

	t.Run("changes from other clients are pushed", func(t *testing.T) {
		_, _, ts := newTestServer(t)
		a := dial(t, ts)
		b := dial(t, ts)
		readState(t, a)
		readState(t, b)

		sendMessage(t, a, MessageTypeSetName, SetNameData{Mark: "O", Name: "Bob"})
		assert.Equal(t, "Bob", readState(t, a).Players.O)
		assert.Equal(t, "Bob", readState(t, b).Players.O)

		sendMessage(t, b, MessageTypeToggleTheme, nil)
		assert.Equal(t, session.ThemeDark, readState(t, a).Theme)
	})

	t.Run("malformed messages", func(t *testing.T) {
		_, _, ts := newTestServer(t)
		conn := dial(t, ts)
		readState(t, conn)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
		assert.Equal(t, ErrorCodeInvalidMessage, readError(t, conn).Code)

		sendMessage(t, conn, MessageType("shuffle"), nil)
		assert.Equal(t, ErrorCodeUnknownType, readError(t, conn).Code)

		sendMessage(t, conn, MessageTypeMove, map[string]string{})
		errData := readError(t, conn)
		assert.Equal(t, ErrorCodeInvalidMessage, errData.Code)
		assert.Equal(t, "index is required", errData.Message)

		sendMessage(t, conn, MessageTypeSetName, SetNameData{Mark: "Q", Name: "Nope"})
		assert.Equal(t, ErrorCodeInvalidMark, readError(t, conn).Code)

		// still usable
		sendMessage(t, conn, MessageTypeMove, MoveData{Index: intPtr(0)})
		assert.Equal(t, "X", readState(t, conn).Cells[0].Label)
	})

	t.Run("shutdown closes clients", func(t *testing.T) {
		srv, _, ts := newTestServer(t)
		conn := dial(t, ts)
		readState(t, conn)
		require.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err := conn.ReadMessage()
		assert.Error(t, err)
		assert.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, time.Second, 10*time.Millisecond)
	})
}

func intPtr(i int) *int { return &i }
