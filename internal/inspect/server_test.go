package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/bt/internal/core/agent"
	"github.com/zeusync/bt/internal/core/bt"
)

func newManager(t *testing.T) (*agent.Manager, *agent.Agent) {
	t.Helper()
	left := 2
	work := bt.NewAction("work", func(any) bt.Status {
		if left > 0 {
			left--
			return bt.StatusRunning
		}
		return bt.StatusSuccess
	})
	tree := bt.NewTree("worker", bt.NewSequence("root", work))

	m := agent.NewManager(nil, nil, 0)
	a := agent.New("worker", tree, agent.WithID("w1"))
	require.NoError(t, m.Add(a))
	return m, a
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestInspectorHTTP(t *testing.T) {
	m, _ := newManager(t)
	s := NewServer(m, nil, "")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	require.NoError(t, m.StepAll(context.Background()))

	t.Run("List agents", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/agents")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var agents []AgentInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&agents))
		require.Equal(t, []AgentInfo{{ID: "w1", Name: "worker", Status: "Running", Step: 1}}, agents)
	})

	t.Run("Agent detail", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/agents/w1")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var detail AgentDetail
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
		require.Equal(t, "worker", detail.Snapshot.Root)
		require.Len(t, detail.Snapshot.Entries, 2)
		require.Equal(t, "work", detail.Snapshot.Entries[1].Name)
		require.True(t, detail.Snapshot.Entries[1].Active)
		require.Len(t, detail.History, 1)
		require.Equal(t, "work", detail.History[0].Origin)
	})

	t.Run("Unknown agent", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/agents/nope")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestInspectorWebSocket(t *testing.T) {
	m, _ := newManager(t)
	s := NewServer(m, nil, "")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	t.Run("Unknown agent is rejected", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(u+"?agent=nope", nil)
		require.Error(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Frames follow steps", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(u+"?agent=w1", nil)
		require.NoError(t, err)
		defer conn.Close()

		first := readFrame(t, conn)
		require.Equal(t, "w1", first.Agent)
		require.Equal(t, "None", first.Snapshot.Status)

		for step := uint64(1); step <= 3; step++ {
			require.NoError(t, m.StepAll(context.Background()))
			f := readFrame(t, conn)
			require.Equal(t, step, f.Step)
			require.NotEqual(t, first.Fingerprint, f.Fingerprint)
			first = f
		}
		require.Equal(t, "Success", first.Snapshot.Status)
	})
}

func TestInspectorLifecycle(t *testing.T) {
	m, _ := newManager(t)
	s := NewServer(m, nil, "127.0.0.1:0")
	require.NoError(t, s.Start(context.Background()))
	require.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/ws?agent=w1", nil)
	require.NoError(t, err)
	defer conn.Close()
	readFrame(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.Equal(t, 1, m.Events().Subscribers(agent.EventStep))
	require.NoError(t, s.Stop(ctx))
	require.Equal(t, 0, m.Events().Subscribers(agent.EventStep))

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	require.NoError(t, s.Stop(ctx))

	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, 1, m.Events().Subscribers(agent.EventStep))
	require.NoError(t, s.Stop(ctx))
}
