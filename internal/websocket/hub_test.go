package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewIsolatedLogger(t.TempDir() + "/hub.log")
}

func waitForClients(t *testing.T, hub *Hub, sessionID uuid.UUID, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		got := len(hub.clients[sessionID])
		hub.mu.RUnlock()
		if got == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client count not reached in time")
}

func TestFanoutEnvelopeKeepsFrameParseable(t *testing.T) {
	hub := NewHub(nil, testLogger(t))
	sessionID := uuid.New()

	change := events.NewRowChange(events.TableSessions, events.ActionUpdate, sessionID, sessionID, nil)
	frame, err := json.Marshal(map[string]interface{}{"type": "change", "data": change})
	require.NoError(t, err)

	payload, err := hub.envelope(sessionID, frame)
	require.NoError(t, err)

	var env fanoutEnvelope
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, hub.id, env.Origin)
	assert.Equal(t, sessionID.String(), env.SessionID)

	// The frame must survive the round trip as JSON, not as a base64 blob.
	assert.JSONEq(t, string(frame), string(env.Message))
	var decoded struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Message, &decoded))
	assert.Equal(t, "change", decoded.Type)
}

func TestFanoutSkipsOwnEcho(t *testing.T) {
	hub := NewHub(nil, testLogger(t))
	go hub.Run()

	sessionID := uuid.New()
	client := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 4)}
	hub.register <- client
	waitForClients(t, hub, sessionID, 1)

	frame := []byte(`{"type":"change"}`)

	own, err := hub.envelope(sessionID, frame)
	require.NoError(t, err)
	hub.handleFanout(own)

	other := &Hub{id: uuid.New().String()}
	foreign, err := other.envelope(sessionID, frame)
	require.NoError(t, err)
	hub.handleFanout(foreign)

	select {
	case got := <-client.Send:
		assert.Equal(t, frame, got, "frame from another instance is forwarded verbatim")
	case <-time.After(2 * time.Second):
		t.Fatal("frame from another instance was not delivered")
	}

	select {
	case <-client.Send:
		t.Fatal("own echo must not be re-delivered")
	default:
	}
}
