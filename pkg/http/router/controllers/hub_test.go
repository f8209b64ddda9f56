package controllers

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws/wsutil"
	"github.com/sendero-labs/sendero/pkg/concurrent"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	pool := concurrent.NewPool(4, 8)
	pool.Spawn(2)
	t.Cleanup(pool.Close)
	return NewHub(pool)
}

func TestHubRegisterRemove(t *testing.T) {
	hub := newTestHub(t)

	server1, client1 := net.Pipe()
	server2, client2 := net.Pipe()
	defer client1.Close()
	defer client2.Close()

	first := hub.Register(server1)
	second := hub.Register(server2)

	assert.Equal(t, 2, hub.NumUsers())
	assert.NotEqual(t, first.id, second.id)

	hub.Remove(first)
	assert.Equal(t, 1, hub.NumUsers())

	// removing the same user twice is a no-op
	hub.Remove(first)
	assert.Equal(t, 1, hub.NumUsers())

	hub.RemoveAllUser()
	assert.Equal(t, 0, hub.NumUsers())
}

func TestHubBroadcastDeliversAlert(t *testing.T) {
	hub := newTestHub(t)

	server, client := net.Pipe()
	defer client.Close()
	hub.Register(server)

	incident := datastructure.NewIncident("Bloqueo total", 19.3720, -99.1600, 9.0,
		"#E74C3C", "alert", datastructure.ORIGIN_LIVE, datastructure.INVALID_VERTEX_ID)
	hub.Broadcast(incident)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, err := wsutil.ReadServerText(client)
	require.NoError(t, err)

	var msg struct {
		Data incidentAlertMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &msg))
	assert.Equal(t, "high_impact_incident", msg.Data.Alert)
	assert.Equal(t, "Bloqueo total", msg.Data.Tipo)
	assert.Equal(t, 9.0, msg.Data.Impacto)
	assert.NotEmpty(t, msg.Data.EmittedAt)
}

func TestHubBroadcastDropsDeadClient(t *testing.T) {
	hub := newTestHub(t)

	server, client := net.Pipe()
	hub.Register(server)
	require.NoError(t, client.Close())

	incident := datastructure.NewIncident("Manifestación", 19.3780, -99.1700, 6.0,
		"#E74C3C", "protest", datastructure.ORIGIN_LIVE, datastructure.INVALID_VERTEX_ID)
	hub.Broadcast(incident)

	require.Eventually(t, func() bool {
		return hub.NumUsers() == 0
	}, 2*time.Second, 10*time.Millisecond, "failed write must drop the client")
}

func TestUserHandleCommand(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		wantKey  string
		wantFrag string
	}{
		{name: "ping", command: `{"action": "ping"}`, wantKey: "data", wantFrag: `"pong":true`},
		{name: "status probe", command: `{"action": "status"}`, wantKey: "data", wantFrag: `"subscribers":1`},
		{name: "unknown action", command: `{"action": "subscribe"}`, wantKey: "error", wantFrag: `unknown action \"subscribe\"`},
		{name: "missing action", command: `{}`, wantKey: "error", wantFrag: "validation error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := newTestHub(t)

			server, client := net.Pipe()
			defer client.Close()
			user := hub.Register(server)

			done := make(chan error, 1)
			go func() {
				done <- user.HandleCommand()
			}()

			client.SetDeadline(time.Now().Add(2 * time.Second))
			require.NoError(t, wsutil.WriteClientText(client, []byte(tt.command)))

			frame, err := wsutil.ReadServerText(client)
			require.NoError(t, err)
			require.NoError(t, <-done)

			var resp map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(frame, &resp))
			require.Contains(t, resp, tt.wantKey)
			assert.Contains(t, string(frame), tt.wantFrag)
		})
	}
}
