package ws_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/ws"
)

type fakeConn struct {
	messages [][]byte
	fail     bool
	closed   bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	if c.fail {
		return errors.New("connection reset")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestSendReachesAllClubConnections(t *testing.T) {
	manager := ws.NewManager(nil)
	first, second, other := &fakeConn{}, &fakeConn{}, &fakeConn{}
	manager.Register(first, "c1")
	manager.Register(second, "c1")
	manager.Register(other, "c2")

	manager.Send("c1", map[string]string{"type": ws.TypePlayerListUpdated})

	require.Len(t, first.messages, 1)
	require.Len(t, second.messages, 1)
	assert.Empty(t, other.messages)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(first.messages[0], &payload))
	assert.Equal(t, ws.TypePlayerListUpdated, payload["type"])
}

func TestSendToUnknownClubIsNoOp(t *testing.T) {
	manager := ws.NewManager(nil)
	manager.Send("nowhere", map[string]string{"type": "x"})
}

func TestFailedConnectionsArePruned(t *testing.T) {
	manager := ws.NewManager(nil)
	healthy, broken := &fakeConn{}, &fakeConn{fail: true}
	manager.Register(healthy, "c1")
	manager.Register(broken, "c1")
	require.Equal(t, 2, manager.ConnectionCount("c1"))

	manager.Send("c1", map[string]string{"type": "x"})

	assert.Equal(t, 1, manager.ConnectionCount("c1"))
	assert.True(t, broken.closed)
	assert.Len(t, healthy.messages, 1)

	// Subsequent sends no longer touch the pruned connection.
	manager.Send("c1", map[string]string{"type": "y"})
	assert.Len(t, healthy.messages, 2)
}

func TestUnregisterDropsEmptyClub(t *testing.T) {
	manager := ws.NewManager(nil)
	conn := &fakeConn{}
	manager.Register(conn, "c1")
	manager.Unregister(conn)

	assert.Zero(t, manager.ConnectionCount("c1"))
	assert.Zero(t, manager.ConnectionCount(""))

	// Unregistering twice is harmless.
	manager.Unregister(conn)
}

func TestBroadcastWithExclusion(t *testing.T) {
	manager := ws.NewManager(nil)
	first, second := &fakeConn{}, &fakeConn{}
	manager.Register(first, "c1")
	manager.Register(second, "c2")

	manager.Broadcast(map[string]string{"type": "maintenance"}, map[string]bool{"c2": true})

	assert.Len(t, first.messages, 1)
	assert.Empty(t, second.messages)
}

func TestNotify(t *testing.T) {
	manager := ws.NewManager(nil)
	conn := &fakeConn{}
	manager.Register(conn, "c1")

	manager.Notify(ws.Notification{ClubID: "c1", Type: ws.TypeTrainingSessionUpdated})

	require.Len(t, conn.messages, 1)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(conn.messages[0], &payload))
	assert.Equal(t, ws.TypeTrainingSessionUpdated, payload["type"])
}
