package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/session"
)

func TestCreateAndGet(t *testing.T) {
	store := session.NewStore()
	id := store.Create(session.Session{UserID: "u1", ExternalToken: "tok"})
	require.NotEmpty(t, id)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Empty(t, sess.ClubID)

	_, err = store.Get("unknown")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestBindClub(t *testing.T) {
	store := session.NewStore()
	id := store.Create(session.Session{UserID: "u1"})

	require.NoError(t, store.BindClub(id, "c1"))
	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "c1", sess.ClubID)

	assert.ErrorIs(t, store.BindClub("unknown", "c1"), session.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := session.NewStore()
	id := store.Create(session.Session{UserID: "u1"})
	store.Delete(id)

	_, err := store.Get(id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionIDsAreUnique(t *testing.T) {
	store := session.NewStore()
	first := store.Create(session.Session{UserID: "u1"})
	second := store.Create(session.Session{UserID: "u1"})
	assert.NotEqual(t, first, second)
}
