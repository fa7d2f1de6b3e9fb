package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/domain"
)

func TestLoadFromHistory(t *testing.T) {
	source := domain.CreateClub(domain.ClubCreateData{
		ActorID: "u1",
		Name:    "Alpha",
		OwnerID: "u1",
	})
	require.NoError(t, source.ChangeOwner("u2", "u1"))
	source.AddCoach("u3", "u2")
	history := source.UncommittedChanges()
	require.Len(t, history, 3)

	club := domain.NewClub()
	club.LoadFromHistory(history)

	assert.Empty(t, club.UncommittedChanges())
	assert.Equal(t, len(history)-1, club.Version())
	assert.Equal(t, "u2", club.OwnerID())
	assert.Equal(t, []string{"u3"}, club.Coaches())
}

func TestNewAggregateVersion(t *testing.T) {
	club := domain.NewClub()
	assert.Equal(t, domain.NewStreamVersion, club.Version())
	assert.Empty(t, club.UncommittedChanges())
}

func TestMarkCommitted(t *testing.T) {
	club := domain.CreateClub(domain.ClubCreateData{ActorID: "u1", Name: "Alpha", OwnerID: "u1"})
	require.NoError(t, club.ChangeOwner("u2", "u1"))

	assert.Equal(t, domain.NewStreamVersion, club.Version())
	require.Len(t, club.UncommittedChanges(), 2)

	club.MarkCommitted()
	assert.Equal(t, 1, club.Version())
	assert.Empty(t, club.UncommittedChanges())

	// A further mutation starts a fresh buffer on top of the committed version.
	require.NoError(t, club.ChangeOwner("u3", "u1"))
	assert.Equal(t, 1, club.Version())
	require.Len(t, club.UncommittedChanges(), 1)
}

func TestEventsCarryActorAndIdentity(t *testing.T) {
	club := domain.CreateClub(domain.ClubCreateData{ActorID: "u1", Name: "Alpha", OwnerID: "u1"})
	changes := club.UncommittedChanges()
	require.Len(t, changes, 1)

	created, ok := changes[0].(domain.ClubCreated)
	require.True(t, ok)
	assert.Equal(t, "u1", created.Actor())
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.OccurredAt().IsZero())
	assert.Equal(t, club.ID(), created.AggregateID())
}
