package service

import (
	"testing"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, usernames ...string) (*repository.MemoryStore, []uint) {
	t.Helper()
	store := repository.NewMemoryStore()
	ids := make([]uint, 0, len(usernames))
	for _, name := range usernames {
		u := models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
		require.NoError(t, store.Users.Create(&u))
		ids = append(ids, u.ID)
	}
	return store, ids
}

func addEdge(t *testing.T, store *repository.MemoryStore, from, to uint, kind models.RelationType, status models.FriendshipStatus) {
	t.Helper()
	created, err := store.Relations.Create(&models.UserRelation{
		FromUserID: from,
		ToUserID:   to,
		Kind:       kind,
		Status:     status,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestResolveNoRelation(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	resolver := NewResolver(store.Relations, store.Users)

	tag, err := resolver.Resolve(ids[0], ids[1])
	require.NoError(t, err)
	require.Equal(t, RelationNone, tag)
}

func TestResolveSelfIsInvalid(t *testing.T) {
	store, ids := newTestStore(t, "alice")
	resolver := NewResolver(store.Relations, store.Users)

	_, err := resolver.Resolve(ids[0], ids[0])
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolveFollowDirections(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	resolver := NewResolver(store.Relations, store.Users)

	addEdge(t, store, alice, bob, models.RelationFollow, models.StatusPending)

	tag, err := resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.Equal(t, RelationPendingSentFollow, tag)

	tag, err = resolver.Resolve(bob, alice)
	require.NoError(t, err)
	require.Equal(t, RelationPendingReceivedFollow, tag)

	require.NoError(t, store.Relations.SetStatus(alice, bob, models.RelationFollow, models.StatusAccepted))

	tag, err = resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.Equal(t, RelationFollowing, tag)

	tag, err = resolver.Resolve(bob, alice)
	require.NoError(t, err)
	require.Equal(t, RelationFollowedBy, tag)
}

func TestResolveFriendIsSymmetric(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	resolver := NewResolver(store.Relations, store.Users)

	addEdge(t, store, alice, bob, models.RelationFriend, models.StatusAccepted)
	addEdge(t, store, bob, alice, models.RelationFriend, models.StatusAccepted)

	for _, pair := range [][2]uint{{alice, bob}, {bob, alice}} {
		tag, err := resolver.Resolve(pair[0], pair[1])
		require.NoError(t, err)
		require.Equal(t, RelationFriend, tag)
	}
}

func TestResolveFriendshipSupersedesStrayFollow(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	resolver := NewResolver(store.Relations, store.Users)

	// An old follow edge left over from before the friendship was formed
	// must not be reported.
	addEdge(t, store, alice, bob, models.RelationFollow, models.StatusAccepted)
	addEdge(t, store, alice, bob, models.RelationFriend, models.StatusAccepted)
	addEdge(t, store, bob, alice, models.RelationFriend, models.StatusAccepted)

	tag, err := resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.Equal(t, RelationFriend, tag)
}

func TestResolvePendingFriendDirections(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	resolver := NewResolver(store.Relations, store.Users)

	addEdge(t, store, alice, bob, models.RelationFriend, models.StatusPending)

	tag, err := resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.Equal(t, RelationPendingSentFriend, tag)

	tag, err = resolver.Resolve(bob, alice)
	require.NoError(t, err)
	require.Equal(t, RelationPendingReceivedFriend, tag)
}

func TestResolveOneSidedFriendEdgeIsNotFriendship(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	resolver := NewResolver(store.Relations, store.Users)

	// Corrupt state: only one accepted friend edge. Must not read as a
	// friendship.
	addEdge(t, store, alice, bob, models.RelationFriend, models.StatusAccepted)

	tag, err := resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.NotEqual(t, RelationFriend, tag)
}

func TestResolveOrphanedSubject(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	resolver := NewResolver(store.Relations, store.Users)

	addEdge(t, store, alice, bob, models.RelationFollow, models.StatusAccepted)
	store.Users.Remove(bob)

	tag, err := resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.Equal(t, RelationNone, tag)
}

func TestResolveAll(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob", "carol", "dave", "erin")
	alice, bob, carol, dave, erin := ids[0], ids[1], ids[2], ids[3], ids[4]
	resolver := NewResolver(store.Relations, store.Users)

	addEdge(t, store, alice, bob, models.RelationFollow, models.StatusAccepted)
	addEdge(t, store, alice, carol, models.RelationFriend, models.StatusAccepted)
	addEdge(t, store, carol, alice, models.RelationFriend, models.StatusAccepted)
	addEdge(t, store, dave, alice, models.RelationFriend, models.StatusPending)
	addEdge(t, store, alice, erin, models.RelationFollow, models.StatusAccepted)
	store.Users.Remove(erin)

	tags, err := resolver.ResolveAll(alice)
	require.NoError(t, err)

	require.Equal(t, RelationFollowing, tags[bob])
	require.Equal(t, RelationFriend, tags[carol])
	require.Equal(t, RelationPendingReceivedFriend, tags[dave])
	require.NotContains(t, tags, erin, "orphaned counterpart must be excluded")
}
