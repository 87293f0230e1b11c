package service

import (
	"testing"

	"lookbook/backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSendRequestValidation(t *testing.T) {
	store, ids := newTestStore(t, "alice")
	svc := NewRelationService(store.Relations, store.Users)

	_, _, err := svc.SendRequest(ids[0], ids[0], models.RelationFollow)
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, _, err = svc.SendRequest(ids[0], 999, "enemy")
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, _, err = svc.SendRequest(ids[0], 999, models.RelationFollow)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSendRequestIsIdempotent(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)

	tag, created, err := svc.SendRequest(alice, bob, models.RelationFollow)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, RelationPendingSentFollow, tag)

	tag, created, err = svc.SendRequest(alice, bob, models.RelationFollow)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, RelationPendingSentFollow, tag)

	edges, err := store.Relations.BetweenPair(alice, bob)
	require.NoError(t, err)
	require.Len(t, edges, 1, "second send must not insert a duplicate edge")
}

func TestSendRequestCrossingFriendRequest(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)

	_, created, err := svc.SendRequest(alice, bob, models.RelationFriend)
	require.NoError(t, err)
	require.True(t, created)

	// Bob sending back reports the edge he already has toward him instead
	// of creating a crossing request.
	tag, created, err := svc.SendRequest(bob, alice, models.RelationFriend)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, RelationPendingReceivedFriend, tag)
}

func TestSendRequestFollowBack(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)

	_, created, err := svc.SendRequest(alice, bob, models.RelationFollow)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, svc.Accept(bob, alice, models.RelationFollow))

	// Follow edges are independent per direction: alice's incoming follow
	// must not block bob from following her back.
	tag, created, err := svc.SendRequest(bob, alice, models.RelationFollow)
	require.NoError(t, err)
	require.True(t, created, "an incoming follow must not block following back")
	require.Equal(t, RelationPendingSentFollow, tag)
	require.NoError(t, svc.Accept(alice, bob, models.RelationFollow))

	edges, err := store.Relations.BetweenPair(alice, bob)
	require.NoError(t, err)
	require.Len(t, edges, 2, "mutual follows are two distinct directed edges")
}

func TestAcceptFriendCreatesBothEdges(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)
	resolver := NewResolver(store.Relations, store.Users)

	_, _, err := svc.SendRequest(alice, bob, models.RelationFriend)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(bob, alice, models.RelationFriend))

	forward, err := store.Relations.Get(alice, bob, models.RelationFriend)
	require.NoError(t, err)
	require.NotNil(t, forward)
	require.Equal(t, models.StatusAccepted, forward.Status)

	reverse, err := store.Relations.Get(bob, alice, models.RelationFriend)
	require.NoError(t, err)
	require.NotNil(t, reverse)
	require.Equal(t, models.StatusAccepted, reverse.Status)

	for _, pair := range [][2]uint{{alice, bob}, {bob, alice}} {
		tag, err := resolver.Resolve(pair[0], pair[1])
		require.NoError(t, err)
		require.Equal(t, RelationFriend, tag)
	}
}

func TestAcceptFollow(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)

	_, _, err := svc.SendRequest(alice, bob, models.RelationFollow)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(bob, alice, models.RelationFollow))

	// No reverse edge for follows.
	reverse, err := store.Relations.Get(bob, alice, models.RelationFollow)
	require.NoError(t, err)
	require.Nil(t, reverse)
}

func TestAcceptWithoutPendingEdge(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)

	require.ErrorIs(t, svc.Accept(bob, alice, models.RelationFriend), ErrNotFound)

	// Accepting an already accepted request is also NotFound.
	_, _, err := svc.SendRequest(alice, bob, models.RelationFriend)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(bob, alice, models.RelationFriend))
	require.ErrorIs(t, svc.Accept(bob, alice, models.RelationFriend), ErrNotFound)
}

func TestRejectDeletesPendingEdge(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)
	resolver := NewResolver(store.Relations, store.Users)

	_, _, err := svc.SendRequest(alice, bob, models.RelationFriend)
	require.NoError(t, err)
	require.NoError(t, svc.Reject(bob, alice, models.RelationFriend))

	tag, err := resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.Equal(t, RelationNone, tag)

	// Rejecting again has nothing to target.
	require.ErrorIs(t, svc.Reject(bob, alice, models.RelationFriend), ErrNotFound)
}

func TestRejectAcceptedEdgeIsNotFound(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)

	_, _, err := svc.SendRequest(alice, bob, models.RelationFollow)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(bob, alice, models.RelationFollow))
	require.ErrorIs(t, svc.Reject(bob, alice, models.RelationFollow), ErrNotFound)
}

func TestRemoveFriendDeletesBothEdges(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)
	resolver := NewResolver(store.Relations, store.Users)

	_, _, err := svc.SendRequest(alice, bob, models.RelationFriend)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(bob, alice, models.RelationFriend))

	require.NoError(t, svc.Remove(alice, bob, models.RelationFriend))

	tag, err := resolver.Resolve(alice, bob)
	require.NoError(t, err)
	require.Equal(t, RelationNone, tag)

	edges, err := store.Relations.BetweenPair(alice, bob)
	require.NoError(t, err)
	require.Empty(t, edges, "no one-sided friendship may remain")

	// Removal is idempotent.
	require.NoError(t, svc.Remove(alice, bob, models.RelationFriend))
}

func TestRemoveFollowIsDirectional(t *testing.T) {
	store, ids := newTestStore(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	svc := NewRelationService(store.Relations, store.Users)

	_, _, err := svc.SendRequest(alice, bob, models.RelationFollow)
	require.NoError(t, err)
	_, _, err = svc.SendRequest(bob, alice, models.RelationFollow)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(alice, bob, models.RelationFollow))

	forward, err := store.Relations.Get(alice, bob, models.RelationFollow)
	require.NoError(t, err)
	require.Nil(t, forward)

	// Bob's own follow of alice is untouched.
	reverse, err := store.Relations.Get(bob, alice, models.RelationFollow)
	require.NoError(t, err)
	require.NotNil(t, reverse)
}
