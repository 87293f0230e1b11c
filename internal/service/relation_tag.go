package service

import "lookbook/backend/internal/models"

// RelationTag is the canonical, de-duplicated relationship view between a
// viewer and a subject, as computed by the Resolver. Directional tags are
// always from the viewer's perspective.
type RelationTag string

const (
	RelationNone                  RelationTag = "none"
	RelationFollowing             RelationTag = "following"
	RelationFollowedBy            RelationTag = "followed_by"
	RelationFriend                RelationTag = "friend"
	RelationPendingSentFollow     RelationTag = "pending_sent_follow"
	RelationPendingSentFriend     RelationTag = "pending_sent_friend"
	RelationPendingReceivedFollow RelationTag = "pending_received_follow"
	RelationPendingReceivedFriend RelationTag = "pending_received_friend"

	// RelationSelf annotates the viewer's own posts in composed feeds.
	// Resolve never returns it; a viewer has no edge to themselves.
	RelationSelf RelationTag = "self"
)

// classifyEdges turns the raw edges between viewer and subject into a single
// tag. Friendship wins over any follow edge between the same pair, even if a
// stray follow row still exists, and a one-sided "accepted" friend edge is
// never reported as a friendship.
func classifyEdges(viewerID, subjectID uint, edges []models.UserRelation) RelationTag {
	var (
		friendOut, friendIn *models.UserRelation
		followOut, followIn *models.UserRelation
	)
	for i := range edges {
		e := &edges[i]
		switch {
		case e.Kind == models.RelationFriend && e.FromUserID == viewerID:
			friendOut = e
		case e.Kind == models.RelationFriend && e.ToUserID == viewerID:
			friendIn = e
		case e.Kind == models.RelationFollow && e.FromUserID == viewerID:
			followOut = e
		case e.Kind == models.RelationFollow && e.ToUserID == viewerID:
			followIn = e
		}
	}

	if friendOut != nil && friendOut.Status == models.StatusAccepted &&
		friendIn != nil && friendIn.Status == models.StatusAccepted {
		return RelationFriend
	}
	if friendOut != nil && friendOut.Status == models.StatusPending {
		return RelationPendingSentFriend
	}
	if friendIn != nil && friendIn.Status == models.StatusPending {
		return RelationPendingReceivedFriend
	}
	if followOut != nil {
		if followOut.Status == models.StatusAccepted {
			return RelationFollowing
		}
		return RelationPendingSentFollow
	}
	if followIn != nil {
		if followIn.Status == models.StatusAccepted {
			return RelationFollowedBy
		}
		return RelationPendingReceivedFollow
	}
	return RelationNone
}
