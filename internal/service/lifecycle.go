package service

import (
	"errors"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
)

var (
	// ErrInvalidRequest means malformed input: a self-relation or an
	// unrecognized kind. Rejected before any store access.
	ErrInvalidRequest = errors.New("invalid relationship request")

	// ErrNotFound means the operation targeted an edge or user that does
	// not exist.
	ErrNotFound = errors.New("relationship not found")
)

// RelationService owns the edge lifecycle: request, accept, reject, remove.
// It maintains the reciprocal-edge invariant for friendships — a friendship
// is always two accepted edges or none, under any interleaving.
type RelationService struct {
	relations repository.RelationRepository
	users     repository.UserRepository
}

// NewRelationService creates a RelationService over the given stores.
func NewRelationService(relations repository.RelationRepository, users repository.UserRepository) *RelationService {
	return &RelationService{relations: relations, users: users}
}

// SendRequest creates a pending edge from requester to recipient. Requests
// are idempotent: if the edge already exists, the current resolved tag is
// returned with created=false instead of inserting a duplicate. Friend
// requests additionally check the reverse direction, so a crossing request
// resolves against the pending one instead of forking a second friendship.
// Follow edges are independent per direction: an incoming follow never
// blocks following back. A request that loses a concurrent race gets the
// same duplicate treatment.
func (s *RelationService) SendRequest(requesterID, recipientID uint, kind models.RelationType) (RelationTag, bool, error) {
	if requesterID == recipientID || !kind.Valid() {
		return RelationNone, false, ErrInvalidRequest
	}

	existing, err := s.users.ExistingIDs([]uint{recipientID})
	if err != nil {
		return RelationNone, false, err
	}
	if !existing[recipientID] {
		return RelationNone, false, ErrNotFound
	}

	forward, err := s.relations.Get(requesterID, recipientID, kind)
	if err != nil {
		return RelationNone, false, err
	}
	duplicate := forward != nil
	if !duplicate && kind == models.RelationFriend {
		reverse, err := s.relations.Get(recipientID, requesterID, kind)
		if err != nil {
			return RelationNone, false, err
		}
		duplicate = reverse != nil
	}
	if duplicate {
		tag, err := s.currentTag(requesterID, recipientID)
		return tag, false, err
	}

	created, err := s.relations.Create(&models.UserRelation{
		FromUserID: requesterID,
		ToUserID:   recipientID,
		Kind:       kind,
		Status:     models.StatusPending,
	})
	if err != nil {
		return RelationNone, false, err
	}
	if !created {
		tag, err := s.currentTag(requesterID, recipientID)
		return tag, false, err
	}

	if kind == models.RelationFriend {
		return RelationPendingSentFriend, true, nil
	}
	return RelationPendingSentFollow, true, nil
}

// Accept flips the pending edge requester->recipient to accepted. For
// friend edges it additionally ensures the reciprocal accepted edge in the
// same transaction: both writes land or neither does.
func (s *RelationService) Accept(recipientID, requesterID uint, kind models.RelationType) error {
	if requesterID == recipientID || !kind.Valid() {
		return ErrInvalidRequest
	}

	return s.relations.Atomically(func(tx repository.RelationRepository) error {
		rel, err := tx.Get(requesterID, recipientID, kind)
		if err != nil {
			return err
		}
		if rel == nil || rel.Status != models.StatusPending {
			return ErrNotFound
		}
		if err := tx.SetStatus(requesterID, recipientID, kind, models.StatusAccepted); err != nil {
			return err
		}

		if kind != models.RelationFriend {
			return nil
		}
		created, err := tx.Create(&models.UserRelation{
			FromUserID: recipientID,
			ToUserID:   requesterID,
			Kind:       models.RelationFriend,
			Status:     models.StatusAccepted,
		})
		if err != nil {
			return err
		}
		if !created {
			// A stale reverse edge already exists; normalize it.
			return tx.SetStatus(recipientID, requesterID, models.RelationFriend, models.StatusAccepted)
		}
		return nil
	})
}

// Reject deletes the pending edge requester->recipient. No reciprocal side
// effect; an accepted edge cannot be rejected.
func (s *RelationService) Reject(recipientID, requesterID uint, kind models.RelationType) error {
	if requesterID == recipientID || !kind.Valid() {
		return ErrInvalidRequest
	}

	return s.relations.Atomically(func(tx repository.RelationRepository) error {
		rel, err := tx.Get(requesterID, recipientID, kind)
		if err != nil {
			return err
		}
		if rel == nil || rel.Status != models.StatusPending {
			return ErrNotFound
		}
		_, err = tx.Delete(requesterID, recipientID, kind)
		return err
	})
}

// Remove tears down the relationship of the given kind between two users.
// For follow it deletes the single directed edge userID->otherID; for
// friend it deletes both directional edges in one transaction so no
// one-sided friendship can ever be observed. Removing an absent
// relationship is a no-op.
func (s *RelationService) Remove(userID, otherID uint, kind models.RelationType) error {
	if userID == otherID || !kind.Valid() {
		return ErrInvalidRequest
	}

	if kind == models.RelationFollow {
		_, err := s.relations.Delete(userID, otherID, models.RelationFollow)
		return err
	}

	return s.relations.Atomically(func(tx repository.RelationRepository) error {
		if _, err := tx.Delete(userID, otherID, models.RelationFriend); err != nil {
			return err
		}
		_, err := tx.Delete(otherID, userID, models.RelationFriend)
		return err
	})
}

func (s *RelationService) currentTag(viewerID, subjectID uint) (RelationTag, error) {
	edges, err := s.relations.BetweenPair(viewerID, subjectID)
	if err != nil {
		return RelationNone, err
	}
	return classifyEdges(viewerID, subjectID, edges), nil
}
