package service

import (
	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
)

// Resolver computes the canonical relationship tag between two users. It is
// the single computation path for every caller — profile views, search
// annotation, the feed composer — so the answer can never drift between
// endpoints.
type Resolver struct {
	relations repository.RelationRepository
	users     repository.UserRepository
}

// NewResolver creates a Resolver over the given stores.
func NewResolver(relations repository.RelationRepository, users repository.UserRepository) *Resolver {
	return &Resolver{relations: relations, users: users}
}

// Resolve returns the relationship tag from viewerID's perspective toward
// subjectID. A subject that no longer resolves in the user store yields
// RelationNone; orphaned edges are never surfaced as errors.
func (r *Resolver) Resolve(viewerID, subjectID uint) (RelationTag, error) {
	if viewerID == subjectID {
		return RelationNone, ErrInvalidRequest
	}

	existing, err := r.users.ExistingIDs([]uint{subjectID})
	if err != nil {
		return RelationNone, err
	}
	if !existing[subjectID] {
		return RelationNone, nil
	}

	edges, err := r.relations.BetweenPair(viewerID, subjectID)
	if err != nil {
		return RelationNone, err
	}
	return classifyEdges(viewerID, subjectID, edges), nil
}

// ResolveAll is the bulk form: one relationship read, one tag per
// counterpart the viewer shares any edge with. Counterparts whose user
// record is gone are silently excluded. Users the viewer has no edge with
// are absent from the map, which reads as RelationNone.
func (r *Resolver) ResolveAll(viewerID uint) (map[uint]RelationTag, error) {
	edges, err := r.relations.Touching(viewerID)
	if err != nil {
		return nil, err
	}

	byCounterpart := make(map[uint][]int)
	for i, e := range edges {
		other := e.FromUserID
		if other == viewerID {
			other = e.ToUserID
		}
		if other == viewerID {
			continue
		}
		byCounterpart[other] = append(byCounterpart[other], i)
	}

	ids := make([]uint, 0, len(byCounterpart))
	for id := range byCounterpart {
		ids = append(ids, id)
	}
	existing, err := r.users.ExistingIDs(ids)
	if err != nil {
		return nil, err
	}

	tags := make(map[uint]RelationTag, len(byCounterpart))
	for other, idxs := range byCounterpart {
		if !existing[other] {
			continue
		}
		pair := make([]models.UserRelation, 0, len(idxs))
		for _, i := range idxs {
			pair = append(pair, edges[i])
		}
		tags[other] = classifyEdges(viewerID, other, pair)
	}
	return tags, nil
}
