package service

import (
	"sort"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
)

// FeedItem is one post in a composed feed, annotated with the current
// resolved relationship between the viewer and the author.
type FeedItem struct {
	Post     models.Post
	Relation RelationTag
}

// FeedService assembles a viewer's aggregated feed. Visibility is decided
// from the resolver's tags, never re-derived from raw edges, and the same
// tag map drives both filtering and annotation so the two can never
// disagree within one composition.
type FeedService struct {
	posts    repository.PostRepository
	resolver *Resolver
}

// NewFeedService creates a FeedService over the given post store and
// resolver.
func NewFeedService(posts repository.PostRepository, resolver *Resolver) *FeedService {
	return &FeedService{posts: posts, resolver: resolver}
}

// Visible reports whether a post at the given visibility tier is shown to
// a viewer with the given resolved relation to the author.
func Visible(v models.Visibility, tag RelationTag) bool {
	switch tag {
	case RelationSelf:
		return true
	case RelationFriend:
		return v == models.VisibilityPublic || v == models.VisibilityFollowers || v == models.VisibilityFriends
	case RelationFollowing:
		return v == models.VisibilityPublic || v == models.VisibilityFollowers
	default:
		return v == models.VisibilityPublic
	}
}

// ComposeFeed returns the viewer's feed: their own posts plus the posts of
// followed and befriended authors that their relation tier may see, newest
// first, ties broken by post id descending, with no duplicate post ids.
func (s *FeedService) ComposeFeed(viewerID uint) ([]FeedItem, error) {
	tags, err := s.resolver.ResolveAll(viewerID)
	if err != nil {
		return nil, err
	}

	authorIDs := []uint{viewerID}
	for id, tag := range tags {
		if tag == RelationFollowing || tag == RelationFriend {
			authorIDs = append(authorIDs, id)
		}
	}

	posts, err := s.posts.ListByAuthors(authorIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(posts))
	items := make([]FeedItem, 0, len(posts))
	for _, post := range posts {
		if seen[post.ID] {
			continue
		}
		seen[post.ID] = true

		tag := RelationSelf
		if post.AuthorID != viewerID {
			tag = tags[post.AuthorID]
			if tag == "" {
				tag = RelationNone
			}
		}
		if !Visible(post.Visibility, tag) {
			continue
		}
		items = append(items, FeedItem{Post: post, Relation: tag})
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].Post.CreatedAt.Equal(items[j].Post.CreatedAt) {
			return items[i].Post.CreatedAt.After(items[j].Post.CreatedAt)
		}
		return items[i].Post.ID > items[j].Post.ID
	})
	return items, nil
}

// AuthorPosts returns the subject's posts that the viewer's resolved
// relation may see, newest first. Used for profile views; a viewer looking
// at their own profile sees everything.
func (s *FeedService) AuthorPosts(viewerID, authorID uint) ([]FeedItem, error) {
	tag := RelationSelf
	if viewerID != authorID {
		var err error
		tag, err = s.resolver.Resolve(viewerID, authorID)
		if err != nil {
			return nil, err
		}
	}

	posts, err := s.posts.ListByAuthors([]uint{authorID})
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(posts))
	for _, post := range posts {
		if Visible(post.Visibility, tag) {
			items = append(items, FeedItem{Post: post, Relation: tag})
		}
	}
	return items, nil
}
