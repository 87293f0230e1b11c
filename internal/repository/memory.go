package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"lookbook/backend/internal/models"
)

// MemoryStore bundles in-memory implementations of the three repositories,
// sharing one user table so relation preloads resolve. It exists so the
// resolver, lifecycle and feed logic can be tested without a database.
type MemoryStore struct {
	Users     *MemoryUserRepository
	Posts     *MemoryPostRepository
	Relations *MemoryRelationRepository
}

// NewMemoryStore creates an empty, fully wired MemoryStore.
func NewMemoryStore() *MemoryStore {
	users := &MemoryUserRepository{users: make(map[uint]models.User)}
	return &MemoryStore{
		Users:     users,
		Posts:     &MemoryPostRepository{posts: make(map[uint]models.Post)},
		Relations: &MemoryRelationRepository{edges: make(map[relKey]models.UserRelation), users: users},
	}
}

type relKey struct {
	from, to uint
	kind     models.RelationType
}

// MemoryRelationRepository is an in-memory RelationRepository. All methods
// are safe for concurrent use; Atomically serializes against every other
// call and restores the previous state if fn fails.
type MemoryRelationRepository struct {
	mu    sync.Mutex
	edges map[relKey]models.UserRelation
	users *MemoryUserRepository
}

func (r *MemoryRelationRepository) Create(rel *models.UserRelation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(rel)
}

func (r *MemoryRelationRepository) create(rel *models.UserRelation) (bool, error) {
	key := relKey{rel.FromUserID, rel.ToUserID, rel.Kind}
	if _, ok := r.edges[key]; ok {
		return false, nil
	}
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = time.Now()
	}
	r.edges[key] = *rel
	return true, nil
}

func (r *MemoryRelationRepository) Get(from, to uint, kind models.RelationType) (*models.UserRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(from, to, kind)
}

func (r *MemoryRelationRepository) get(from, to uint, kind models.RelationType) (*models.UserRelation, error) {
	if rel, ok := r.edges[relKey{from, to, kind}]; ok {
		return &rel, nil
	}
	return nil, nil
}

func (r *MemoryRelationRepository) BetweenPair(a, b uint) ([]models.UserRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rels []models.UserRelation
	for key, rel := range r.edges {
		if (key.from == a && key.to == b) || (key.from == b && key.to == a) {
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

func (r *MemoryRelationRepository) Touching(userID uint) ([]models.UserRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rels []models.UserRelation
	for key, rel := range r.edges {
		if key.from == userID || key.to == userID {
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

func (r *MemoryRelationRepository) ListDirected(userID uint, incoming bool, kind models.RelationType, status models.FriendshipStatus) ([]models.UserRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rels []models.UserRelation
	for key, rel := range r.edges {
		if incoming && key.to != userID {
			continue
		}
		if !incoming && key.from != userID {
			continue
		}
		if kind != "" && rel.Kind != kind {
			continue
		}
		if status != "" && rel.Status != status {
			continue
		}
		if r.users != nil {
			if u, _ := r.users.GetByID(rel.FromUserID); u != nil {
				rel.FromUser = *u
			}
			if u, _ := r.users.GetByID(rel.ToUserID); u != nil {
				rel.ToUser = *u
			}
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

func (r *MemoryRelationRepository) SetStatus(from, to uint, kind models.RelationType, status models.FriendshipStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setStatus(from, to, kind, status)
}

func (r *MemoryRelationRepository) setStatus(from, to uint, kind models.RelationType, status models.FriendshipStatus) error {
	key := relKey{from, to, kind}
	if rel, ok := r.edges[key]; ok {
		rel.Status = status
		rel.UpdatedAt = time.Now()
		r.edges[key] = rel
	}
	return nil
}

func (r *MemoryRelationRepository) Delete(from, to uint, kind models.RelationType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delete(from, to, kind)
}

func (r *MemoryRelationRepository) delete(from, to uint, kind models.RelationType) (bool, error) {
	key := relKey{from, to, kind}
	if _, ok := r.edges[key]; !ok {
		return false, nil
	}
	delete(r.edges, key)
	return true, nil
}

func (r *MemoryRelationRepository) Stats(userID uint) (RelationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats RelationStats
	for key, rel := range r.edges {
		if rel.Status != models.StatusAccepted {
			continue
		}
		switch rel.Kind {
		case models.RelationFriend:
			if key.from == userID {
				stats.Friends++
			}
		case models.RelationFollow:
			if key.to == userID {
				stats.Followers++
			}
			if key.from == userID {
				stats.Following++
			}
		}
	}
	return stats, nil
}

func (r *MemoryRelationRepository) Atomically(fn func(RelationRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[relKey]models.UserRelation, len(r.edges))
	for k, v := range r.edges {
		snapshot[k] = v
	}

	if err := fn(&memoryRelationTx{repo: r}); err != nil {
		r.edges = snapshot
		return err
	}
	return nil
}

// memoryRelationTx exposes the unlocked methods to a function already
// holding the repository lock.
type memoryRelationTx struct {
	repo *MemoryRelationRepository
}

func (t *memoryRelationTx) Create(rel *models.UserRelation) (bool, error) {
	return t.repo.create(rel)
}

func (t *memoryRelationTx) Get(from, to uint, kind models.RelationType) (*models.UserRelation, error) {
	return t.repo.get(from, to, kind)
}

func (t *memoryRelationTx) BetweenPair(a, b uint) ([]models.UserRelation, error) {
	var rels []models.UserRelation
	for key, rel := range t.repo.edges {
		if (key.from == a && key.to == b) || (key.from == b && key.to == a) {
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

func (t *memoryRelationTx) Touching(userID uint) ([]models.UserRelation, error) {
	var rels []models.UserRelation
	for key, rel := range t.repo.edges {
		if key.from == userID || key.to == userID {
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

func (t *memoryRelationTx) ListDirected(userID uint, incoming bool, kind models.RelationType, status models.FriendshipStatus) ([]models.UserRelation, error) {
	var rels []models.UserRelation
	for key, rel := range t.repo.edges {
		if (incoming && key.to != userID) || (!incoming && key.from != userID) {
			continue
		}
		if (kind != "" && rel.Kind != kind) || (status != "" && rel.Status != status) {
			continue
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

func (t *memoryRelationTx) SetStatus(from, to uint, kind models.RelationType, status models.FriendshipStatus) error {
	return t.repo.setStatus(from, to, kind, status)
}

func (t *memoryRelationTx) Delete(from, to uint, kind models.RelationType) (bool, error) {
	return t.repo.delete(from, to, kind)
}

func (t *memoryRelationTx) Stats(userID uint) (RelationStats, error) {
	var stats RelationStats
	for key, rel := range t.repo.edges {
		if rel.Status != models.StatusAccepted {
			continue
		}
		switch rel.Kind {
		case models.RelationFriend:
			if key.from == userID {
				stats.Friends++
			}
		case models.RelationFollow:
			if key.to == userID {
				stats.Followers++
			}
			if key.from == userID {
				stats.Following++
			}
		}
	}
	return stats, nil
}

func (t *memoryRelationTx) Atomically(fn func(RelationRepository) error) error {
	// Already inside the critical section; nesting just runs fn.
	return fn(t)
}

// MemoryPostRepository is an in-memory PostRepository.
type MemoryPostRepository struct {
	mu     sync.Mutex
	posts  map[uint]models.Post
	nextID uint
}

func (r *MemoryPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == 0 {
		r.nextID++
		post.ID = r.nextID
	} else if post.ID > r.nextID {
		r.nextID = post.ID
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts[post.ID] = *post
	return nil
}

func (r *MemoryPostRepository) GetByID(id uint) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post, ok := r.posts[id]; ok {
		return &post, nil
	}
	return nil, nil
}

func (r *MemoryPostRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *MemoryPostRepository) ListByAuthors(authorIDs []uint) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = true
	}

	var posts []models.Post
	for _, post := range r.posts {
		if wanted[post.AuthorID] {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

// MemoryUserRepository is an in-memory UserRepository.
type MemoryUserRepository struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
}

func (r *MemoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	} else if user.ID > r.nextID {
		r.nextID = user.ID
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = *user
	return nil
}

// Remove deletes a user, simulating the external account service destroying
// an account out from under existing relationship edges.
func (r *MemoryUserRepository) Remove(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *MemoryUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetByLogin(login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == login || user.Email == login {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) ExistingIDs(ids []uint) (map[uint]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.users[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *MemoryUserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) Search(query string, page, limit int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.User
	for _, user := range r.users {
		if query == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(query)) {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
