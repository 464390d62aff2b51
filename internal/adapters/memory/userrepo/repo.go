package userrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.UserID]domain.User
	idBySub   map[domain.SubjectID]domain.UserID
	idByEmail map[string]domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.UserID]domain.User),
		idBySub:   make(map[domain.SubjectID]domain.UserID),
		idByEmail: make(map[string]domain.UserID),
	}
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	_ = ctx
	if u.ID == "" {
		return userrepo.ErrAlreadyExists // empty ID is invalid; the app layer always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	if existingID, ok := r.idBySub[u.Subject]; ok && existingID != "" {
		return userrepo.ErrSubjectAlreadyBound
	}
	email := emailKey(u.Email)
	if _, ok := r.idByEmail[email]; ok && email != "" {
		return userrepo.ErrEmailTaken
	}

	r.byID[u.ID] = cloneUser(u)
	r.idBySub[u.Subject] = u.ID
	if email != "" {
		r.idByEmail[email] = u.ID
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u domain.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[u.ID]
	if !ok {
		return userrepo.ErrNotFound
	}
	// Subject binding is immutable.
	if existing.Subject != u.Subject {
		return userrepo.ErrSubjectAlreadyBound
	}
	email := emailKey(u.Email)
	if owner, ok := r.idByEmail[email]; ok && email != "" && owner != u.ID {
		return userrepo.ErrEmailTaken
	}

	delete(r.idByEmail, emailKey(existing.Email))
	if email != "" {
		r.idByEmail[email] = u.ID
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idBySub[subject]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return r.getLocked(id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[emailKey(email)]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return r.getLocked(id)
}

func (r *Repo) getLocked(id domain.UserID) (domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(u domain.User) domain.User {
	out := u
	if u.Home != nil {
		h := *u.Home
		out.Home = &h
	}
	return out
}
