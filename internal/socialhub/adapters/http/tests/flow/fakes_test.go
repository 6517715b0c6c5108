package flow_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"socialhub/internal/socialhub/domain/entities"
)

// memoryStore держит пользователей и профили в памяти и сериализует транзакции одним мьютексом.
type memoryStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[int64]*entities.User
	profiles map[int64]*entities.SocialProfile
	nextUser int64
	nextProf int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[int64]*entities.User),
		profiles: make(map[int64]*entities.SocialProfile),
	}
}

func (s *memoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

type memoryUsers struct{ s *memoryStore }

func (r memoryUsers) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextUser++
	stored := *user
	stored.ID = r.s.nextUser
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r memoryUsers) FindByField(_ context.Context, field entities.UserField, value any) ([]*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := fmt.Sprint(value)
	var found []*entities.User
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		var got string
		switch field {
		case entities.UserFieldID:
			got = fmt.Sprint(u.ID)
		case entities.UserFieldEmail:
			got = u.Email
		case entities.UserFieldUsername:
			got = u.Username
		case entities.UserFieldPhoneNumber:
			got = u.PhoneNumber
		default:
			return nil, entities.ErrInvalidUserField
		}
		if got == want {
			out := *u
			found = append(found, &out)
		}
		if len(found) == 2 {
			break
		}
	}
	return found, nil
}

func (r memoryUsers) Update(_ context.Context, user *entities.User) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return nil, entities.ErrUserNotFound
	}
	stored := *user
	r.s.users[user.ID] = &stored
	out := stored
	return &out, nil
}

// Delete удаляет пользователя вместе с профилями, как ON DELETE CASCADE.
func (r memoryUsers) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return entities.ErrUserNotFound
	}
	delete(r.s.users, id)
	for pid, p := range r.s.profiles {
		if p.UserID == id {
			delete(r.s.profiles, pid)
		}
	}
	return nil
}

type memoryProfiles struct{ s *memoryStore }

func (r memoryProfiles) ListByOwner(_ context.Context, ownerID int64) ([]*entities.SocialProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entities.SocialProfile, 0)
	for _, id := range sortedKeys(r.s.profiles) {
		if p := r.s.profiles[id]; p.UserID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memoryProfiles) Create(_ context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[profile.UserID]; !ok {
		return nil, entities.ErrIntegrityViolation
	}
	r.s.nextProf++
	stored := *profile
	stored.ID = r.s.nextProf
	r.s.profiles[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r memoryProfiles) GetByIDForUpdate(_ context.Context, id int64) (*entities.SocialProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, entities.ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

func (r memoryProfiles) Update(_ context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[profile.ID]; !ok {
		return nil, entities.ErrProfileNotFound
	}
	stored := *profile
	r.s.profiles[profile.ID] = &stored
	out := stored
	return &out, nil
}

func (r memoryProfiles) Delete(_ context.Context, id, ownerID int64) (*entities.SocialProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok || p.UserID != ownerID {
		return nil, entities.ErrProfileNotFound
	}
	delete(r.s.profiles, id)
	return p, nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// clock - управляемое время для JWT и сценариев.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
