package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
	operators "github.com/Backora/pulse-app/internal/repository/port"
)

// fakePulseRepository is an in-memory stand-in for the Postgres adapter,
// preserving its observable contract: raw rows on reads, case-insensitive
// operator comparison, cascade on delete, newest-first message pages.
type fakePulseRepository struct {
	mu          sync.Mutex
	pulses      map[string]pulse.Pulse
	memberships map[string]map[string]pulse.Membership // code -> lower(operator)
	messages    map[string][]pulse.Message
	nextID      int
	getCalls    int
	failWith    error
}

var _ repository.PulseRepository = (*fakePulseRepository)(nil)

func newFakePulseRepository() *fakePulseRepository {
	return &fakePulseRepository{
		pulses:      make(map[string]pulse.Pulse),
		memberships: make(map[string]map[string]pulse.Membership),
		messages:    make(map[string][]pulse.Message),
	}
}

func (r *fakePulseRepository) CreatePulse(_ context.Context, p pulse.Pulse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, dup := r.pulses[p.Code]; dup {
		return fmt.Errorf("duplicate code %s", p.Code)
	}
	r.pulses[p.Code] = p
	return nil
}

func (r *fakePulseRepository) GetPulseByCode(_ context.Context, code string) (*pulse.Pulse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.pulses[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePulseRepository) DeletePulse(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	delete(r.messages, code)
	delete(r.memberships, code)
	delete(r.pulses, code)
	return nil
}

func (r *fakePulseRepository) AddMembership(_ context.Context, m pulse.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	links := r.memberships[m.PulseCode]
	if links == nil {
		links = make(map[string]pulse.Membership)
		r.memberships[m.PulseCode] = links
	}
	key := strings.ToLower(m.OperatorID)
	if _, dup := links[key]; !dup {
		links[key] = m
	}
	return nil
}

func (r *fakePulseRepository) HasMembership(_ context.Context, code, operatorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return false, r.failWith
	}
	_, ok := r.memberships[code][strings.ToLower(operatorID)]
	return ok, nil
}

func (r *fakePulseRepository) SaveMessage(_ context.Context, m pulse.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return "", r.failWith
	}
	r.nextID++
	m.ID = fmt.Sprintf("msg-%04d", r.nextID)
	r.messages[m.PulseCode] = append(r.messages[m.PulseCode], m)
	return m.ID, nil
}

func (r *fakePulseRepository) GetMessagesByPulse(_ context.Context, code string, limit, offset int) ([]pulse.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	rows := append([]pulse.Message(nil), r.messages[code]...)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakePulseRepository) CountMessages(_ context.Context, code string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	return len(r.messages[code]), nil
}

func (r *fakePulseRepository) ListPulsesByOperator(_ context.Context, operatorID string) ([]pulse.Pulse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var rows []pulse.Pulse
	for code, p := range r.pulses {
		if pulse.SameOperator(p.CreatorID, operatorID) {
			rows = append(rows, p)
			continue
		}
		if _, ok := r.memberships[code][strings.ToLower(operatorID)]; ok {
			rows = append(rows, p)
		}
	}
	return rows, nil
}

func (r *fakePulseRepository) DeletePulsesByCreator(_ context.Context, operatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	for code, p := range r.pulses {
		if pulse.SameOperator(p.CreatorID, operatorID) {
			delete(r.messages, code)
			delete(r.memberships, code)
			delete(r.pulses, code)
		}
	}
	return nil
}

// seedPulse inserts a row directly, bypassing the use cases, so tests can
// shape arbitrary expiry windows.
func (r *fakePulseRepository) seedPulse(code, creator string, createdAt time.Time, ttl time.Duration) pulse.Pulse {
	p := pulse.Pulse{Code: code, CreatorID: creator, CreatedAt: createdAt, ExpiresAt: createdAt.Add(ttl)}
	r.mu.Lock()
	r.pulses[code] = p
	r.mu.Unlock()
	return p
}

// fakeOperatorRepository mirrors the operator profile store.
type fakeOperatorRepository struct {
	mu       sync.Mutex
	profiles map[string]operators.Operator
}

var _ operators.OperatorRepository = (*fakeOperatorRepository)(nil)

func newFakeOperatorRepository() *fakeOperatorRepository {
	return &fakeOperatorRepository{profiles: make(map[string]operators.Operator)}
}

func (r *fakeOperatorRepository) Register(_ context.Context, id string) (*operators.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(id)
	if op, ok := r.profiles[key]; ok {
		return &op, nil
	}
	op := operators.Operator{ID: id, RegisteredAt: time.Now().UTC()}
	r.profiles[key] = op
	return &op, nil
}

func (r *fakeOperatorRepository) FindByID(_ context.Context, id string) (*operators.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.profiles[strings.ToLower(id)]
	if !ok {
		return nil, nil
	}
	return &op, nil
}

func (r *fakeOperatorRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, strings.ToLower(id))
	return nil
}

// fakeCache records reads and writes so tests can observe cache traffic.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
	gets    int
	sets    int
}

var _ cport.Cache = (*fakeCache)(nil)

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	if !ok {
		return "", cport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			delete(c.ttls, key)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

func (c *fakeCache) Close() error { return nil }
