package orchestrators

import (
	"context"
	"errors"
	"strconv"
	"time"

	"dojo/internal/domain/account"
	"dojo/internal/domain/apperr"
	"dojo/internal/domain/child"
	"dojo/internal/domain/childclass"
	"dojo/internal/domain/parentnote"
	"dojo/internal/domain/progress"
	"dojo/internal/domain/request"
	"dojo/internal/domain/shift"
	"dojo/internal/domain/technique"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func nowFn() time.Time { return testNow }

func idFn() string { return "test-id-001" }

// seqIDs returns a generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

var errStoreDown = errors.New("store down")

// errMissing mirrors the NotFound error a SQLite store returns for an unknown id.
var errMissing = apperr.NotFound("not found")

// mockUserStore implements the user store interfaces for testing.
type mockUserStore struct {
	users     map[string]account.User
	getErr    error
	createErr error
}

func newMockUserStore(users ...account.User) *mockUserStore {
	m := &mockUserStore{users: make(map[string]account.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStore) GetByID(_ context.Context, id string) (account.User, error) {
	if m.getErr != nil {
		return account.User{}, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return account.User{}, errMissing
	}
	return u, nil
}

func (m *mockUserStore) GetByUsername(_ context.Context, username string) (account.User, error) {
	if m.getErr != nil {
		return account.User{}, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return account.User{}, errMissing
}

func (m *mockUserStore) Create(_ context.Context, u account.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) CountByRole(_ context.Context, role string) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// mockChildStore implements the child store interfaces for testing.
type mockChildStore struct {
	children map[string]child.Child
	getErr   error
}

func newMockChildStore(children ...child.Child) *mockChildStore {
	m := &mockChildStore{children: make(map[string]child.Child)}
	for _, c := range children {
		m.children[c.ID] = c
	}
	return m
}

func (m *mockChildStore) GetByID(_ context.Context, id string) (child.Child, error) {
	if m.getErr != nil {
		return child.Child{}, m.getErr
	}
	c, ok := m.children[id]
	if !ok {
		return child.Child{}, errMissing
	}
	return c, nil
}

func (m *mockChildStore) Create(_ context.Context, c child.Child) error {
	m.children[c.ID] = c
	return nil
}

// mockTechniqueStore implements the technique store interfaces for testing.
type mockTechniqueStore struct {
	techniques map[string]technique.Technique
	refs       map[string]int
	getErr     error
	createErr  error
}

func newMockTechniqueStore(ts ...technique.Technique) *mockTechniqueStore {
	m := &mockTechniqueStore{techniques: make(map[string]technique.Technique), refs: make(map[string]int)}
	for _, t := range ts {
		m.techniques[t.ID] = t
	}
	return m
}

func (m *mockTechniqueStore) GetByID(_ context.Context, id string) (technique.Technique, error) {
	if m.getErr != nil {
		return technique.Technique{}, m.getErr
	}
	t, ok := m.techniques[id]
	if !ok {
		return technique.Technique{}, errMissing
	}
	return t, nil
}

func (m *mockTechniqueStore) Create(_ context.Context, t technique.Technique) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.techniques[t.ID] = t
	return nil
}

func (m *mockTechniqueStore) Update(_ context.Context, t technique.Technique) error {
	m.techniques[t.ID] = t
	return nil
}

func (m *mockTechniqueStore) Delete(_ context.Context, id string) error {
	delete(m.techniques, id)
	return nil
}

func (m *mockTechniqueStore) CountProgress(_ context.Context, id string) (int, error) {
	return m.refs[id], nil
}

// mockProgressStore implements the progress store interfaces for testing.
type mockProgressStore struct {
	records map[string]progress.Record
}

func newMockProgressStore(rs ...progress.Record) *mockProgressStore {
	m := &mockProgressStore{records: make(map[string]progress.Record)}
	for _, r := range rs {
		m.records[r.ID] = r
	}
	return m
}

func (m *mockProgressStore) GetByID(_ context.Context, id string) (progress.Record, error) {
	r, ok := m.records[id]
	if !ok {
		return progress.Record{}, progress.ErrNotFound
	}
	return r, nil
}

func (m *mockProgressStore) Create(_ context.Context, r progress.Record) error {
	m.records[r.ID] = r
	return nil
}

func (m *mockProgressStore) Update(_ context.Context, r progress.Record) error {
	m.records[r.ID] = r
	return nil
}

// mockShiftStore implements the shift store interfaces for testing.
type mockShiftStore struct {
	shifts    map[string]shift.Shift
	updateErr error
	updates   int
}

func newMockShiftStore(ss ...shift.Shift) *mockShiftStore {
	m := &mockShiftStore{shifts: make(map[string]shift.Shift)}
	for _, s := range ss {
		m.shifts[s.ID] = s
	}
	return m
}

func (m *mockShiftStore) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrNotFound
	}
	return s, nil
}

func (m *mockShiftStore) Create(_ context.Context, s shift.Shift) error {
	m.shifts[s.ID] = s
	return nil
}

func (m *mockShiftStore) Update(_ context.Context, s shift.Shift) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	m.shifts[s.ID] = s
	return nil
}

// mockRequestStore implements the request store interfaces for testing.
type mockRequestStore struct {
	requests map[string]request.Request
}

func newMockRequestStore(rs ...request.Request) *mockRequestStore {
	m := &mockRequestStore{requests: make(map[string]request.Request)}
	for _, r := range rs {
		m.requests[r.ID] = r
	}
	return m
}

func (m *mockRequestStore) GetByID(_ context.Context, id string) (request.Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	return r, nil
}

func (m *mockRequestStore) Create(_ context.Context, r request.Request) error {
	m.requests[r.ID] = r
	return nil
}

func (m *mockRequestStore) Decide(_ context.Context, id, status, decidedBy string, decidedAt time.Time) error {
	r, ok := m.requests[id]
	if !ok {
		return request.ErrNotFound
	}
	if r.Status != request.StatusPending {
		return request.ErrAlreadyProcessed
	}
	r.Status, r.DecidedBy, r.DecidedAt = status, decidedBy, decidedAt
	m.requests[id] = r
	return nil
}

// mockNoteStore implements NoteStoreForAdd for testing.
type mockNoteStore struct {
	notes []parentnote.Note
}

func (m *mockNoteStore) Create(_ context.Context, n parentnote.Note) error {
	m.notes = append(m.notes, n)
	return nil
}

// mockClassStore implements ClassStoreForAdd for testing.
type mockClassStore struct {
	classes []childclass.Class
}

func (m *mockClassStore) Create(_ context.Context, c childclass.Class) error {
	m.classes = append(m.classes, c)
	return nil
}
