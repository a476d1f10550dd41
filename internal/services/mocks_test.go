package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"evently/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockEventRepository struct {
	mu      sync.Mutex
	events  map[string]*domain.Event
	err     error
	deleted []string
}

func (m *mockEventRepository) Create(ctx context.Context, e *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", len(m.events)+1)
	}
	if m.events == nil {
		m.events = map[string]*domain.Event{}
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0)
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepository) ListPublished(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	out := make([]*domain.Event, 0)
	for _, e := range m.events {
		if e.Status == domain.EventStatusPublished {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (m *mockEventRepository) Search(ctx context.Context, query string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return nil, 0, m.err
}

func (m *mockEventRepository) Update(ctx context.Context, e *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEventRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	e, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.IsFeatured = featured
	return nil
}

func (m *mockEventRepository) ReserveSeat(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	if e.TicketLimit > 0 && e.TotalRegistrations >= e.TicketLimit {
		return domain.ErrSoldOut
	}
	e.TotalRegistrations++
	return nil
}

func (m *mockEventRepository) ReleaseSeat(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	if e.TotalRegistrations > 0 {
		e.TotalRegistrations--
	}
	return nil
}

func (m *mockEventRepository) IncrementViews(ctx context.Context, id string) error {
	e, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.TotalViews++
	return nil
}

func (m *mockEventRepository) DailyRegistrations(ctx context.Context, eventID string, since time.Time) ([]domain.DailyCount, error) {
	return []domain.DailyCount{}, nil
}

func (m *mockEventRepository) DailyViews(ctx context.Context, eventID string, since time.Time) ([]domain.DailyCount, error) {
	return []domain.DailyCount{}, nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int, error) {
	return len(m.events), nil
}

type mockRegistrationRepository struct {
	mu        sync.Mutex
	regs      map[string]*domain.Registration
	createErr error
	err       error
}

func (m *mockRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.regs == nil {
		m.regs = map[string]*domain.Registration{}
	}
	for _, r := range m.regs {
		if r.EventID == reg.EventID && r.UserID == reg.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	reg.ID = fmt.Sprintf("reg-%d", len(m.regs)+1)
	m.regs[reg.ID] = reg
	return nil
}

func (m *mockRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.regs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (m *mockRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.EventID == eventID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistrationRepository) ListActiveByUserID(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*domain.RegistrationWithEvent{}, nil
}

func (m *mockRegistrationRepository) ListByEventID(ctx context.Context, eventID string, activeOnly bool) ([]*domain.RegistrationWithUser, error) {
	return []*domain.RegistrationWithUser{}, nil
}

func (m *mockRegistrationRepository) SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.regs[id]
	if !ok {
		return domain.ErrNotFound
	}
	reg.Status = status
	reg.UpdatedAt = updatedAt
	return nil
}

func (m *mockRegistrationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.regs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.regs, id)
	return nil
}

func (m *mockRegistrationRepository) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, r := range m.regs {
		if r.Status == domain.RegistrationStatusRegistered {
			count++
		}
	}
	return count, nil
}

func (m *mockRegistrationRepository) DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	return []domain.DailyCount{}, nil
}

func (m *mockRegistrationRepository) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.regs {
		if r.Status == domain.RegistrationStatusRegistered {
			count++
		}
	}
	return count
}

type mockUserRepository struct {
	users map[string]*domain.User
	err   error
	roles map[string]string
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	if m.users == nil {
		m.users = map[string]*domain.User{}
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) SetRole(ctx context.Context, userID, role string) error {
	if m.roles == nil {
		m.roles = map[string]string{}
	}
	m.roles[userID] = role
	if u, ok := m.users[userID]; ok {
		u.Role = role
	}
	return nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, userID, fullName string) error {
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.FullName = fullName
	return nil
}

func (m *mockUserRepository) SetPassword(ctx context.Context, userID, hash, salt string) error {
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.Salt = salt
	return nil
}

func (m *mockUserRepository) SetBlocked(ctx context.Context, userID string, blocked bool, reason string) error {
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Blocked = blocked
	u.BlockReason = reason
	return nil
}

func (m *mockUserRepository) List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]*domain.User, int, error) {
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if filter.Status == "blocked" && !u.Blocked {
			continue
		}
		if filter.Status == "active" && u.Blocked {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

type mockOrganizerRepository struct {
	orgs     map[string]*domain.Organizer
	byOwner  map[string]*domain.Organizer
	err      error
	statuses map[string]string
}

func (m *mockOrganizerRepository) Create(ctx context.Context, org *domain.Organizer) error {
	if m.err != nil {
		return m.err
	}
	org.ID = fmt.Sprintf("org-%d", len(m.orgs)+1)
	if m.orgs == nil {
		m.orgs = map[string]*domain.Organizer{}
	}
	m.orgs[org.ID] = org
	return nil
}

func (m *mockOrganizerRepository) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	org, ok := m.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (m *mockOrganizerRepository) GetByOwnerUserID(ctx context.Context, userID string) (*domain.Organizer, error) {
	if m.err != nil {
		return nil, m.err
	}
	org, ok := m.byOwner[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (m *mockOrganizerRepository) SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	if m.statuses == nil {
		m.statuses = map[string]string{}
	}
	m.statuses[id] = status
	if org, ok := m.orgs[id]; ok {
		org.Status = status
	}
	return nil
}

func (m *mockOrganizerRepository) AdjustEventCount(ctx context.Context, id string, delta int) error {
	if org, ok := m.orgs[id]; ok {
		org.TotalEventsCreated += delta
	}
	return nil
}

func (m *mockOrganizerRepository) List(ctx context.Context, status string, params domain.PaginationParams) ([]*domain.Organizer, int, error) {
	out := make([]*domain.Organizer, 0)
	for _, org := range m.orgs {
		if status == "" || org.Status == status {
			out = append(out, org)
		}
	}
	return out, len(out), nil
}

func (m *mockOrganizerRepository) Count(ctx context.Context) (int, error) {
	return len(m.orgs), nil
}

type mockBookmarkRepository struct {
	bookmarks map[string]*domain.Bookmark
}

func (m *mockBookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	b.ID = fmt.Sprintf("bm-%d", len(m.bookmarks)+1)
	if m.bookmarks == nil {
		m.bookmarks = map[string]*domain.Bookmark{}
	}
	m.bookmarks[b.ID] = b
	return nil
}

func (m *mockBookmarkRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Bookmark, error) {
	for _, b := range m.bookmarks {
		if b.EventID == eventID && b.UserID == userID {
			return b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockBookmarkRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.BookmarkWithEvent, error) {
	return []*domain.BookmarkWithEvent{}, nil
}

func (m *mockBookmarkRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.bookmarks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bookmarks, id)
	return nil
}

type mockNotificationRepository struct {
	mu      sync.Mutex
	entries []*domain.Notification
	err     error
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = fmt.Sprintf("ntf-%d", len(m.entries)+1)
	m.entries = append(m.entries, n)
	return nil
}

func (m *mockNotificationRepository) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	out := make([]*domain.Notification, 0)
	for _, n := range m.entries {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (m *mockNotificationRepository) ListByOrganizerID(ctx context.Context, organizerID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	out := make([]*domain.Notification, 0)
	for _, n := range m.entries {
		if n.OrganizerID == organizerID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	for _, n := range m.entries {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range m.entries {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

type mockAuditLogRepository struct {
	entries []*domain.AuditLog
	err     error
}

func (m *mockAuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	entry.ID = fmt.Sprintf("audit-%d", len(m.entries)+1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditLogRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.AuditLog, int, error) {
	return m.entries, len(m.entries), nil
}

type mockMediaStore struct {
	mu        sync.Mutex
	uploads   int
	deleted   []string
	uploadErr error
}

func (m *mockMediaStore) Upload(ctx context.Context, folder string, file *domain.FileUpload) (*domain.Media, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	key := fmt.Sprintf("%s/obj-%d", folder, m.uploads)
	return &domain.Media{URL: "https://cdn.example.com/" + key, PublicID: key}, nil
}

func (m *mockMediaStore) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, publicID)
	return nil
}

type mockTicketIssuer struct {
	mu     sync.Mutex
	serial int
	err    error
}

func (m *mockTicketIssuer) Issue(eventID, userID string, issuedAt time.Time) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serial++
	return fmt.Sprintf("ticket-%s-%s-%d", eventID, userID, m.serial), nil
}

func (m *mockTicketIssuer) Verify(token string) (string, string, error) {
	return "", "", nil
}

// mockNotifier records notices synchronously so tests can assert on fan-out
// without racing a goroutine.
type mockNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (m *mockNotifier) Notify(ctx context.Context, notice domain.Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, notice)
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notices)
}

type mockPasswordHasher struct {
	compareErr error
}

func (m *mockPasswordHasher) GenerateSalt() (string, error) { return "salt", nil }

func (m *mockPasswordHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + salt + ":" + password, nil
}

func (m *mockPasswordHasher) Compare(hash, salt, password string) error {
	if m.compareErr != nil {
		return m.compareErr
	}
	if hash != "hashed:"+salt+":"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token-" + userID, nil
}
