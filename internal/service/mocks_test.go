package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/repository/document"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/storage"
)

const adminEmail = "admin@yamlrg.com"

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyApproved(ctx context.Context, req domain.JoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockIdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityProvider) GetIdentity(ctx context.Context, uid string) (*domain.Identity, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityProvider) DeleteIdentity(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendApprovalEmail(ctx context.Context, to string) error {
	args := m.Called(ctx, to)
	return args.Error(0)
}

func (m *MockEmailService) SendPendingRequestDigest(ctx context.Context, to string, pending []domain.JoinRequest) error {
	args := m.Called(ctx, to, pending)
	return args.Error(0)
}

func (m *MockEmailService) SendProfileReminder(ctx context.Context, to, name string) error {
	args := m.Called(ctx, to, name)
	return args.Error(0)
}

// testClock hands out strictly increasing times one second apart
type testClock struct {
	mu   sync.Mutex
	next time.Time
}

func newTestClock() *testClock {
	return &testClock{next: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

// fixture wires every service over one in-memory store
type fixture struct {
	docs       *storage.MemoryStore
	store      *document.Store
	policy     *security.Policy
	notifier   *MockNotifier
	identities *MockIdentityProvider

	auth      *authService
	admin     *adminService
	users     *userService
	workshops *workshopService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	docs := storage.NewMemoryStore()
	store := document.NewStore(docs)
	policy := security.NewPolicy([]string{adminEmail, "second.admin@yamlrg.com"})
	clock := newTestClock()

	notifier := new(MockNotifier)
	identities := new(MockIdentityProvider)

	auth := NewAuthService(store.JoinRequestRepository, store.UserAccountRepository, identities, policy).(*authService)
	auth.now = clock.Now
	admin := NewAdminService(store.JoinRequestRepository, store.UserAccountRepository, policy, notifier).(*adminService)
	admin.now = clock.Now
	users := NewUserService(store.UserAccountRepository, identities, policy).(*userService)
	users.now = clock.Now
	workshops := NewWorkshopService(store.WorkshopRepository, store.PresentationRequestRepository, policy).(*workshopService)
	workshops.now = clock.Now

	return &fixture{
		docs:       docs,
		store:      store,
		policy:     policy,
		notifier:   notifier,
		identities: identities,
		auth:       auth,
		admin:      admin,
		users:      users,
		workshops:  workshops,
	}
}

// seedAccount writes an account directly, bypassing reconciliation
func (f *fixture) seedAccount(t *testing.T, account domain.UserAccount) {
	t.Helper()
	if err := f.store.UserAccountRepository.Create(context.Background(), &account); err != nil {
		t.Fatalf("seed account %s: %v", account.UID, err)
	}
}

func mockAnyRequest() interface{} {
	return mock.AnythingOfType("domain.JoinRequest")
}
