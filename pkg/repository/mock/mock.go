package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/outreach/pkg/models"
	"github.com/garnizeh/outreach/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	AccountRepo *MockAccountRepo
	MediaRepo   *MockMediaRepo
	InquiryRepo *MockInquiryRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		AccountRepo: &MockAccountRepo{},
		MediaRepo:   &MockMediaRepo{},
		InquiryRepo: &MockInquiryRepo{},
	}
}

var _ repository.AccountRepo = (*MockAccountRepo)(nil)
var _ repository.MediaRepo = (*MockMediaRepo)(nil)
var _ repository.InquiryRepo = (*MockInquiryRepo)(nil)

type MockAccountRepo struct {
	mu       sync.Mutex
	Accounts []models.Account
	// CreateErr and GetErr are returned by the corresponding methods when set.
	CreateErr error
	GetErr    error
	CountErr  error
}

func (m *MockAccountRepo) CreateFirstAccount(ctx context.Context, a *models.Account) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, false, m.CreateErr
	}
	if len(m.Accounts) > 0 {
		return 0, false, nil
	}
	return m.insert(a), true, nil
}

func (m *MockAccountRepo) CreateAccount(ctx context.Context, a *models.Account) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, existing := range m.Accounts {
		if existing.Username == a.Username {
			return 0, repository.ErrConflict
		}
	}
	return m.insert(a), nil
}

func (m *MockAccountRepo) insert(a *models.Account) int64 {
	stored := *a
	stored.ID = int64(len(m.Accounts) + 1)
	m.Accounts = append(m.Accounts, stored)
	return stored.ID
}

func (m *MockAccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, a := range m.Accounts {
		if a.Username == username {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockAccountRepo) CountAccounts(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return int64(len(m.Accounts)), nil
}

type MockMediaRepo struct {
	mu        sync.Mutex
	Items     []models.MediaItem
	nextID    int64
	CreateErr error
	ListErr   error
	DeleteErr error
}

func (m *MockMediaRepo) CreateMedia(ctx context.Context, item *models.MediaItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	stored := *item
	stored.ID = m.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.Items = append(m.Items, stored)
	return stored.ID, nil
}

func (m *MockMediaRepo) GetMedia(ctx context.Context, id int64) (*models.MediaItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.Items {
		if it.ID == id {
			out := it
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockMediaRepo) ListMedia(ctx context.Context) ([]models.MediaItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := append([]models.MediaItem(nil), m.Items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockMediaRepo) DeleteMedia(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, it := range m.Items {
		if it.ID == id {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type MockInquiryRepo struct {
	mu        sync.Mutex
	Stored    []models.Inquiry
	CreateErr error
}

func (m *MockInquiryRepo) CreateInquiry(ctx context.Context, i *models.Inquiry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	stored := *i
	stored.ID = int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, stored)
	return stored.ID, nil
}
