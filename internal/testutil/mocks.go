package testutil

import (
	"context"
	"slices"
	"sync"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/domain/remittance"
)

// --- Transaction Log Repository Mock ---

// MockLogRepository is an in-memory remittance.LogRepository.
type MockLogRepository struct {
	mu      sync.Mutex
	entries []*remittance.TransactionLog

	CreateFunc func(ctx context.Context, entry *remittance.TransactionLog) error
	ListFunc   func(ctx context.Context, filter remittance.LogFilter) ([]*remittance.TransactionLog, error)
}

func NewMockLogRepository() *MockLogRepository {
	return &MockLogRepository{}
}

func (m *MockLogRepository) Create(ctx context.Context, entry *remittance.TransactionLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLogRepository) List(ctx context.Context, f remittance.LogFilter) ([]*remittance.TransactionLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*remittance.TransactionLog{}
	for _, e := range slices.Backward(m.entries) {
		if f.Type != nil && e.Type != *f.Type {
			continue
		}
		if !remittance.InDateRange(e.CreatedAt, f.From, f.To) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// Entries returns a copy of every stored entry in insertion order.
func (m *MockLogRepository) Entries() []*remittance.TransactionLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

// --- Pending Repository Mock ---

// MockPendingRepository is an in-memory remittance.PendingRepository.
type MockPendingRepository struct {
	mu   sync.Mutex
	rows []*remittance.PendingTransaction

	CreateFunc                func(ctx context.Context, p *remittance.PendingTransaction) error
	UpsertFunc                func(ctx context.Context, p *remittance.PendingTransaction) error
	DeleteByTransactionIDFunc func(ctx context.Context, transactionID string) (int64, error)
	ListFunc                  func(ctx context.Context, filter remittance.TransactionFilter) ([]*remittance.PendingTransaction, error)
}

func NewMockPendingRepository() *MockPendingRepository {
	return &MockPendingRepository{}
}

func (m *MockPendingRepository) Create(ctx context.Context, p *remittance.PendingTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, p)
	return nil
}

func (m *MockPendingRepository) Upsert(ctx context.Context, p *remittance.PendingTransaction) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.TransactionID != nil {
		for i := len(m.rows) - 1; i >= 0; i-- {
			row := m.rows[i]
			if row.TransactionID != nil && *row.TransactionID == *p.TransactionID {
				row.PartnerID = p.PartnerID
				row.RequestBody = p.RequestBody
				row.ErrorMessage = p.ErrorMessage
				row.Status = p.Status
				row.UpdatedAt = p.UpdatedAt
				return nil
			}
		}
	}
	m.rows = append(m.rows, p)
	return nil
}

func (m *MockPendingRepository) DeleteByTransactionID(ctx context.Context, transactionID string) (int64, error) {
	if m.DeleteByTransactionIDFunc != nil {
		return m.DeleteByTransactionIDFunc(ctx, transactionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.rows)
	m.rows = slices.DeleteFunc(m.rows, func(row *remittance.PendingTransaction) bool {
		return row.TransactionID != nil && *row.TransactionID == transactionID
	})
	return int64(before - len(m.rows)), nil
}

func (m *MockPendingRepository) List(ctx context.Context, f remittance.TransactionFilter) ([]*remittance.PendingTransaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*remittance.PendingTransaction{}
	for _, row := range slices.Backward(m.rows) {
		if f.TransactionID != nil && (row.TransactionID == nil || *row.TransactionID != *f.TransactionID) {
			continue
		}
		if f.PartnerID != nil && (row.PartnerID == nil || *row.PartnerID != *f.PartnerID) {
			continue
		}
		if !remittance.InDateRange(row.CreatedAt, f.From, f.To) {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}

// Rows returns a copy of every stored row in insertion order.
func (m *MockPendingRepository) Rows() []*remittance.PendingTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows)
}

// --- Successful Repository Mock ---

// MockSuccessfulRepository is an in-memory remittance.SuccessfulRepository.
type MockSuccessfulRepository struct {
	mu   sync.Mutex
	rows []*remittance.SuccessfulTransaction

	CreateFunc             func(ctx context.Context, t *remittance.SuccessfulTransaction) error
	GetByTransactionIDFunc func(ctx context.Context, transactionID string) (*remittance.SuccessfulTransaction, error)
	ListFunc               func(ctx context.Context, filter remittance.TransactionFilter) ([]*remittance.SuccessfulTransaction, error)
}

func NewMockSuccessfulRepository() *MockSuccessfulRepository {
	return &MockSuccessfulRepository{}
}

// Add seeds a completed transaction.
func (m *MockSuccessfulRepository) Add(t *remittance.SuccessfulTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, t)
}

func (m *MockSuccessfulRepository) Create(ctx context.Context, t *remittance.SuccessfulTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.Add(t)
	return nil
}

func (m *MockSuccessfulRepository) GetByTransactionID(ctx context.Context, transactionID string) (*remittance.SuccessfulTransaction, error) {
	if m.GetByTransactionIDFunc != nil {
		return m.GetByTransactionIDFunc(ctx, transactionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range slices.Backward(m.rows) {
		if row.TransactionID == transactionID {
			return row, nil
		}
	}
	return nil, domainErrors.NewTransactionNotFound(transactionID)
}

func (m *MockSuccessfulRepository) List(ctx context.Context, f remittance.TransactionFilter) ([]*remittance.SuccessfulTransaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*remittance.SuccessfulTransaction{}
	for _, row := range slices.Backward(m.rows) {
		if f.TransactionID != nil && row.TransactionID != *f.TransactionID {
			continue
		}
		if f.PartnerID != nil && row.PartnerID != *f.PartnerID {
			continue
		}
		if !remittance.InDateRange(row.CreatedAt, f.From, f.To) {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}

// Rows returns a copy of every stored row in insertion order.
func (m *MockSuccessfulRepository) Rows() []*remittance.SuccessfulTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows)
}

// --- Transaction Manager Mock ---

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu    sync.Mutex
	calls int

	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// Calls returns how many transactions were started.
func (m *MockTransactionManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
