//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/holdem-table/internal/storage"
)

// MockTableStore 牌桌存储 mock
type MockTableStore struct {
	mock.Mock
}

func (m *MockTableStore) PutTable(ctx context.Context, table *storage.TableRecord) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableStore) LoadTable(ctx context.Context, id string) (*storage.TableRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.TableRecord), args.Error(1)
}

func (m *MockTableStore) UpdateTable(ctx context.Context, id string, precondition func(*storage.TableRecord) bool, mutate func(*storage.TableRecord)) error {
	args := m.Called(ctx, id, precondition, mutate)
	return args.Error(0)
}

func (m *MockTableStore) QueryTables(ctx context.Context, q storage.TableQuery) ([]*storage.TableRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.TableRecord), args.Error(1)
}

// MockHandStore 牌局存储 mock
type MockHandStore struct {
	mock.Mock
}

func (m *MockHandStore) PutHand(ctx context.Context, hand *storage.HandRecord) error {
	args := m.Called(ctx, hand)
	return args.Error(0)
}

func (m *MockHandStore) LoadHand(ctx context.Context, id string) (*storage.HandRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.HandRecord), args.Error(1)
}

func (m *MockHandStore) UpdateHand(ctx context.Context, id string, precondition func(*storage.HandRecord) bool, mutate func(*storage.HandRecord)) error {
	args := m.Called(ctx, id, precondition, mutate)
	return args.Error(0)
}

func (m *MockHandStore) ListHandIDs(ctx context.Context, tableID string) ([]string, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
