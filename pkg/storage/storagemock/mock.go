package storagemock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/touledger/touledger/pkg/storage"
	"github.com/touledger/touledger/pkg/types"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) InsertRun(ctx context.Context, run types.RunRecord) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockDatabase) GetRunHistory(ctx context.Context, start, end time.Time) ([]types.RunRecord, error) {
	args := m.Called(ctx, start, end)
	if len(args) > 0 {
		return args.Get(0).([]types.RunRecord), args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) GetLatestRunTime(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		return args.Get(0).(time.Time), args.Error(1)
	}
	return time.Time{}, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
