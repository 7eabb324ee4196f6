package iocache

import (
	"time"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSampleStore implements the StoreManager interface.
func (m *MockStoreManager) GetSampleStore() contract.SampleStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SampleStore)
	return store
}

// MockSampleStore is a mock implementation of SampleStore for testing.
type MockSampleStore struct {
	mock.Mock
}

var _ contract.SampleStore = &MockSampleStore{} // Compile-time check

// BeginRun implements the SampleStore interface.
func (m *MockSampleStore) BeginRun(startTime, startDay time.Time, configParams map[string]any) (string, error) {
	args := m.Called(startTime, startDay, configParams)
	return args.String(0), args.Error(1)
}

// EndRun implements the SampleStore interface.
func (m *MockSampleStore) EndRun(runID string, endTime time.Time, projects, samples, failures int) error {
	args := m.Called(runID, endTime, projects, samples, failures)
	return args.Error(0)
}

// GetSample implements the SampleStore interface.
func (m *MockSampleStore) GetSample(project, commit, fingerprint string) (schema.SampleEntry, bool, error) {
	args := m.Called(project, commit, fingerprint)
	entry, _ := args.Get(0).(schema.SampleEntry)
	return entry, args.Bool(1), args.Error(2)
}

// PutSample implements the SampleStore interface.
func (m *MockSampleStore) PutSample(runID, project, fingerprint string, entry schema.SampleEntry) error {
	args := m.Called(runID, project, fingerprint, entry)
	return args.Error(0)
}

// ListProjects implements the SampleStore interface.
func (m *MockSampleStore) ListProjects() ([]string, error) {
	args := m.Called()
	projects, _ := args.Get(0).([]string)
	return projects, args.Error(1)
}

// GetSeries implements the SampleStore interface.
func (m *MockSampleStore) GetSeries(project string, limit int) ([]schema.StoredSample, error) {
	args := m.Called(project, limit)
	series, _ := args.Get(0).([]schema.StoredSample)
	return series, args.Error(1)
}

// GetRuns implements the SampleStore interface.
func (m *MockSampleStore) GetRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetStatus implements the SampleStore interface.
func (m *MockSampleStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}

// Close implements the SampleStore interface.
func (m *MockSampleStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
