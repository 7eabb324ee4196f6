package contract

import (
	"context"
	"iter"

	"github.com/clokep/arewetypedyet/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// Fetch implements the GitClient interface.
func (m *MockGitClient) Fetch(ctx context.Context, repoPath string, remote string) error {
	return m.Called(ctx, repoPath, remote).Error(0)
}

// IterCommits implements the GitClient interface.
// The programmed return value may be an iter.Seq2 or a plain []schema.Commit.
func (m *MockGitClient) IterCommits(ctx context.Context, repoPath string, ref string) iter.Seq2[schema.Commit, error] {
	ret := m.Called(ctx, repoPath, ref)
	switch v := ret.Get(0).(type) {
	case iter.Seq2[schema.Commit, error]:
		return v
	case []schema.Commit:
		return func(yield func(schema.Commit, error) bool) {
			for _, c := range v {
				if !yield(c, nil) {
					return
				}
			}
		}
	default:
		return func(func(schema.Commit, error) bool) {}
	}
}

// ResetHard implements the GitClient interface.
func (m *MockGitClient) ResetHard(ctx context.Context, repoPath string, commit string) error {
	return m.Called(ctx, repoPath, commit).Error(0)
}

// MockAnalyzer is a mock implementation of Analyzer for testing.
type MockAnalyzer struct {
	mock.Mock
}

var _ Analyzer = &MockAnalyzer{} // Compile-time check

// Analyze implements the Analyzer interface.
func (m *MockAnalyzer) Analyze(ctx context.Context, req AnalyzerRequest) (string, error) {
	ret := m.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}
