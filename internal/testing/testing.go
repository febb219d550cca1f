// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/services"
)

// MockService is a configurable test double for [services.Service].
type MockService struct {
	Artists      map[string]*models.ResolvedArtist // keyed by search name as given
	Subs         models.SubscriptionSet
	SearchErr    error
	ListErr      error
	SubscribeErr error
	SubscribeLog []string
	AuthMode     services.AuthMode
}

func (m *MockService) SearchArtist(_ context.Context, name string) (*models.ResolvedArtist, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Artists[name], nil
}

func (m *MockService) ListSubscriptions(context.Context) (models.SubscriptionSet, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if m.Subs == nil {
		return models.NewSubscriptionSet(), nil
	}
	return m.Subs, nil
}

func (m *MockService) Subscribe(_ context.Context, channelID string) error {
	if m.SubscribeErr != nil {
		return m.SubscribeErr
	}
	m.SubscribeLog = append(m.SubscribeLog, channelID)
	return nil
}

func (m *MockService) Mode() services.AuthMode { return m.AuthMode }

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
