package usecase

import (
	"context"
	"sync"

	"github.com/shelfprice/collector/internal/domain"
)

// MockFetcher is a mock implementation of domain.ProductFetcher
type MockFetcher struct {
	mu      sync.Mutex
	results map[string]domain.FetchResult
	errors  map[string]error
	calls   []fetchCall
}

type fetchCall struct {
	id     string
	fields domain.FieldSet
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		results: make(map[string]domain.FetchResult),
		errors:  make(map[string]error),
	}
}

func (m *MockFetcher) On(id string, res domain.FetchResult) *MockFetcher {
	m.results[id] = res
	return m
}

func (m *MockFetcher) Fail(id string, err error) *MockFetcher {
	m.errors[id] = err
	return m
}

func (m *MockFetcher) FetchProduct(ctx context.Context, id string, fields domain.FieldSet) (domain.FetchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, fetchCall{id: id, fields: fields})
	if err, ok := m.errors[id]; ok {
		return domain.FetchResult{}, err
	}
	if res, ok := m.results[id]; ok {
		return res, nil
	}
	return domain.NotFoundResult(), nil
}

func (m *MockFetcher) Calls() []fetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]fetchCall(nil), m.calls...)
}

// MockURLResolver is a mock implementation of domain.URLResolver
type MockURLResolver struct {
	mu    sync.Mutex
	urls  map[string]string
	err   error
	calls int
}

func NewMockURLResolver() *MockURLResolver {
	return &MockURLResolver{urls: make(map[string]string)}
}

func (m *MockURLResolver) ProductURL(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if url, ok := m.urls[id]; ok {
		return url, nil
	}
	return domain.NoURL, nil
}

func (m *MockURLResolver) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// doc builds a Document from nested maps
func doc(m map[string]interface{}) domain.FetchResult {
	return domain.DocumentResult(domain.Document(m))
}

type obj = map[string]interface{}
