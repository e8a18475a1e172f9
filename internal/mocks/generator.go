package mocks

import (
	"context"
	"sync"

	"github.com/bigidrise/mealguard/internal/safety"
)

// MockMealGenerator is a scriptable stand-in for the external meal
// generator. Outputs are returned in order; the last one repeats.
type MockMealGenerator struct {
	mu      sync.Mutex
	outputs []safety.MealOutput
	err     error
	calls   []string
}

func NewMockMealGenerator(outputs ...safety.MealOutput) *MockMealGenerator {
	return &MockMealGenerator{outputs: outputs}
}

// Fail makes every Generate call return err.
func (m *MockMealGenerator) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockMealGenerator) Generate(_ context.Context, request string, _, _ []string) (*safety.MealOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, request)
	if m.err != nil {
		return nil, m.err
	}

	idx := len(m.calls) - 1
	if idx >= len(m.outputs) {
		idx = len(m.outputs) - 1
	}
	meal := m.outputs[idx]
	return &meal, nil
}

// Calls returns the request text of every Generate invocation.
func (m *MockMealGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
