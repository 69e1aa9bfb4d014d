package refinement_test

import (
	"context"
	"encoding/json"
	"sync"
)

// mockProvider is a Provider whose behavior is set per test through function fields.
type mockProvider struct {
	GenerateFn           func(ctx context.Context, instruction string) (string, error)
	GenerateStructuredFn func(ctx context.Context, instruction string) (json.RawMessage, error)

	mu           sync.Mutex
	instructions []string
}

func (m *mockProvider) Generate(ctx context.Context, instruction string) (string, error) {
	m.record(instruction)
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, instruction)
	}
	return "", nil
}

func (m *mockProvider) GenerateStructured(ctx context.Context, instruction string) (json.RawMessage, error) {
	m.record(instruction)
	if m.GenerateStructuredFn != nil {
		return m.GenerateStructuredFn(ctx, instruction)
	}
	return nil, nil
}

func (m *mockProvider) record(instruction string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instructions = append(m.instructions, instruction)
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instructions)
}
