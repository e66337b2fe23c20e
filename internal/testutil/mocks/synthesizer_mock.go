package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockSynthesizer is a mock implementation of voicevox.Synthesizer
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) AudioQuery(ctx context.Context, text string, speaker int) (json.RawMessage, error) {
	args := m.Called(ctx, text, speaker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, query json.RawMessage, speaker int) ([]byte, error) {
	args := m.Called(ctx, query, speaker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
