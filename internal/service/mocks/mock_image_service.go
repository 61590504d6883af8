package mocks

import (
	"context"
	"io"

	"imagegen/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Generate(ctx context.Context, prompt string) (*model.Image, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *MockImageService) Open(ctx context.Context, filename string) (io.ReadCloser, *model.Image, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Image), args.Error(2)
}
