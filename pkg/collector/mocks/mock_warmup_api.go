// Package mocks provides test doubles for collector package.
package mocks

import (
	"context"

	"github.com/cmartindale/warmup-prometheus-exporter/pkg/warmup"
	"github.com/stretchr/testify/mock"
)

// MockWarmupAPI is a mock implementation of the WarmupAPI interface
type MockWarmupAPI struct {
	mock.Mock
}

// GetStatus implements WarmupAPI.GetStatus
func (m *MockWarmupAPI) GetStatus(ctx context.Context) (*warmup.QueryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warmup.QueryResponse), args.Error(1)
}

// ExpectGetStatusReturnsLocations sets up expectation for GetStatus to return locations
func (m *MockWarmupAPI) ExpectGetStatusReturnsLocations(locations []warmup.Location) *MockWarmupAPI {
	qr := &warmup.QueryResponse{Status: "success"}
	qr.Data.User.Locations = locations
	m.On("GetStatus", mock.Anything).Return(qr, nil)
	return m
}

// ExpectGetStatusReturnsError sets up expectation for GetStatus to return an error
func (m *MockWarmupAPI) ExpectGetStatusReturnsError(err error) *MockWarmupAPI {
	m.On("GetStatus", mock.Anything).Return(nil, err)
	return m
}

// ExpectGetStatusSkipped sets up expectation for GetStatus to report a
// skipped call (no session available yet)
func (m *MockWarmupAPI) ExpectGetStatusSkipped() *MockWarmupAPI {
	m.On("GetStatus", mock.Anything).Return(nil, nil)
	return m
}
