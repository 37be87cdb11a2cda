// Package mocks provides test doubles for the brain client.
package mocks

import (
	"context"

	brain "github.com/masha-osint/masha/pkg/brain"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Plan provides a mock function with given fields: ctx, target
func (_m *MockClient) Plan(ctx context.Context, target brain.TargetInfo) (*brain.Plan, error) {
	ret := _m.Called(ctx, target)

	if len(ret) == 0 {
		panic("no return value specified for Plan")
	}

	var r0 *brain.Plan
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, brain.TargetInfo) (*brain.Plan, error)); ok {
		return rf(ctx, target)
	}
	if rf, ok := ret.Get(0).(func(context.Context, brain.TargetInfo) *brain.Plan); ok {
		r0 = rf(ctx, target)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*brain.Plan)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, brain.TargetInfo) error); ok {
		r1 = rf(ctx, target)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SelectURLs provides a mock function with given fields: ctx, results
func (_m *MockClient) SelectURLs(ctx context.Context, results []brain.SearchResult) (*brain.Selection, error) {
	ret := _m.Called(ctx, results)

	if len(ret) == 0 {
		panic("no return value specified for SelectURLs")
	}

	var r0 *brain.Selection
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []brain.SearchResult) (*brain.Selection, error)); ok {
		return rf(ctx, results)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []brain.SearchResult) *brain.Selection); ok {
		r0 = rf(ctx, results)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*brain.Selection)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []brain.SearchResult) error); ok {
		r1 = rf(ctx, results)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Synthesize provides a mock function with given fields: ctx, payload
func (_m *MockClient) Synthesize(ctx context.Context, payload interface{}) (*brain.Dossier, error) {
	ret := _m.Called(ctx, payload)

	if len(ret) == 0 {
		panic("no return value specified for Synthesize")
	}

	var r0 *brain.Dossier
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, interface{}) (*brain.Dossier, error)); ok {
		return rf(ctx, payload)
	}
	if rf, ok := ret.Get(0).(func(context.Context, interface{}) *brain.Dossier); ok {
		r0 = rf(ctx, payload)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*brain.Dossier)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, interface{}) error); ok {
		r1 = rf(ctx, payload)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
