package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockEmailSenderForTest creates a new mock EmailSender for testing
func NewMockEmailSenderForTest(t *testing.T) *MockEmailSender {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockEmailSender(ctrl)
}

// NewMockObjectStoreForTest creates a new mock ObjectStore for testing
func NewMockObjectStoreForTest(t *testing.T) *MockObjectStore {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockObjectStore(ctrl)
}

// NewMockRunQueueForTest creates a new mock RunQueue for testing
func NewMockRunQueueForTest(t *testing.T) *MockRunQueue {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockRunQueue(ctrl)
}
