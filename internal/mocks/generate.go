// Package mocks provides gomock implementations of the ports interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockStorage(ctrl)
//	store.EXPECT().Get(gomock.Any(), "session").Return("", ports.ErrNotFound)
package mocks

// Storage: Get, Set, Remove
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=storage_mock.go github.com/target/ims-ui/internal/ports Storage

// SessionManager: Token, Save
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_manager_mock.go github.com/target/ims-ui/internal/ports SessionManager
