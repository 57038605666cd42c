// Package mocks provides testify mock implementations of the auth use case
// and services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/cardvault/internal/auth/domain"
	authUseCase "github.com/allisson/cardvault/internal/auth/usecase"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

// MockAuthUseCase is a mock implementation of usecase.AuthUseCase.
type MockAuthUseCase struct {
	mock.Mock
}

// SignUp mocks the SignUp method.
func (m *MockAuthUseCase) SignUp(ctx context.Context, input authUseCase.SignUpInput) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// SignIn mocks the SignIn method.
func (m *MockAuthUseCase) SignIn(ctx context.Context, input authDomain.SignInInput) (*authDomain.Token, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

// Authenticate mocks the Authenticate method.
func (m *MockAuthUseCase) Authenticate(ctx context.Context, accessToken string) (*authDomain.Principal, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

// MockPasswordService is a mock implementation of service.PasswordService.
type MockPasswordService struct {
	mock.Mock
}

// HashPassword mocks the HashPassword method.
func (m *MockPasswordService) HashPassword(plainPassword string) (string, error) {
	args := m.Called(plainPassword)
	return args.String(0), args.Error(1)
}

// ComparePassword mocks the ComparePassword method.
func (m *MockPasswordService) ComparePassword(plainPassword, hashedPassword string) bool {
	return m.Called(plainPassword, hashedPassword).Bool(0)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// Issue mocks the Issue method.
func (m *MockTokenService) Issue(user *userDomain.User) (*authDomain.Token, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

// Parse mocks the Parse method.
func (m *MockTokenService) Parse(accessToken string) (*authDomain.Principal, error) {
	args := m.Called(accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}
