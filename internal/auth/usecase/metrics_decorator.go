package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/cardvault/internal/auth/domain"
	"github.com/allisson/cardvault/internal/metrics"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

const authMetricsDomain = "auth"

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, authMetricsDomain, operation, status)
	a.metrics.RecordDuration(ctx, authMetricsDomain, operation, time.Since(start), status)
}

func (a *authUseCaseWithMetrics) SignUp(ctx context.Context, input SignUpInput) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.SignUp(ctx, input)
	a.record(ctx, "auth_signup", start, err)
	return user, err
}

func (a *authUseCaseWithMetrics) SignIn(
	ctx context.Context,
	input authDomain.SignInInput,
) (*authDomain.Token, error) {
	start := time.Now()
	token, err := a.next.SignIn(ctx, input)
	a.record(ctx, "auth_signin", start, err)
	return token, err
}

func (a *authUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	accessToken string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, accessToken)
	a.record(ctx, "auth_authenticate", start, err)
	return principal, err
}
