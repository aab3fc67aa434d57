package user

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/eco-catalog/internal/user/delivery/grpc"
	"github.com/tair/eco-catalog/internal/user/delivery/http"
	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/internal/user/repository"
	"github.com/tair/eco-catalog/internal/user/usecase/command"
	"github.com/tair/eco-catalog/internal/user/usecase/query"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/middleware"
)

// ProvideUserRepository provides the traced user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewTracingUserRepository(repository.NewGormUserRepository(db))
}

func ProvideTokenIssuer(tokens *auth.TokenManager) command.TokenIssuer {
	return tokens
}

func ProvideAuthenticator(tokens *auth.TokenManager) *middleware.Authenticator {
	return middleware.NewAuthenticator(tokens)
}

func ProvideHTTPMetrics(reg prometheus.Registerer) *middleware.HTTPMetrics {
	return middleware.NewHTTPMetrics("user_service", reg)
}

var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideTokenIssuer,
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetUserHandler,
)

var HTTPSet = wire.NewSet(
	ProvideAuthenticator,
	ProvideHTTPMetrics,
	http.NewUserHandler,
)

var GRPCSet = wire.NewSet(
	grpc.NewUserServer,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
	HTTPSet,
)
