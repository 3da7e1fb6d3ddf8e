package user

import (
	"github.com/google/wire"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/retail-pos/internal/user/domain"
	"github.com/tair/retail-pos/internal/user/repository"
	"github.com/tair/retail-pos/internal/user/usecase/command"
	"github.com/tair/retail-pos/internal/user/usecase/query"
	"github.com/tair/retail-pos/pkg/auth"
)

// ProvideUserRepository provides the traced user repository
func ProvideUserRepository(db *gorm.DB, tp trace.TracerProvider) domain.UserRepository {
	return repository.NewUserRepositoryWithTracing(repository.NewGormUserRepository(db), tp)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandHandlerSet = wire.NewSet(
	wire.Bind(new(command.TokenIssuer), new(*auth.TokenManager)),
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetUserHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)
