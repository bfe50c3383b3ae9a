//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	providePublisher,
)

// repositorySet 仓储和事务管理器
var repositorySet = wire.NewSet(
	database.NewBookRepository,
	database.NewUserRepository,
	database.NewBorrowRepository,
	database.NewTxManager,
	wire.Bind(new(borrow.Transactor), new(*database.TxManager)),
)

// domainSet 领域服务，借阅流程通过网关接口使用图书和用户仓储
var domainSet = wire.NewSet(
	book.NewService,
	user.NewService,
	borrow.NewWorkflow,
	wire.Bind(new(borrow.BookGateway), new(book.Repository)),
	wire.Bind(new(borrow.UserGateway), new(user.Repository)),
)

// cacheSet 会话和详情缓存
var cacheSet = wire.NewSet(
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	provideBookCache,
	provideUserCache,
	provideBorrowBookCache,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,

	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewCreateUserUseCase,
	appuser.NewUpdateUserUseCase,
	appuser.NewDeleteUserUseCase,
	appuser.NewGetUserUseCase,
	appuser.NewListUsersUseCase,
	wire.Bind(new(appuser.OpenBorrowCounter), new(borrow.Repository)),

	appborrow.NewBorrowBookUseCase,
	appborrow.NewReturnBookUseCase,
	appborrow.NewHistoryUseCase,
)

// interfaceSet HTTP和gRPC
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewBookHandler,
	handler.NewUserHandler,
	handler.NewBorrowHandler,
	router.NewRouter,
	provideHealthServer,
)

// InitializeApp 组装serve命令需要的全部依赖
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		cacheSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeVerifier verify命令只需要数据库
func InitializeVerifier(cfg *config.Config) (*appborrow.VerifyUseCase, func(), error) {
	wire.Build(
		provideDB,
		database.NewBookRepository,
		database.NewBorrowRepository,
		wire.Bind(new(appborrow.BorrowedBookLister), new(book.Repository)),
		appborrow.NewVerifyUseCase,
	)
	return nil, nil, nil
}
