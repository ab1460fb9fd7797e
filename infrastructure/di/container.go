package di

import (
	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/commands/bus"
	commandhandlers "ideaflow-backend/application/commands/handlers"
	"ideaflow-backend/application/ports"
	querybus "ideaflow-backend/application/queries/bus"
	domainconfig "ideaflow-backend/domain/config"
	"ideaflow-backend/infrastructure/config"
	"ideaflow-backend/pkg/auth"
	pkgerrors "ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/observability"
)

// Container holds all application dependencies. Mutations that return the
// created entity keep typed handler fields; everything else goes through
// the buses.
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger
	Metrics      *observability.Metrics

	BoardRepo ports.BoardRepository
	NodeRepo  ports.NodeRepository
	EdgeRepo  ports.EdgeRepository

	EventPublisher ports.EventPublisher
	Generator      ports.TextGenerator

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus

	CreateBoard    *commands.CreateBoardHandler
	CreateNode     *commandhandlers.CreateNodeHandler
	GenerateAnswer *commandhandlers.GenerateAnswerOrchestrator

	JWTValidator *auth.JWTValidator
	ErrorHandler *pkgerrors.ErrorHandler
}
