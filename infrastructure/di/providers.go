package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/commands/bus"
	commandhandlers "ideaflow-backend/application/commands/handlers"
	"ideaflow-backend/application/ports"
	"ideaflow-backend/application/queries"
	querybus "ideaflow-backend/application/queries/bus"
	queryhandlers "ideaflow-backend/application/queries/handlers"
	appservices "ideaflow-backend/application/services"
	domainconfig "ideaflow-backend/domain/config"
	domainservices "ideaflow-backend/domain/services"
	"ideaflow-backend/infrastructure/config"
	infraevents "ideaflow-backend/infrastructure/events"
	"ideaflow-backend/infrastructure/generation"
	dynamopersistence "ideaflow-backend/infrastructure/persistence/dynamodb"
	"ideaflow-backend/infrastructure/persistence/memory"
	"ideaflow-backend/pkg/auth"
	pkgerrors "ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig loads the business-rule configuration
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return domainconfig.LoadDomainConfig(cfg.Environment)
}

// Repositories groups the three persistence ports so the memory and DynamoDB
// backends can be swapped as a unit
type Repositories struct {
	Boards ports.BoardRepository
	Nodes  ports.NodeRepository
	Edges  ports.EdgeRepository
}

// ProvideRepositories selects the persistence backend
func ProvideRepositories(ctx context.Context, cfg *config.Config, domainCfg *domainconfig.DomainConfig, logger *zap.Logger) (*Repositories, error) {
	if cfg.UseMemoryStore {
		logger.Info("using in-memory persistence")
		store := memory.NewStore()
		return &Repositories{
			Boards: store.BoardRepository(),
			Nodes:  store.NodeRepository(),
			Edges:  store.EdgeRepository(),
		}, nil
	}

	client, err := dynamopersistence.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Boards: dynamopersistence.NewBoardRepository(client, cfg.DynamoDBTable, cfg.BoardIndexName, logger),
		Nodes:  dynamopersistence.NewNodeRepository(client, cfg.DynamoDBTable, domainCfg, logger),
		Edges:  dynamopersistence.NewEdgeRepository(client, cfg.DynamoDBTable, logger),
	}, nil
}

// ProvideBoardRepository extracts the board repository
func ProvideBoardRepository(repos *Repositories) ports.BoardRepository { return repos.Boards }

// ProvideNodeRepository extracts the node repository
func ProvideNodeRepository(repos *Repositories) ports.NodeRepository { return repos.Nodes }

// ProvideEdgeRepository extracts the edge repository
func ProvideEdgeRepository(repos *Repositories) ports.EdgeRepository { return repos.Edges }

// ProvideEventPublisher creates the domain event publisher
func ProvideEventPublisher(logger *zap.Logger) ports.EventPublisher {
	return infraevents.NewLogPublisher(logger)
}

// ProvideMetrics registers service metrics on the default registry
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.DefaultRegisterer)
}

// ProvideTextGenerator builds the generation stack: provider client wrapped
// in a circuit breaker wrapped in retries. Without an API key a canned
// generator is used so local development works offline.
func ProvideTextGenerator(cfg *config.Config, logger *zap.Logger) (ports.TextGenerator, error) {
	if cfg.Generation.APIKey == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("generation API key is required in production")
		}
		logger.Warn("no generation API key configured, using canned responses")
		return generation.NewStaticGenerator(""), nil
	}

	client, err := generation.NewLangChainGenerator(generation.Config{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	}, logger)
	if err != nil {
		return nil, err
	}

	retryCfg := generation.DefaultRetryConfig()
	if cfg.Generation.MaxAttempts > 0 {
		retryCfg.MaxAttempts = cfg.Generation.MaxAttempts
	}

	breaker := generation.NewBreakerGenerator(client, logger)
	return generation.NewRetryGenerator(breaker, retryCfg, logger), nil
}

// ProvideGenerationOptions extracts per-call generation tuning
func ProvideGenerationOptions(cfg *config.Config) ports.GenerationOptions {
	return ports.GenerationOptions{
		Model:       cfg.Generation.Model,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	}
}

// ProvideLayoutEngine creates the layout engine
func ProvideLayoutEngine(domainCfg *domainconfig.DomainConfig) *domainservices.LayoutEngine {
	return domainservices.NewLayoutEngine(domainCfg)
}

// ProvideContextAssembler creates the context assembler
func ProvideContextAssembler(domainCfg *domainconfig.DomainConfig) *domainservices.ContextAssembler {
	return domainservices.NewContextAssembler(domainCfg)
}

// ProvideDeletionResolver creates the deletion resolver
func ProvideDeletionResolver() *domainservices.DeletionResolver {
	return domainservices.NewDeletionResolver()
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideErrorHandler creates the HTTP error renderer
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// CommandHandlerAdapter adapts typed command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with the fire-and-forget mutations
// registered. Commands whose handlers return a created entity (board, node,
// answer) are exposed as typed handlers on the Container instead; a generic
// bus would throw the result away.
func ProvideCommandBus(
	boardRepo ports.BoardRepository,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	loader *commandhandlers.TreeLoader,
	resolver *domainservices.DeletionResolver,
	eventPublisher ports.EventPublisher,
	domainCfg *domainconfig.DomainConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(logger))

	register := func(cmdType bus.Command, handle func(context.Context, bus.Command) error) error {
		return commandBus.Register(cmdType, pipeline.Execute(&CommandHandlerAdapter{handler: handle}))
	}

	updateBoardHandler := commands.NewUpdateBoardHandler(boardRepo, logger)
	if err := register(commands.UpdateBoardCommand{}, func(ctx context.Context, cmd bus.Command) error {
		updateCmd, ok := cmd.(commands.UpdateBoardCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return updateBoardHandler.Handle(ctx, updateCmd)
	}); err != nil {
		return nil, err
	}

	moveHandler := commandhandlers.NewMoveNodeHandler(boardRepo, nodeRepo, logger)
	if err := register(commands.MoveNodeCommand{}, func(ctx context.Context, cmd bus.Command) error {
		moveCmd, ok := cmd.(commands.MoveNodeCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return moveHandler.Handle(ctx, moveCmd)
	}); err != nil {
		return nil, err
	}

	contentHandler := commandhandlers.NewUpdateNodeContentHandler(boardRepo, nodeRepo, domainCfg, logger)
	if err := register(commands.UpdateNodeContentCommand{}, func(ctx context.Context, cmd bus.Command) error {
		contentCmd, ok := cmd.(commands.UpdateNodeContentCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return contentHandler.Handle(ctx, contentCmd)
	}); err != nil {
		return nil, err
	}

	deleteNodeHandler := commandhandlers.NewDeleteNodeHandler(loader, nodeRepo, edgeRepo, resolver, eventPublisher, metrics, logger)
	if err := register(commands.DeleteNodeCommand{}, func(ctx context.Context, cmd bus.Command) error {
		deleteCmd, ok := cmd.(commands.DeleteNodeCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return deleteNodeHandler.Handle(ctx, deleteCmd)
	}); err != nil {
		return nil, err
	}

	deleteBoardHandler := commandhandlers.NewDeleteBoardHandler(boardRepo, nodeRepo, edgeRepo, eventPublisher, metrics, logger)
	if err := register(commands.DeleteBoardCommand{}, func(ctx context.Context, cmd bus.Command) error {
		deleteCmd, ok := cmd.(commands.DeleteBoardCommand)
		if !ok {
			return fmt.Errorf("invalid command type")
		}
		return deleteBoardHandler.Handle(ctx, deleteCmd)
	}); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// QueryHandlerAdapter adapts typed query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	boardRepo ports.BoardRepository,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	layout *domainservices.LayoutEngine,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	getBoardHandler := queryhandlers.NewGetBoardHandler(boardRepo)
	if err := queryBus.Register(queries.GetBoardQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetBoardQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getBoardHandler.Handle(ctx, getQuery)
		},
	}); err != nil {
		return nil, err
	}

	listBoardsHandler := queryhandlers.NewListBoardsHandler(boardRepo)
	if err := queryBus.Register(queries.ListBoardsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListBoardsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listBoardsHandler.Handle(ctx, listQuery)
		},
	}); err != nil {
		return nil, err
	}

	getBoardDataHandler := queryhandlers.NewGetBoardDataHandler(boardRepo, nodeRepo, edgeRepo, layout, logger)
	if err := queryBus.Register(queries.GetBoardDataQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			dataQuery, ok := query.(queries.GetBoardDataQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getBoardDataHandler.Handle(ctx, dataQuery)
		},
	}); err != nil {
		return nil, err
	}

	getNodeHandler := queryhandlers.NewGetNodeHandler(boardRepo, nodeRepo)
	if err := queryBus.Register(queries.GetNodeQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetNodeQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getNodeHandler.Handle(ctx, getQuery)
		},
	}); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideTreeLoader creates the board tree loader
func ProvideTreeLoader(
	boardRepo ports.BoardRepository,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	domainCfg *domainconfig.DomainConfig,
) *commandhandlers.TreeLoader {
	return commandhandlers.NewTreeLoader(boardRepo, nodeRepo, edgeRepo, domainCfg)
}

// ProvideCreateBoardHandler creates the typed board creation handler
func ProvideCreateBoardHandler(
	boardRepo ports.BoardRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *commands.CreateBoardHandler {
	return commands.NewCreateBoardHandler(boardRepo, eventPublisher, logger)
}

// ProvideCreateNodeHandler creates the typed node creation handler
func ProvideCreateNodeHandler(
	loader *commandhandlers.TreeLoader,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	layout *domainservices.LayoutEngine,
	eventPublisher ports.EventPublisher,
	metrics *observability.Metrics,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.CreateNodeHandler {
	edges := appservices.NewEdgeService(edgeRepo, logger)
	return commandhandlers.NewCreateNodeHandler(loader, nodeRepo, edges, layout, eventPublisher, metrics, domainCfg, logger)
}

// ProvideGenerateAnswerOrchestrator creates the answer generation orchestrator
func ProvideGenerateAnswerOrchestrator(
	loader *commandhandlers.TreeLoader,
	nodeRepo ports.NodeRepository,
	edgeRepo ports.EdgeRepository,
	generator ports.TextGenerator,
	assembler *domainservices.ContextAssembler,
	layout *domainservices.LayoutEngine,
	eventPublisher ports.EventPublisher,
	metrics *observability.Metrics,
	domainCfg *domainconfig.DomainConfig,
	cfg *config.Config,
	logger *zap.Logger,
) *commandhandlers.GenerateAnswerOrchestrator {
	return commandhandlers.NewGenerateAnswerOrchestrator(
		loader,
		nodeRepo,
		edgeRepo,
		generator,
		assembler,
		layout,
		eventPublisher,
		metrics,
		domainCfg,
		logger,
		ProvideGenerationOptions(cfg),
		cfg.Generation.Timeout,
	)
}
