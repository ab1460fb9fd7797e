package handlers_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaflow-backend/application/commands/handlers"
	"ideaflow-backend/application/ports"
	domainconfig "ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	domainservices "ideaflow-backend/domain/services"
	infraevents "ideaflow-backend/infrastructure/events"
	"ideaflow-backend/infrastructure/persistence/memory"
	"ideaflow-backend/pkg/observability"
)

const testUser = "user-1"

// boardFixture wires the application handlers against the in-memory store so
// tests observe the same persisted state the handlers do.
type boardFixture struct {
	t      *testing.T
	store  *memory.Store
	cfg    *domainconfig.DomainConfig
	loader *handlers.TreeLoader
	logger *zap.Logger
	board  *entities.Board
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()

	store := memory.NewStore()
	cfg := domainconfig.DefaultDomainConfig()
	loader := handlers.NewTreeLoader(store.BoardRepository(), store.NodeRepository(), store.EdgeRepository(), cfg)

	board, err := entities.NewBoard(testUser, "Brainstorm", "")
	require.NoError(t, err)
	require.NoError(t, store.BoardRepository().Save(context.Background(), board))

	return &boardFixture{
		t:      t,
		store:  store,
		cfg:    cfg,
		loader: loader,
		logger: zap.NewNop(),
		board:  board,
	}
}

func (f *boardFixture) metrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.NewRegistry())
}

func (f *boardFixture) position(x, y float64) valueobjects.Position {
	f.t.Helper()
	pos, err := valueobjects.NewPosition(x, y)
	require.NoError(f.t, err)
	return pos
}

func (f *boardFixture) content(text string) valueobjects.Content {
	f.t.Helper()
	content, err := valueobjects.NewContentWithConfig(text, f.cfg)
	require.NoError(f.t, err)
	return content
}

func (f *boardFixture) size() valueobjects.Size {
	f.t.Helper()
	size, err := valueobjects.NewSize(f.cfg.DefaultNodeWidth, f.cfg.DefaultNodeHeight)
	require.NoError(f.t, err)
	return size
}

func (f *boardFixture) save(node *entities.Node) *entities.Node {
	f.t.Helper()
	require.NoError(f.t, f.store.NodeRepository().Save(context.Background(), node))
	return node
}

func (f *boardFixture) seedRoot(text string, x, y float64) *entities.Node {
	f.t.Helper()
	node, err := entities.NewRootQuestion(f.board.ID(), f.content(text), f.position(x, y), f.size())
	require.NoError(f.t, err)
	return f.save(node)
}

func (f *boardFixture) seedAnswer(question *entities.Node, text string) *entities.Node {
	f.t.Helper()
	pos := f.position(question.Position().X+f.cfg.DefaultNodeWidth+f.cfg.HorizontalGap, question.Position().Y)
	node, err := entities.NewAnswer(f.board.ID(), question, f.content(text), pos, f.size())
	require.NoError(f.t, err)
	f.save(node)
	f.seedEdge(question, node)
	return node
}

func (f *boardFixture) seedFollowup(parent *entities.Node, text string) *entities.Node {
	f.t.Helper()
	pos := f.position(parent.Position().X+f.cfg.DefaultNodeWidth+f.cfg.HorizontalGap, parent.Position().Y)
	node, err := entities.NewFollowupQuestion(f.board.ID(), parent, f.content(text), pos, f.size())
	require.NoError(f.t, err)
	f.save(node)
	f.seedEdge(parent, node)
	return node
}

func (f *boardFixture) seedEdge(source, target *entities.Node) *entities.Edge {
	f.t.Helper()
	edge, err := entities.NewEdge(f.board.ID(), source.ID(), target.ID())
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.EdgeRepository().Save(context.Background(), edge))
	return edge
}

func (f *boardFixture) storedNodes() []*entities.Node {
	f.t.Helper()
	nodes, err := f.store.NodeRepository().GetByBoardID(context.Background(), f.board.ID())
	require.NoError(f.t, err)
	return nodes
}

func (f *boardFixture) storedEdges() []*entities.Edge {
	f.t.Helper()
	edges, err := f.store.EdgeRepository().GetByBoardID(context.Background(), f.board.ID())
	require.NoError(f.t, err)
	return edges
}

func (f *boardFixture) storedNode(id valueobjects.NodeID) *entities.Node {
	f.t.Helper()
	node, err := f.store.NodeRepository().GetByID(context.Background(), f.board.ID(), id)
	require.NoError(f.t, err)
	return node
}

func (f *boardFixture) orchestrator(gen ports.TextGenerator) *handlers.GenerateAnswerOrchestrator {
	return handlers.NewGenerateAnswerOrchestrator(
		f.loader,
		f.store.NodeRepository(),
		f.store.EdgeRepository(),
		gen,
		domainservices.NewContextAssembler(f.cfg),
		domainservices.NewLayoutEngine(f.cfg),
		infraevents.NewLogPublisher(f.logger),
		f.metrics(),
		f.cfg,
		f.logger,
		ports.GenerationOptions{},
		0,
	)
}

func (f *boardFixture) deleteHandler() *handlers.DeleteNodeHandler {
	return handlers.NewDeleteNodeHandler(
		f.loader,
		f.store.NodeRepository(),
		f.store.EdgeRepository(),
		domainservices.NewDeletionResolver(),
		infraevents.NewLogPublisher(f.logger),
		f.metrics(),
		f.logger,
	)
}
