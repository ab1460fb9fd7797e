package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ideaflow-backend/application/commands"
	"ideaflow-backend/application/commands/bus"
	commandhandlers "ideaflow-backend/application/commands/handlers"
	"ideaflow-backend/application/queries"
	querybus "ideaflow-backend/application/queries/bus"
	"ideaflow-backend/pkg/auth"
	"ideaflow-backend/pkg/common"
	pkgerrors "ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/utils"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	createNode *commandhandlers.CreateNodeHandler
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	createNode *commandhandlers.CreateNodeHandler,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		createNode: createNode,
		errors:     errors,
		logger:     logger,
	}
}

// CreateNodeRequest represents the request body for creating a question node.
// Without a parent the node becomes a new root question; with one it becomes
// a follow-up under that parent. Placement is server-side, so no coordinates.
type CreateNodeRequest struct {
	Content  string `json:"content" validate:"required,max=20000"`
	ParentID string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

// MoveNodeRequest represents the request body for moving a node
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UpdateNodeContentRequest represents the request body for editing a node
type UpdateNodeContentRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// CreateNode handles POST /boards/{boardID}/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req CreateNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	node, err := h.createNode.Handle(r.Context(), commands.CreateNodeCommand{
		BoardID:  chi.URLParam(r, "boardID"),
		UserID:   user.UserID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, nodeView(node))
}

// GetNode handles GET /boards/{boardID}/nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{
		BoardID: chi.URLParam(r, "boardID"),
		NodeID:  chi.URLParam(r, "nodeID"),
		UserID:  user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// MoveNode handles PUT /boards/{boardID}/nodes/{nodeID}/position
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req MoveNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.MoveNodeCommand{
		NodeID:  chi.URLParam(r, "nodeID"),
		BoardID: chi.URLParam(r, "boardID"),
		UserID:  user.UserID,
		X:       req.X,
		Y:       req.Y,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateNodeContent handles PUT /boards/{boardID}/nodes/{nodeID}/content
func (h *NodeHandler) UpdateNodeContent(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	var req UpdateNodeContentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.UpdateNodeContentCommand{
		NodeID:  chi.URLParam(r, "nodeID"),
		BoardID: chi.URLParam(r, "boardID"),
		UserID:  user.UserID,
		Content: req.Content,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteNode handles DELETE /boards/{boardID}/nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.DeleteNodeCommand{
		NodeID:  chi.URLParam(r, "nodeID"),
		BoardID: chi.URLParam(r, "boardID"),
		UserID:  user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
