package errors

import "fmt"

// Domain-specific constructors. Handlers and services use these instead of
// assembling AppErrors inline so that error codes stay consistent across the API.

// NewBoardNotFoundError indicates the referenced board does not exist
// or is not visible to the caller.
func NewBoardNotFoundError(boardID string) *AppError {
	return NewNotFoundError("board").
		WithCode("BOARD_NOT_FOUND").
		WithDetails(map[string]interface{}{"board_id": boardID})
}

// NewNodeNotFoundError indicates the referenced node does not exist on the board.
func NewNodeNotFoundError(nodeID string) *AppError {
	return NewNotFoundError("node").
		WithCode("NODE_NOT_FOUND").
		WithDetails(map[string]interface{}{"node_id": nodeID})
}

// NewEdgeNotFoundError indicates the referenced edge does not exist on the board.
func NewEdgeNotFoundError(edgeID string) *AppError {
	return NewNotFoundError("edge").
		WithCode("EDGE_NOT_FOUND").
		WithDetails(map[string]interface{}{"edge_id": edgeID})
}

// NewInvalidOperationError rejects an operation that is not allowed for the
// target node, for example deleting an answer node directly.
func NewInvalidOperationError(message string) *AppError {
	return NewValidationError(message).WithCode("INVALID_OPERATION")
}

// NewCorruptTreeError reports that the bounded-hop traversal guard fired.
// This should not happen with well-formed data; the caller aborts and the
// client is expected to reload the board.
func NewCorruptTreeError(nodeID string, hops int) *AppError {
	return NewCorruptStateError(
		fmt.Sprintf("parent chain from node %s did not terminate within %d hops", nodeID, hops)).
		WithCode("CORRUPT_TREE").
		WithDetails(map[string]interface{}{"node_id": nodeID, "max_hops": hops})
}

// NewAnswerExistsError rejects a second answer for an already-answered question.
func NewAnswerExistsError(questionID string) *AppError {
	return NewConflictError("question already has an answer").
		WithCode("ANSWER_EXISTS").
		WithDetails(map[string]interface{}{"question_id": questionID})
}

// NewGenerationInFlightError rejects a generation request while another one
// for the same parent node is still running.
func NewGenerationInFlightError(parentID string) *AppError {
	return NewConflictError("a response is already being generated for this node").
		WithCode("GENERATION_IN_FLIGHT").
		WithDetails(map[string]interface{}{"parent_id": parentID})
}

// Generation collaborator error classes. The orchestrator maps each to a
// distinct user-facing message and retry policy.

// NewGenerationRateLimitedError indicates the model provider throttled us.
func NewGenerationRateLimitedError(cause error) *AppError {
	return NewRateLimitError("the AI service is busy, please try again shortly").
		WithCode("GENERATION_RATE_LIMITED").
		WithCause(cause)
}

// NewGenerationUnavailableError indicates the model provider is down.
func NewGenerationUnavailableError(cause error) *AppError {
	return NewUnavailableError("text generation").
		WithCode("GENERATION_UNAVAILABLE").
		WithCause(cause)
}

// NewGenerationTimeoutError indicates the generation call exceeded its deadline.
func NewGenerationTimeoutError(cause error) *AppError {
	return NewTimeoutError("text generation").
		WithCode("GENERATION_TIMEOUT").
		WithCause(cause)
}

// NewGenerationAuthError indicates the provider rejected our credentials.
// Never retried.
func NewGenerationAuthError(cause error) *AppError {
	return NewExternalError("text generation", cause).
		WithCode("GENERATION_AUTH_FAILED")
}

// NewGenerationMalformedError indicates the provider returned an unusable response.
func NewGenerationMalformedError(cause error) *AppError {
	return NewExternalError("text generation", cause).
		WithCode("GENERATION_MALFORMED_RESPONSE")
}
