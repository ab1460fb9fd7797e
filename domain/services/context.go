package services

import (
	"strings"

	"ideaflow-backend/domain/config"
	"ideaflow-backend/domain/core/aggregates"
	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
)

// ContextAssembler produces the bounded prompt transcript for a generation
// request. Depth and answer length are capped so prompt cost stays flat no
// matter how deep a tree grows; the root topic is always included so every
// sub-branch stays anchored to the original intent.
type ContextAssembler struct {
	cfg *config.DomainConfig
}

// NewContextAssembler creates a context assembler
func NewContextAssembler(cfg *config.DomainConfig) *ContextAssembler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ContextAssembler{cfg: cfg}
}

// BuildContext assembles the prompt for answering newQuestion. parentID is
// the node the question follows from, nil when the question is a root. Any
// node that cannot be located is silently omitted rather than failing the
// request; a stale in-memory set degrades the prompt, not the operation.
func (a *ContextAssembler) BuildContext(tree *aggregates.Tree, parentID *valueobjects.NodeID, rootID valueobjects.NodeID, newQuestion string) string {
	var b strings.Builder

	if root, err := tree.FindNode(rootID); err == nil {
		b.WriteString("Original Topic: ")
		b.WriteString(root.Content().Text())
		b.WriteString("\n\n")
	}

	if parentID != nil {
		if parent, err := tree.FindNode(*parentID); err == nil {
			a.writeImmediateContext(&b, tree, parent, rootID)
			a.writeRecentThread(&b, tree, parent, rootID)
		}
	}

	b.WriteString("New Question: ")
	b.WriteString(newQuestion)
	b.WriteString("\n\n")
	b.WriteString(a.cfg.ContextInstruction)

	return b.String()
}

// writeImmediateContext emits the Q/A pair the new question branches from.
// A question parent pairs with its answer if one exists; an answer parent
// pairs with the question that produced it.
func (a *ContextAssembler) writeImmediateContext(b *strings.Builder, tree *aggregates.Tree, parent *entities.Node, rootID valueobjects.NodeID) {
	var question, answer *entities.Node

	if parent.Variant().IsQuestion() {
		question = parent
		answer = tree.AnswerOf(parent.ID())
	} else {
		answer = parent
		if qID := parent.ParentID(); qID != nil {
			if q, err := tree.FindNode(*qID); err == nil {
				question = q
			}
		}
	}

	if question != nil && !question.ID().Equals(rootID) {
		b.WriteString("Question: ")
		b.WriteString(question.Content().Text())
		b.WriteString("\n")
	}
	if answer != nil {
		b.WriteString("Answer: ")
		b.WriteString(answer.Content().Text())
		b.WriteString("\n")
	}
	if question != nil || answer != nil {
		b.WriteString("\n")
	}
}

// writeRecentThread walks up the parent chain from the immediate pair toward
// the root, bounded to ContextMaxHops ancestors, and emits them oldest first.
// Answers are excerpted to the configured budget; questions are kept whole.
func (a *ContextAssembler) writeRecentThread(b *strings.Builder, tree *aggregates.Tree, parent *entities.Node, rootID valueobjects.NodeID) {
	// Start above the immediate pair: skip the question of an answer parent
	start := parent.ParentID()
	if !parent.Variant().IsQuestion() && start != nil {
		if q, err := tree.FindNode(*start); err == nil {
			start = q.ParentID()
		}
	}

	var lines []string
	currentID := start
	for hops := 0; hops < a.cfg.ContextMaxHops && currentID != nil; hops++ {
		if currentID.Equals(rootID) {
			break
		}
		node, err := tree.FindNode(*currentID)
		if err != nil {
			break
		}
		if node.Variant().IsQuestion() {
			lines = append(lines, "Q: "+node.Content().Text())
		} else {
			lines = append(lines, "A: "+node.Content().Excerpt(a.cfg.AnswerExcerptRunes))
		}
		currentID = node.ParentID()
	}

	if len(lines) == 0 {
		return
	}

	b.WriteString("Recent conversation:\n")
	// Collected newest first, emitted oldest first
	for i := len(lines) - 1; i >= 0; i-- {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
