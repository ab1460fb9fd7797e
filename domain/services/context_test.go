package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/domain/core/entities"
	"ideaflow-backend/domain/core/valueobjects"
	"ideaflow-backend/domain/services"
)

func TestBuildContext_RootQuestionOnly(t *testing.T) {
	f := newCanvasFixture(t)
	assembler := services.NewContextAssembler(f.cfg)
	root := f.addRootAt("How do we reduce churn?", valueobjects.Position{X: 100, Y: 100})

	prompt := assembler.BuildContext(f.tree, nil, root.ID(), "How do we reduce churn?")

	assert.Contains(t, prompt, "Original Topic: How do we reduce churn?")
	assert.Contains(t, prompt, "New Question: How do we reduce churn?")
	assert.Contains(t, prompt, f.cfg.ContextInstruction)
	assert.NotContains(t, prompt, "Recent conversation")
}

func TestBuildContext_AnswerParentIncludesItsQuestion(t *testing.T) {
	f := newCanvasFixture(t)
	assembler := services.NewContextAssembler(f.cfg)
	root := f.addRootAt("How do we reduce churn?", valueobjects.Position{X: 100, Y: 100})
	answer := f.addAnswerAt(root, "Focus on onboarding quality.", valueobjects.Position{X: 520, Y: 100})
	followup := f.addFollowupAt(answer, "Which onboarding step matters most?", valueobjects.Position{X: 940, Y: 100})

	parentID := followup.ParentID()
	require.NotNil(t, parentID)
	prompt := assembler.BuildContext(f.tree, parentID, root.ID(), "Which onboarding step matters most?")

	assert.Contains(t, prompt, "Original Topic: How do we reduce churn?")
	assert.Contains(t, prompt, "Answer: Focus on onboarding quality.")
	newQuestionIdx := strings.Index(prompt, "New Question:")
	answerIdx := strings.Index(prompt, "Answer:")
	require.GreaterOrEqual(t, answerIdx, 0)
	assert.Less(t, answerIdx, newQuestionIdx, "immediate context precedes the new question")
}

func TestBuildContext_QuestionParentIncludesItsAnswer(t *testing.T) {
	f := newCanvasFixture(t)
	assembler := services.NewContextAssembler(f.cfg)
	root := f.addRootAt("Topic", valueobjects.Position{X: 100, Y: 100})
	rootAnswer := f.addAnswerAt(root, "Root answer.", valueobjects.Position{X: 520, Y: 100})
	question := f.addFollowupAt(rootAnswer, "A follow-up question", valueobjects.Position{X: 940, Y: 100})
	f.addAnswerAt(question, "The follow-up's answer.", valueobjects.Position{X: 1360, Y: 100})

	questionID := question.ID()
	prompt := assembler.BuildContext(f.tree, &questionID, root.ID(), "Digging deeper")

	assert.Contains(t, prompt, "Question: A follow-up question")
	assert.Contains(t, prompt, "Answer: The follow-up's answer.")
}

func TestBuildContext_DepthBoundAndExcerpts(t *testing.T) {
	f := newCanvasFixture(t)
	assembler := services.NewContextAssembler(f.cfg)

	longAnswer := strings.Repeat("x", 500)
	root := f.addRootAt("Topic", valueobjects.Position{X: 100, Y: 100})
	parent := root
	// Build a deep alternating chain of answered questions
	var questions []*entities.Node
	for i := 0; i < 6; i++ {
		answer := f.addAnswerAt(parent, longAnswer, valueobjects.Position{X: 100, Y: 100})
		question := f.addFollowupAt(answer, "Question at depth", valueobjects.Position{X: 100, Y: 100})
		questions = append(questions, question)
		parent = question
	}
	deepest := questions[len(questions)-1]

	deepestID := deepest.ID()
	prompt := assembler.BuildContext(f.tree, &deepestID, root.ID(), "Even deeper")

	// The recent-conversation section carries at most the configured hops
	section := extractSection(prompt, "Recent conversation:\n", "\n\nNew Question:")
	lines := strings.Split(strings.TrimSpace(section), "\n")
	assert.LessOrEqual(t, len(lines), f.cfg.ContextMaxHops)

	// Every excerpted answer respects the rune budget plus ellipsis
	for _, line := range lines {
		if text, ok := strings.CutPrefix(line, "A: "); ok {
			assert.LessOrEqual(t, len([]rune(text)), f.cfg.AnswerExcerptRunes+3)
			assert.True(t, strings.HasSuffix(text, "..."))
		}
	}
}

func TestBuildContext_MissingRootDegrades(t *testing.T) {
	f := newCanvasFixture(t)
	assembler := services.NewContextAssembler(f.cfg)

	prompt := assembler.BuildContext(f.tree, nil, valueobjects.NewNodeID(), "Fresh question")

	assert.NotContains(t, prompt, "Original Topic")
	assert.Contains(t, prompt, "New Question: Fresh question")
}

func extractSection(s, from, to string) string {
	start := strings.Index(s, from)
	if start < 0 {
		return ""
	}
	start += len(from)
	end := strings.Index(s[start:], to)
	if end < 0 {
		return s[start:]
	}
	return s[start : start+end]
}
