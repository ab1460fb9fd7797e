package generation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"ideaflow-backend/application/ports"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Config holds the model provider settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// LangChainGenerator calls an OpenAI-compatible completion endpoint. Provider
// failures are mapped onto the generation error classes so callers can pick a
// retry policy per class without parsing provider messages themselves.
type LangChainGenerator struct {
	llm    llms.Model
	logger *zap.Logger
}

// NewLangChainGenerator creates a generator backed by the configured provider
func NewLangChainGenerator(cfg Config, logger *zap.Logger) (*LangChainGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	return &LangChainGenerator{llm: llm, logger: logger.Named("generation")}, nil
}

// Generate produces a completion for the prompt
func (g *LangChainGenerator) Generate(ctx context.Context, prompt string, opts ports.GenerationOptions) (string, error) {
	callOpts := []llms.CallOption{}
	if opts.Model != "" {
		callOpts = append(callOpts, llms.WithModel(opts.Model))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, callOpts...)
	if err != nil {
		classified := classifyProviderError(err)
		g.logger.Warn("completion call failed",
			zap.String("class", string(pkgerrors.GetAppError(classified).Type)),
			zap.Error(err),
		)
		return "", classified
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", pkgerrors.NewGenerationMalformedError(errors.New("provider returned an empty completion"))
	}
	return text, nil
}

// classifyProviderError maps raw provider failures onto the generation error
// taxonomy. The provider client wraps HTTP errors as opaque strings, so
// matching on status markers in the message is the only signal available.
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.NewGenerationTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return pkgerrors.NewGenerationTimeoutError(err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return pkgerrors.NewGenerationRateLimitedError(err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "invalid api key") || strings.Contains(msg, "authentication"):
		return pkgerrors.NewGenerationAuthError(err)
	case strings.Contains(msg, "500") || strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host"):
		return pkgerrors.NewGenerationUnavailableError(err)
	case strings.Contains(msg, "unmarshal") || strings.Contains(msg, "unexpected"):
		return pkgerrors.NewGenerationMalformedError(err)
	default:
		return pkgerrors.NewGenerationUnavailableError(err)
	}
}
