package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Canvas layout
	HorizontalGap   float64 // space between a parent and its children column
	VerticalGap     float64 // space between stacked siblings
	RootColumnX     float64 // fixed x shared by all root questions
	RootGap         float64 // space between stacked root questions
	FallbackX       float64 // placement when the parent cannot be found
	FallbackY       float64
	DefaultNodeWidth  float64
	DefaultNodeHeight float64

	// Viewport
	FitZoomMin   float64
	FitZoomMax   float64
	WheelZoomMin float64
	WheelZoomMax float64
	ZoomStepBase float64 // per-100-units-of-wheel-delta zoom factor

	// Context assembly
	ContextMaxHops      int // ancestor hops included in the recent-conversation thread
	AnswerExcerptRunes  int // answers are truncated to this many runes in context
	ContextInstruction  string

	// Traversal guard
	MaxTraversalHops int

	// Node constraints
	MaxContentLength int
	MinContentLength int

	// Board constraints
	MaxNodesPerBoard int
	MaxTitleLength   int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		HorizontalGap:     100,
		VerticalGap:       40,
		RootColumnX:       100,
		RootGap:           100,
		FallbackX:         100,
		FallbackY:         100,
		DefaultNodeWidth:  320,
		DefaultNodeHeight: 140,

		FitZoomMin:   0.1,
		FitZoomMax:   2.0,
		WheelZoomMin: 0.1,
		WheelZoomMax: 3.0,
		ZoomStepBase: 1.1,

		ContextMaxHops:     3,
		AnswerExcerptRunes: 200,
		ContextInstruction: "Please provide a thoughtful, actionable response that takes the conversation above into account.",

		MaxTraversalHops: 64,

		MaxContentLength: 20000,
		MinContentLength: 1,

		MaxNodesPerBoard: 5000,
		MaxTitleLength:   200,
	}
}

// DevelopmentDomainConfig relaxes limits for local work
func DevelopmentDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()
	cfg.MaxNodesPerBoard = 100000
	cfg.MaxContentLength = 100000
	return cfg
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
