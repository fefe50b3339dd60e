// Package graph implements the agent's turn pipeline: routing a user
// message to a handler, applying the handler's state delta, and firing
// the follow-on work (followup message, title generation, reflection,
// history summarization).
package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/memory"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/queue"
	"github.com/koopa0/canvas/internal/state"
	"github.com/koopa0/canvas/internal/store"
	"github.com/koopa0/canvas/internal/thread"
	"github.com/koopa0/canvas/internal/web"
)

var (
	// ErrNoArtifact is returned when a handler requires an artifact and
	// none exists.
	ErrNoArtifact = errors.New("graph: no artifact found")

	// ErrWrongArtifactType is returned when a handler requires the other
	// artifact kind.
	ErrWrongArtifactType = errors.New("graph: artifact has wrong type")

	// ErrNoHighlight is returned when a partial update has no highlight.
	ErrNoHighlight = errors.New("graph: cannot partially regenerate an artifact without a highlight")

	// ErrNoRecentHuman is returned when no human message exists to act on.
	ErrNoRecentHuman = errors.New("graph: no recent human message found")

	// ErrBlockNotFound is returned when a highlighted block is missing
	// from the artifact text.
	ErrBlockNotFound = errors.New("graph: selected text not found in current content")

	// ErrNoThemeSelected is returned when a theme rewrite has no flag set.
	ErrNoThemeSelected = errors.New("graph: no theme selected")
)

// Config tunes the graph's model usage and background behavior.
type Config struct {
	// Model is the full genkit name of the main generation model.
	Model string
	// RouterModel is the full genkit name of the small model used for
	// routing and classification.
	RouterModel string
	// Provider is the active provider, used for document encoding.
	Provider model.Provider
	// Temperature applies to the main model where supported.
	Temperature *float32
	// MaxTokens caps main model output; zero means provider default.
	MaxTokens int

	// SummarizerCharMax is the internal-history size that triggers
	// summarization.
	SummarizerCharMax int
	// ReflectionDelay debounces background reflection runs.
	ReflectionDelay time.Duration
	// TitleDelay defers title generation until the thread is persisted.
	TitleDelay time.Duration
}

// Deps carries the graph's collaborators.
type Deps struct {
	Client  *model.Client
	Config  Config
	Memory  *memory.Service
	Threads *thread.Service
	Store   store.Store
	Fetcher *web.Fetcher
	Search  web.SearchClient
	Queue   queue.Dispatcher
	Tracer  trace.Tracer
	PDF     model.PDFConverter
	Logger  log.Logger
}

// Graph runs agent turns.
type Graph struct {
	client  *model.Client
	cfg     Config
	memory  *memory.Service
	threads *thread.Service
	store   store.Store
	fetcher *web.Fetcher
	search  web.SearchClient
	queue   queue.Dispatcher
	tracer  trace.Tracer
	pdf     model.PDFConverter
	logger  log.Logger
}

// New creates a graph.
func New(deps Deps) *Graph {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("canvas")
	}
	if deps.Config.SummarizerCharMax <= 0 {
		deps.Config.SummarizerCharMax = 300000
	}
	return &Graph{
		client:  deps.Client,
		cfg:     deps.Config,
		memory:  deps.Memory,
		threads: deps.Threads,
		store:   deps.Store,
		fetcher: deps.Fetcher,
		search:  deps.Search,
		queue:   deps.Queue,
		tracer:  tracer,
		pdf:     deps.PDF,
		logger:  logger.With("component", "graph"),
	}
}

// RunInput identifies the turn's owner and carries per-turn attachments.
type RunInput struct {
	Turn        *state.Turn
	ThreadID    string
	AssistantID string
	UserID      string
	Documents   []model.Document
}

// Run executes one turn: route, handle, apply follow-on work, reset
// transient fields. The turn is mutated in place and also returned.
func (g *Graph) Run(ctx context.Context, in RunInput) (*state.Turn, error) {
	ctx, span := g.tracer.Start(ctx, "graph.run",
		trace.WithAttributes(attribute.String("thread.id", in.ThreadID)))
	defer span.End()

	t := in.Turn

	route, routeDelta, err := g.generatePath(ctx, in, t)
	if err != nil {
		return nil, fmt.Errorf("generate path: %w", err)
	}
	t.Apply(routeDelta)
	t.Next = route
	g.logger.Debug("routed turn", "route", route)

	delta, err := g.dispatch(ctx, route, in, t)
	if err != nil {
		return nil, err
	}
	t.Apply(delta)

	if producesArtifact(route) {
		followup, err := g.generateFollowup(ctx, in, t)
		if err != nil {
			return nil, fmt.Errorf("generate followup: %w", err)
		}
		t.Apply(followup)
		g.scheduleReflection(in, t)
	}

	t.ResetTransient()

	// Terminal fan-out is exclusive: a fresh conversation gets a title,
	// an oversized one gets compacted, and both run in the background.
	if len(t.Messages) <= 2 {
		g.scheduleTitle(in, t)
	} else if message.TotalChars(t.Internal) > g.cfg.SummarizerCharMax {
		g.scheduleSummarization(in, t)
	}

	return t, nil
}

func (g *Graph) dispatch(ctx context.Context, route state.Route, in RunInput, t *state.Turn) (state.Delta, error) {
	ctx, span := g.tracer.Start(ctx, "graph."+string(route))
	defer span.End()

	switch route {
	case state.RouteGenerateArtifact:
		return g.generateArtifact(ctx, in, t)
	case state.RouteRewriteArtifact:
		return g.rewriteArtifact(ctx, in, t)
	case state.RouteUpdateArtifact:
		return g.updateArtifact(ctx, in, t)
	case state.RouteUpdateHighlightedText:
		return g.updateHighlightedText(ctx, in, t)
	case state.RouteRewriteArtifactTheme:
		return g.rewriteArtifactTheme(ctx, in, t)
	case state.RouteRewriteCodeArtifactTheme:
		return g.rewriteCodeArtifactTheme(ctx, t)
	case state.RouteCustomAction:
		return g.customAction(ctx, in, t)
	case state.RouteReplyToGeneralInput:
		return g.replyToGeneralInput(ctx, in, t)
	case state.RouteWebSearch:
		return g.webSearch(ctx, in, t)
	default:
		return state.Delta{}, fmt.Errorf("graph: unknown route %q", route)
	}
}

// mainOpts returns the generation options for the main model. Handlers
// that need a pinned temperature override the field after calling this.
func (g *Graph) mainOpts() model.Options {
	return model.Options{
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}
}

// producesArtifact reports whether the route ends with a changed
// artifact, which is what warrants a followup message and reflection.
func producesArtifact(route state.Route) bool {
	switch route {
	case state.RouteGenerateArtifact, state.RouteRewriteArtifact,
		state.RouteUpdateArtifact, state.RouteUpdateHighlightedText,
		state.RouteRewriteArtifactTheme, state.RouteRewriteCodeArtifactTheme,
		state.RouteCustomAction, state.RouteWebSearch:
		return true
	}
	return false
}

// recentHuman returns the most recent human message in the internal
// history.
func recentHuman(t *state.Turn) (message.Message, error) {
	msg, ok := message.LastHuman(t.Internal)
	if !ok {
		return message.Message{}, ErrNoRecentHuman
	}
	return msg, nil
}

// reflections loads the assistant's formatted reflections for prompt use.
func (g *Graph) reflections(ctx context.Context, assistantID string, onlyContent bool) string {
	refl, _, err := g.memory.Get(ctx, assistantID)
	if err != nil {
		g.logger.Warn("loading reflections failed", "error", err)
		return memory.Reflections{}.Format(onlyContent)
	}
	return refl.Format(onlyContent)
}
