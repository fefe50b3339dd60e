package graph_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/graph"
	"github.com/koopa0/canvas/internal/memory"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/queue"
	"github.com/koopa0/canvas/internal/state"
	"github.com/koopa0/canvas/internal/store"
	"github.com/koopa0/canvas/internal/testutil"
	"github.com/koopa0/canvas/internal/thread"
)

const (
	testThreadID    = "thread-1"
	testAssistantID = "assistant-1"
	testUserID      = "user-1"
)

// recordingQueue captures enqueued jobs so tests can run them
// synchronously.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (q *recordingQueue) Enqueue(job queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Close() {}

func (q *recordingQueue) named(name string) []queue.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []queue.Job
	for _, j := range q.jobs {
		if j.Graph == name {
			out = append(out, j)
		}
	}
	return out
}

type harness struct {
	graph   *graph.Graph
	mock    *testutil.MockLLM
	store   store.Store
	memory  *memory.Service
	threads *thread.Service
	queue   *recordingQueue
}

func newHarness(t *testing.T, mutate ...func(*graph.Deps)) *harness {
	t.Helper()

	ms := testutil.SetupMockModel(t, "fallback response")
	st := store.NewMemory()
	mem := memory.NewService(st, nil)
	threads := thread.NewService(st, nil)
	q := &recordingQueue{}

	deps := graph.Deps{
		Client: ms.Client,
		Config: graph.Config{
			Model:       testutil.MockModelName,
			RouterModel: testutil.MockModelName,
			Provider:    model.ProviderGoogle,
		},
		Memory:  mem,
		Threads: threads,
		Store:   st,
		Queue:   q,
	}
	for _, m := range mutate {
		m(&deps)
	}

	return &harness{
		graph:   graph.New(deps),
		mock:    ms.Mock,
		store:   st,
		memory:  mem,
		threads: threads,
		queue:   q,
	}
}

func runInput(t *state.Turn) graph.RunInput {
	return graph.RunInput{
		Turn:        t,
		ThreadID:    testThreadID,
		AssistantID: testAssistantID,
		UserID:      testUserID,
	}
}

func turnWith(text string) *state.Turn {
	human := message.NewHuman(text)
	return &state.Turn{
		Messages: []message.Message{human},
		Internal: []message.Message{human},
	}
}

func findMarked(msgs []message.Message, key string) (message.Message, bool) {
	for _, m := range msgs {
		if m.Marked(key) {
			return m, true
		}
	}
	return message.Message{}, false
}

func TestRunReply(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddJSONResponse("routing the users query", map[string]any{"route": "replyToGeneralInput"})
	h.mock.AddResponse("responding to the users question", "Hello! How can I help?")
	h.mock.AddResponse("descriptive title", "Friendly Greeting")

	rec := h.threads.New()
	rec.ID = testThreadID
	require.NoError(t, h.threads.Save(context.Background(), testUserID, rec))

	turn := turnWith("hi there")
	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	require.Len(t, turn.Messages, 2)
	assert.Equal(t, message.RoleAI, turn.Messages[1].Role)
	assert.Equal(t, "Hello! How can I help?", turn.Messages[1].Text())
	require.Len(t, turn.Internal, 2)
	assert.True(t, turn.Artifact.Empty())

	// A short conversation schedules title generation; a reply never
	// schedules reflection.
	assert.Empty(t, h.queue.named("reflection"))
	titles := h.queue.named("thread_title")
	require.Len(t, titles, 1)
	assert.Equal(t, "title:"+testThreadID, titles[0].Key)

	require.NoError(t, titles[0].Run(context.Background()))
	loaded, err := h.threads.Load(context.Background(), testUserID, testThreadID)
	require.NoError(t, err)
	assert.Equal(t, "Friendly Greeting", loaded.Title)
}

func TestRunUnknownRouteDefaultsToReply(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddJSONResponse("routing the users query", map[string]any{"route": "doSomethingWild"})
	h.mock.AddResponse("responding to the users question", "I can help with that.")

	turn := turnWith("hmm")
	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	require.Len(t, turn.Messages, 2)
	assert.Equal(t, "I can help with that.", turn.Messages[1].Text())
}

func TestRunRouteMismatchedForStateDefaultsToReply(t *testing.T) {
	t.Parallel()

	// With an artifact present the only artifact route on offer is the
	// rewrite; a generate answer is unknown and falls back to replying.
	h := newHarness(t)
	h.mock.AddJSONResponse("routing the users query", map[string]any{"route": "generateArtifact"})
	h.mock.AddResponse("responding to the users question", "Here's my take.")

	turn := turnWith("thoughts?")
	turn.Artifact = artifact.New(artifact.Markdown{Index: 1, Title: "Essay", Markdown: "Body"})

	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	require.Len(t, turn.Artifact.Contents, 1)
	require.Len(t, turn.Messages, 2)
	assert.Equal(t, "Here's my take.", turn.Messages[1].Text())
}

func TestRunGenerateArtifact(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddJSONResponse("routing the users query", map[string]any{"route": "generateArtifact"})
	h.mock.AddJSONResponse("generating a new artifact", map[string]any{
		"type":     "code",
		"language": "go",
		"artifact": "package main\n\nfunc main() {}\n",
		"title":    "Hello World",
	})
	h.mock.AddResponse("generating a followup", "Here's your program!")

	turn := turnWith("write a go hello world")
	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	current, ok := turn.Artifact.Current()
	require.True(t, ok)
	code, ok := current.(artifact.Code)
	require.True(t, ok)
	assert.Equal(t, 1, code.Index)
	assert.Equal(t, "Hello World", code.Title)
	assert.Equal(t, "go", code.Language)
	assert.Equal(t, "package main\n\nfunc main() {}\n", code.Code)

	// The followup lands in both histories.
	require.Len(t, turn.Messages, 2)
	assert.Equal(t, "Here's your program!", turn.Messages[1].Text())
	require.Len(t, turn.Internal, 2)
	assert.Equal(t, "Here's your program!", turn.Internal[1].Text())

	require.Len(t, h.queue.named("reflection"), 1)
}

func TestRunGenerateArtifactText(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddJSONResponse("routing the users query", map[string]any{"route": "generateArtifact"})
	h.mock.AddJSONResponse("generating a new artifact", map[string]any{
		"type":     "text",
		"language": "other",
		"artifact": "# Pandas\n\nPandas are bears.",
		"title":    "Panda Essay",
	})
	h.mock.AddResponse("generating a followup", "Essay's ready!")

	turn := turnWith("write an essay about pandas")
	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	current, ok := turn.Artifact.Current()
	require.True(t, ok)
	md, ok := current.(artifact.Markdown)
	require.True(t, ok)
	assert.Equal(t, "Panda Essay", md.Title)
	assert.Equal(t, "# Pandas\n\nPandas are bears.", md.Markdown)
}

func TestRunSchedulesSummarizationForLongHistory(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(d *graph.Deps) {
		d.Config.SummarizerCharMax = 10
	})
	h.mock.AddJSONResponse("routing the users query", map[string]any{"route": "replyToGeneralInput"})
	h.mock.AddResponse("responding to the users question", "A fairly long answer about the topic.")
	h.mock.AddResponse("summarizing a long conversation", "User asked about the topic and got an answer.")

	ctx := context.Background()
	seed := []message.Message{
		message.NewHuman("an earlier question"),
		message.NewAI("an earlier answer"),
	}
	rec := h.threads.New()
	rec.ID = testThreadID
	rec.Messages = seed
	rec.Internal = seed
	require.NoError(t, h.threads.Save(ctx, testUserID, rec))

	turn := &state.Turn{Messages: rec.Messages, Internal: rec.Internal}
	human := message.NewHuman("tell me about the topic")
	turn.Apply(state.Delta{
		Messages: []message.Message{human},
		Internal: []message.Message{human},
	})

	_, err := h.graph.Run(ctx, runInput(turn))
	require.NoError(t, err)

	// The turn itself is untouched; compaction runs in the background
	// and title generation never fires alongside it.
	assert.Len(t, turn.Internal, 4)
	assert.Empty(t, h.queue.named("thread_title"))
	jobs := h.queue.named("summarizer")
	require.Len(t, jobs, 1)
	assert.Equal(t, "summarize:"+testThreadID, jobs[0].Key)

	// Persist the turn the way a caller would, then let the job run.
	rec.Messages = turn.Messages
	rec.Internal = turn.Internal
	require.NoError(t, h.threads.Save(ctx, testUserID, rec))
	require.NoError(t, jobs[0].Run(ctx))

	loaded, err := h.threads.Load(ctx, testUserID, testThreadID)
	require.NoError(t, err)
	require.Len(t, loaded.Internal, 1)
	summary := loaded.Internal[0]
	assert.True(t, summary.Marked(message.SummarizedKey))
	assert.True(t, summary.Marked(message.HideFromUIKey))
	assert.Contains(t, summary.Text(), "User asked about the topic")
	assert.Len(t, loaded.Messages, 4)
}

func TestRunTitleWinsOverSummarizationOnFreshThread(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(d *graph.Deps) {
		d.Config.SummarizerCharMax = 10
	})
	h.mock.AddJSONResponse("routing the users query", map[string]any{"route": "replyToGeneralInput"})
	h.mock.AddResponse("responding to the users question", "A long enough answer to cross the ceiling.")

	turn := turnWith("hi there")
	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	assert.Len(t, h.queue.named("thread_title"), 1)
	assert.Empty(t, h.queue.named("summarizer"))
	assert.Len(t, turn.Internal, 2)
}

func TestRunResetsTransientState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddResponse("include emojis", "With emojis!")
	h.mock.AddResponse("generating a followup", "Done.")

	turn := turnWith("emojis please")
	turn.Artifact = artifact.New(artifact.Markdown{Index: 1, Title: "Note", Markdown: "Plain."})
	turn.RegenerateWithEmojis = true

	_, err := h.graph.Run(context.Background(), runInput(turn))
	require.NoError(t, err)

	assert.False(t, turn.RegenerateWithEmojis)
	assert.Empty(t, turn.Next)
	assert.Nil(t, turn.HighlightedCode)
	assert.Nil(t, turn.HighlightedText)
}

func TestGenerateTitleTrimsQuotes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddResponse("descriptive title", "\"Weekend Trip Plans\"\n")

	title, err := h.graph.GenerateTitle(context.Background(),
		[]message.Message{message.NewHuman("help me plan a weekend trip")},
		artifact.Artifact{})
	require.NoError(t, err)
	assert.Equal(t, "Weekend Trip Plans", title)
}

func TestReflect(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mock.AddJSONResponse("generating reflections about the user", map[string]any{
		"styleRules": []string{"Keep answers short."},
		"content":    []string{"User is planning a trip to Japan."},
	})

	msgs := []message.Message{
		message.NewHuman("I'm planning a trip to Japan, keep answers short"),
		message.NewAI("Noted."),
	}
	require.NoError(t, h.graph.Reflect(context.Background(), testAssistantID, msgs, artifact.Artifact{}))

	refl, found, err := h.memory.Get(context.Background(), testAssistantID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Keep answers short."}, refl.StyleRules)
	assert.Equal(t, []string{"User is planning a trip to Japan."}, refl.Content)
}
