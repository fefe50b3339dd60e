package cmd

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koopa0/canvas/internal/app"
	"github.com/koopa0/canvas/internal/artifact"
	"github.com/koopa0/canvas/internal/config"
	"github.com/koopa0/canvas/internal/graph"
	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/state"
	"github.com/koopa0/canvas/internal/store"
	"github.com/koopa0/canvas/internal/thread"
)

// Single-user CLI: one local user, one assistant identity for
// reflections.
const (
	defaultUserID      = "local"
	defaultAssistantID = "default"
)

var (
	flagNewThread bool
	flagThreadID  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive canvas session",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&flagNewThread, "new", false, "start a fresh thread")
	chatCmd.Flags().StringVar(&flagThreadID, "thread", "", "resume a specific thread id")
	rootCmd.AddCommand(chatCmd)
	rootCmd.Flags().BoolVar(&flagNewThread, "new", false, "start a fresh thread")
	rootCmd.Flags().StringVar(&flagThreadID, "thread", "", "resume a specific thread id")
}

// session carries the live chat state across REPL iterations.
type session struct {
	app      *app.App
	rec      *thread.Record
	stateDir string
	styles   styles
	render   *markdownRenderer

	// pending per-turn options set by slash commands
	turnOpts  turnOptions
	documents []model.Document
}

// turnOptions mirrors the transient turn flags a slash command can set
// ahead of the next run.
type turnOptions struct {
	language        state.Language
	readingLevel    state.ReadingLevel
	length          state.ArtifactLength
	emojis          bool
	addComments     bool
	addLogs         bool
	fixBugs         bool
	portLanguage    state.ProgrammingLanguage
	customActionID  string
	webSearch       bool
	highlightedCode *state.CodeHighlight
}

func runChat(cmd *cobra.Command, _ []string) error {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	stateDir, err := config.StateDir()
	if err != nil {
		return fmt.Errorf("resolving state directory: %w", err)
	}

	rec, err := resolveThread(ctx, application, stateDir)
	if err != nil {
		return err
	}

	s := &session{
		app:      application,
		rec:      rec,
		stateDir: stateDir,
		styles:   defaultStyles(),
		render:   newMarkdownRenderer(100),
	}

	fmt.Println(s.styles.Header.Render("canvas"))
	if rec.Title != "" {
		fmt.Println(s.styles.System.Render("thread: " + rec.Title + " (" + rec.ID + ")"))
	} else {
		fmt.Println(s.styles.System.Render("thread: " + rec.ID))
	}
	fmt.Println(s.styles.System.Render("type /help for commands, Ctrl+D to exit"))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print(s.styles.Prompt.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := s.handleCommand(ctx, input)
			if err != nil {
				fmt.Println(s.styles.Error.Render("error: " + err.Error()))
			}
			if quit {
				break
			}
			continue
		}

		if err := s.runTurn(ctx, input); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			fmt.Println(s.styles.Error.Render("error: " + err.Error()))
		}
	}
	return scanner.Err()
}

// resolveThread picks the thread for this session: explicit id, a fresh
// one, or the last used thread.
func resolveThread(ctx context.Context, a *app.App, stateDir string) (*thread.Record, error) {
	if flagThreadID != "" {
		rec, err := a.Threads.Load(ctx, defaultUserID, flagThreadID)
		if err != nil {
			return nil, fmt.Errorf("loading thread %s: %w", flagThreadID, err)
		}
		return rec, rememberThread(stateDir, rec, a)
	}

	if !flagNewThread {
		if currentID, err := thread.Current(stateDir); err == nil && currentID != "" {
			rec, err := a.Threads.Load(ctx, defaultUserID, currentID)
			if err == nil {
				return rec, nil
			}
			if !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("loading current thread: %w", err)
			}
		}
	}

	rec := a.Threads.New()
	if err := a.Threads.Save(ctx, defaultUserID, rec); err != nil {
		return nil, fmt.Errorf("saving new thread: %w", err)
	}
	return rec, rememberThread(stateDir, rec, a)
}

func rememberThread(stateDir string, rec *thread.Record, a *app.App) error {
	if err := thread.SetCurrent(stateDir, rec.ID); err != nil {
		a.Logger.Warn("recording current thread failed", "error", err)
	}
	return nil
}

// runTurn executes one graph turn under the thread's file lock and
// persists the result.
func (s *session) runTurn(ctx context.Context, text string) error {
	lock, err := thread.AcquireTurnLock(ctx, s.stateDir, s.rec.ID)
	if err != nil {
		return fmt.Errorf("acquiring thread lock: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			s.app.Logger.Warn("releasing thread lock failed", "error", err)
		}
	}()

	// Background jobs (title, summarization) may have rewritten the
	// record since the last turn; pick up their result before building
	// the turn from it.
	if fresh, err := s.app.Threads.Load(ctx, defaultUserID, s.rec.ID); err == nil {
		s.rec = fresh
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("reloading thread: %w", err)
	}

	turn := &state.Turn{
		Messages: s.rec.Messages,
		Internal: s.rec.Internal,
		Artifact: s.rec.Artifact,
	}
	if text != "" {
		human := message.NewHuman(text)
		turn.Apply(state.Delta{
			Messages: []message.Message{human},
			Internal: []message.Message{human},
		})
	}
	s.applyTurnOptions(turn)

	visibleBefore := len(turn.Messages)
	versionBefore := turn.Artifact.CurrentIndex

	_, err = s.app.Graph.Run(ctx, graph.RunInput{
		Turn:        turn,
		ThreadID:    s.rec.ID,
		AssistantID: defaultAssistantID,
		UserID:      defaultUserID,
		Documents:   s.documents,
	})
	s.documents = nil
	if err != nil {
		return err
	}

	s.rec.Messages = turn.Messages
	s.rec.Internal = turn.Internal
	s.rec.Artifact = turn.Artifact
	if err := s.app.Threads.Save(ctx, defaultUserID, s.rec); err != nil {
		return fmt.Errorf("saving thread: %w", err)
	}

	s.printNewMessages(turn.Messages[visibleBefore:])
	if turn.Artifact.CurrentIndex != versionBefore {
		s.printArtifact(turn.Artifact)
	}
	return nil
}

// applyTurnOptions copies pending slash-command options onto the turn
// and clears them.
func (s *session) applyTurnOptions(t *state.Turn) {
	o := s.turnOpts
	t.Language = o.language
	t.ReadingLevel = o.readingLevel
	t.ArtifactLength = o.length
	t.RegenerateWithEmojis = o.emojis
	t.AddComments = o.addComments
	t.AddLogs = o.addLogs
	t.FixBugs = o.fixBugs
	t.PortLanguage = o.portLanguage
	t.CustomQuickActionID = o.customActionID
	t.WebSearchEnabled = o.webSearch
	t.HighlightedCode = o.highlightedCode
	s.turnOpts = turnOptions{}
}

func (s *session) printNewMessages(msgs []message.Message) {
	for _, m := range msgs {
		if m.Role != message.RoleAI || m.Marked(message.HideFromUIKey) {
			continue
		}
		fmt.Println(s.styles.Assistant.Render("canvas>"))
		fmt.Println(s.render.Render(m.Text()))
		fmt.Println()
	}
}

func (s *session) printArtifact(a artifact.Artifact) {
	current, ok := a.Current()
	if !ok {
		return
	}
	header := fmt.Sprintf("── %s (v%d) ──", current.ContentTitle(), current.ContentIndex())
	fmt.Println(s.styles.Header.Render(header))
	switch c := current.(type) {
	case artifact.Code:
		fmt.Println(s.render.Render("```" + c.Language + "\n" + c.Code + "\n```"))
	case artifact.Markdown:
		fmt.Println(s.render.Render(c.Markdown))
	}
	fmt.Println()
}

// handleCommand runs one slash command; returns true when the session
// should end.
func (s *session) handleCommand(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "/exit", "/quit":
		return true, nil

	case "/help":
		printChatHelp()

	case "/new":
		rec := s.app.Threads.New()
		if err := s.app.Threads.Save(ctx, defaultUserID, rec); err != nil {
			return false, fmt.Errorf("saving new thread: %w", err)
		}
		s.rec = rec
		_ = rememberThread(s.stateDir, rec, s.app)
		fmt.Println(s.styles.System.Render("started thread " + rec.ID))

	case "/artifact":
		if s.rec.Artifact.Empty() {
			fmt.Println(s.styles.System.Render("no artifact yet"))
			break
		}
		a := s.rec.Artifact
		if len(args) == 1 {
			idx, err := strconv.Atoi(args[0])
			if err != nil {
				return false, fmt.Errorf("invalid version %q", args[0])
			}
			a.CurrentIndex = idx
		}
		s.printArtifact(a)

	case "/versions":
		for _, c := range s.rec.Artifact.Contents {
			marker := "  "
			if c.ContentIndex() == s.rec.Artifact.CurrentIndex {
				marker = "* "
			}
			fmt.Printf("%sv%d  %s\n", marker, c.ContentIndex(), c.ContentTitle())
		}

	case "/translate":
		if len(args) != 1 {
			return false, errors.New("usage: /translate <english|mandarin|spanish|french|hindi>")
		}
		s.turnOpts.language = state.Language(args[0])
		return false, s.runTurn(ctx, "")

	case "/reading":
		if len(args) != 1 {
			return false, errors.New("usage: /reading <pirate|child|teenager|college|phd>")
		}
		s.turnOpts.readingLevel = state.ReadingLevel(args[0])
		return false, s.runTurn(ctx, "")

	case "/length":
		if len(args) != 1 {
			return false, errors.New("usage: /length <shortest|short|long|longest>")
		}
		s.turnOpts.length = state.ArtifactLength(args[0])
		return false, s.runTurn(ctx, "")

	case "/emojis":
		s.turnOpts.emojis = true
		return false, s.runTurn(ctx, "")

	case "/comments":
		s.turnOpts.addComments = true
		return false, s.runTurn(ctx, "")

	case "/logs":
		s.turnOpts.addLogs = true
		return false, s.runTurn(ctx, "")

	case "/fixbugs":
		s.turnOpts.fixBugs = true
		return false, s.runTurn(ctx, "")

	case "/port":
		if len(args) != 1 {
			return false, errors.New("usage: /port <language>")
		}
		s.turnOpts.portLanguage = state.ProgrammingLanguage(args[0])
		return false, s.runTurn(ctx, "")

	case "/select":
		if len(args) != 2 {
			return false, errors.New("usage: /select <start> <end>")
		}
		start, err1 := strconv.Atoi(args[0])
		end, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || end < start {
			return false, errors.New("usage: /select <start> <end>")
		}
		s.turnOpts.highlightedCode = &state.CodeHighlight{StartCharIndex: start, EndCharIndex: end}
		fmt.Println(s.styles.System.Render("selection set; your next message edits that range"))

	case "/search":
		if len(args) == 0 {
			return false, errors.New("usage: /search <message>")
		}
		s.turnOpts.webSearch = true
		return false, s.runTurn(ctx, strings.Join(args, " "))

	case "/do":
		if len(args) != 1 {
			return false, errors.New("usage: /do <action-id>")
		}
		s.turnOpts.customActionID = args[0]
		return false, s.runTurn(ctx, "")

	case "/attach":
		if len(args) != 1 {
			return false, errors.New("usage: /attach <file.pdf>")
		}
		doc, err := readDocument(args[0])
		if err != nil {
			return false, err
		}
		s.documents = append(s.documents, doc)
		fmt.Println(s.styles.System.Render("attached " + doc.Name + "; it rides along with your next message"))

	case "/memory":
		refl, found, err := s.app.Memory.Get(ctx, defaultAssistantID)
		if err != nil {
			return false, err
		}
		if !found || refl.Empty() {
			fmt.Println(s.styles.System.Render("nothing learned yet"))
			break
		}
		fmt.Println(refl.Format(false))

	default:
		fmt.Println(s.styles.System.Render("unknown command " + cmd + "; try /help"))
	}
	return false, nil
}

// readDocument loads a PDF attachment as a base64 document.
func readDocument(path string) (model.Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-chosen attachment path
	if err != nil {
		return model.Document{}, fmt.Errorf("reading attachment: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return model.Document{}, fmt.Errorf("only PDF attachments are supported")
	}
	return model.Document{
		Name: filepath.Base(path),
		Type: "application/pdf",
		Data: base64.StdEncoding.EncodeToString(data),
	}, nil
}

func printChatHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /help                 Show this help")
	fmt.Println("  /new                  Start a fresh thread")
	fmt.Println("  /artifact [n]         Show the current (or n-th) artifact version")
	fmt.Println("  /versions             List artifact versions")
	fmt.Println("  /translate <lang>     Translate the document (english, mandarin, spanish, french, hindi)")
	fmt.Println("  /reading <level>      Adjust reading level (pirate, child, teenager, college, phd)")
	fmt.Println("  /length <len>         Adjust length (shortest, short, long, longest)")
	fmt.Println("  /emojis               Regenerate the document with emojis")
	fmt.Println("  /comments /logs       Add comments or log statements to code")
	fmt.Println("  /fixbugs              Fix bugs in the code")
	fmt.Println("  /port <language>      Port the code to another language")
	fmt.Println("  /select <start> <end> Select a code range for the next edit")
	fmt.Println("  /search <message>     Send a message with web search enabled")
	fmt.Println("  /do <action-id>       Run a custom quick action")
	fmt.Println("  /attach <file.pdf>    Attach a PDF to the next message")
	fmt.Println("  /memory               Show what the assistant has learned")
	fmt.Println("  /exit, /quit          Leave")
}

// initLogger builds the session logger. DEBUG in the environment raises
// the level; logs go to stderr so stdout stays clean for the chat.
func initLogger() log.Logger {
	cfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	return log.New(cfg)
}
