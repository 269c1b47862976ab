package chatbot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
	"go.opentelemetry.io/otel/metric"

	"TempleChat/internal/config"
	"TempleChat/internal/journal"
	"TempleChat/internal/schedule"
	"TempleChat/internal/session"
)

// ErrDisabled is returned when no feed endpoint is configured.
var ErrDisabled = errors.New("chatbot disabled: feed base not set")

// JournalStore is the dispatch journal as seen by the REPL.
type JournalStore interface {
	Recorder
	Recent(ctx context.Context, sessionID string, limit int) ([]journal.Entry, error)
}

// Options configures a ChatBot. Journal and Meter are optional; Clock
// defaults to the system clock.
type Options struct {
	Config  *config.Config
	Client  Dispatcher
	Journal JournalStore
	Logger  *slog.Logger
	Meter   metric.Meter
	Clock   schedule.Clock
	In      io.Reader
	Out     io.Writer
}

// ChatBot runs the chat widget in a terminal
type ChatBot struct {
	config  *config.Config
	logger  *slog.Logger
	journal JournalStore
	widget  *Widget
	term    *Terminal
	in      io.Reader
	pending sync.WaitGroup
}

// NewChatBot creates a new ChatBot instance
func NewChatBot(opts Options) (*ChatBot, error) {
	if opts.Config == nil || opts.Logger == nil {
		return nil, fmt.Errorf("config and logger are required")
	}
	if !opts.Config.Enabled() {
		opts.Logger.Warn(ErrDisabled.Error())
		return nil, ErrDisabled
	}

	week, err := opts.Config.WeeklySchedule()
	if err != nil {
		return nil, err
	}
	loc, err := schedule.LoadLocation(opts.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	calc, err := schedule.New(week, loc, opts.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule: %w", err)
	}

	term := NewTerminal(opts.Out)
	deps := Deps{
		Surface:      term,
		Client:       opts.Client,
		Availability: calc,
		Session:      session.New(),
		Journal:      opts.Journal,
		Logger:       opts.Logger,
		Meter:        opts.Meter,
	}

	widget, err := NewWidget(deps)
	if err != nil {
		return nil, err
	}

	if opts.Config.Debug {
		opts.Logger.Debug("debug mode enabled")
	}
	opts.Logger.Info("created new session", "session_id", widget.Session().ID)

	return &ChatBot{
		config:  opts.Config,
		logger:  opts.Logger,
		journal: opts.Journal,
		widget:  widget,
		term:    term,
		in:      opts.In,
	}, nil
}

// Widget exposes the underlying widget.
func (cb *ChatBot) Widget() *Widget { return cb.widget }

// dispatch runs fn in the background so a slow reply never blocks typing.
func (cb *ChatBot) dispatch(ctx context.Context, fn func(context.Context)) {
	cb.pending.Add(1)
	go func() {
		defer cb.pending.Done()
		fn(ctx)
	}()
}

// Wait blocks until every in-flight dispatch has rendered its outcome.
func (cb *ChatBot) Wait() {
	cb.pending.Wait()
}

// handleCommand handles special commands
func (cb *ChatBot) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(cmd, parts[0]))

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/toggle", "/chat":
		cb.widget.Toggle()
		return false, nil

	case "/status":
		st := cb.widget.Status()
		cb.term.printf("%s (%s)\n", st.Text, cb.config.Timezone)
		return false, nil

	case "/email":
		cb.widget.UpdateForm(func(f *Form) { f.Email = arg })
		cb.term.printf("Email set to: %q\n", arg)
		return false, nil

	case "/topic":
		if arg == "" {
			cb.term.printf("Topics:\n")
			for i, t := range cb.config.Topics {
				cb.term.printf("%d. %s\n", i+1, t)
			}
			cb.term.printf("Current: %s\n", topicOrDefault(cb.widget.Form().Topic))
			return false, nil
		}
		if err := cb.SelectTopic(arg); err != nil {
			return false, err
		}
		cb.term.printf("Topic set to: %s\n", cb.widget.Form().Topic)
		return false, nil

	case "/name":
		cb.widget.UpdateForm(func(f *Form) { f.Name = arg })
		return false, nil

	case "/phone":
		cb.widget.UpdateForm(func(f *Form) { f.Phone = arg })
		return false, nil

	case "/time":
		cb.widget.UpdateForm(func(f *Form) { f.Time = arg })
		return false, nil

	case "/call":
		if !cb.widget.Visible() {
			cb.term.printf("Chat is closed. Type /toggle to open it.\n")
			return false, nil
		}
		cb.dispatch(ctx, cb.widget.RequestCall)
		return false, nil

	case "/journal":
		if cb.journal == nil {
			cb.term.printf("Journal is not enabled.\n")
			return false, nil
		}
		entries, err := cb.journal.Recent(ctx, cb.widget.Session().ID, 20)
		if err != nil {
			return false, fmt.Errorf("failed to read journal: %w", err)
		}
		if len(entries) == 0 {
			cb.term.printf("No dispatches yet.\n")
			return false, nil
		}
		for _, e := range entries {
			cb.term.printf("%s  %-8s %-13s %dms\n", e.CreatedAt.Local().Format("15:04:05"), e.Fn, e.Outcome, e.Duration.Milliseconds())
		}
		return false, nil

	case "/help":
		cb.term.printf("Available commands:\n")
		cb.term.printf("  /toggle, /chat        - Open or close the chat panel\n")
		cb.term.printf("  /status               - Show whether staff are online\n")
		cb.term.printf("  /email <address>      - Set your email (optional)\n")
		cb.term.printf("  /topic [name|number]  - List topics or choose one\n")
		cb.term.printf("  /name <name>          - Set your name for a call back\n")
		cb.term.printf("  /phone <number>       - Set your phone number for a call back\n")
		cb.term.printf("  /time <when>          - Best time to call (e.g., today after 6pm)\n")
		cb.term.printf("  /call                 - Request a call\n")
		cb.term.printf("  /journal              - Show recent requests in this session\n")
		cb.term.printf("  /quit, /exit          - Exit\n")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (type /help)", parts[0])
	}
}

// resolveTopic accepts a topic name or its 1-based position in the list.
func (cb *ChatBot) resolveTopic(arg string) (string, error) {
	for _, t := range cb.config.Topics {
		if strings.EqualFold(t, arg) {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(cb.config.Topics) {
		return cb.config.Topics[n-1], nil
	}
	return "", fmt.Errorf("unknown topic %q (choose one of: %s)", arg, strings.Join(cb.config.Topics, ", "))
}

// SelectTopic sets the topic by name or 1-based position.
func (cb *ChatBot) SelectTopic(arg string) error {
	topic, err := cb.resolveTopic(arg)
	if err != nil {
		return err
	}
	cb.SetTopic(topic)
	return nil
}

// SetTopic sets the topic sent with chat and call requests.
func (cb *ChatBot) SetTopic(topic string) {
	cb.widget.UpdateForm(func(f *Form) { f.Topic = topic })
}

// ChooseTopic shows an interactive topic picker on the controlling
// terminal. It must run before Run starts reading input.
func (cb *ChatBot) ChooseTopic() error {
	prompt := promptui.Select{
		Label: "Select topic",
		Items: cb.config.Topics,
	}
	_, topic, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("topic selection: %w", err)
	}
	cb.SetTopic(topic)
	return nil
}

// Run reads lines until EOF, /quit or ctx is done. Plain lines are chat
// messages; each is dispatched in the background.
func (cb *ChatBot) Run(ctx context.Context) error {
	cb.term.printf("💬 Session: %s\n", cb.widget.Session().ID)
	cb.term.printf("Type /toggle to open chat, /help for commands, /quit to exit\n\n")

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	var scanErr error
	// On ctx cancellation the reader may stay blocked in Scan until the
	// input is closed. For stdin that only happens as the process exits.
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cb.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr = scanner.Err()
	}()

	eof := false
loop:
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			break loop
		case line, ok = <-lines:
			if !ok {
				eof = true
				break loop
			}
		}

		input := strings.TrimSpace(line)
		if strings.HasPrefix(input, "/") {
			shouldQuit, err := cb.handleCommand(ctx, input)
			if err != nil {
				cb.term.printf("Error: %v\n", err)
				cb.logger.Error("command error", "error", err)
			}
			if shouldQuit {
				break loop
			}
			continue
		}

		if !cb.widget.Visible() {
			if input != "" {
				cb.term.printf("Chat is closed. Type /toggle to open it.\n")
			}
			continue
		}

		cb.dispatch(ctx, func(ctx context.Context) {
			cb.widget.Send(ctx, input)
		})
	}

	cb.Wait()
	cb.term.printf("Goodbye!\n")
	if eof && scanErr != nil {
		return fmt.Errorf("failed to read input: %w", scanErr)
	}
	return nil
}
