// Package session runs the interactive read-dispatch-respond loop on top of
// the Command Service.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/todo/internal/domain"
	"github.com/gosuda/todo/internal/render"
	"github.com/gosuda/todo/internal/service"
)

// DefaultPrompt is shown while the engine waits for a command.
const DefaultPrompt = "todo> "

const (
	banner    = "Todo Interactive Mode (type 'help' or 'quit')"
	farewell  = "Goodbye!"
	cancelled = "Cancelled."
)

// State is the engine's position in the dialog.
type State int

const (
	StateAwaitingCommand State = iota
	StateAwaitingGuidedInput
	StateAwaitingConfirmation
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwaitingCommand:
		return "awaiting_command"
	case StateAwaitingGuidedInput:
		return "awaiting_guided_input"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// guidedField is one prompt of a guided dialog. current is shown in
// brackets; an empty current shows no brackets.
type guidedField struct {
	label   string
	current string
}

// guidedDialog collects one answer per field and commits them in one call.
type guidedDialog struct {
	fields  []guidedField
	answers []string
	commit  func(ctx context.Context, answers []string) error
}

// confirmation gates a destructive action behind a yes/no question.
type confirmation struct {
	question string
	action   func(ctx context.Context) error
}

type Engine struct {
	svc    Service
	out    io.Writer
	prompt string
	logger zerolog.Logger

	state   State
	guided  *guidedDialog
	confirm *confirmation
}

// Option configures optional Engine parameters.
type Option func(*Engine)

// WithPrompt replaces DefaultPrompt.
func WithPrompt(p string) Option {
	return func(e *Engine) {
		e.prompt = p
	}
}

// WithLogger sets the logger used for dispatch and recovery records.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func NewEngine(svc Service, out io.Writer, opts ...Option) *Engine {
	e := &Engine{
		svc:    svc,
		out:    out,
		prompt: DefaultPrompt,
		logger: log.Logger,
		state:  StateAwaitingCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) State() State { return e.state }

// Run prints the banner and feeds lines from in to the engine until the
// session terminates. End of input and interrupts are handled as the
// current state requires; only read failures are returned.
func (e *Engine) Run(ctx context.Context, in LineReader) error {
	e.Start()

	for e.state != StateTerminated {
		line, err := in.ReadLine(ctx)
		switch {
		case err == nil:
			e.HandleLine(ctx, line)
		case errors.Is(err, ErrInterrupted), errors.Is(err, io.EOF):
			e.HandleInterrupt()
		case ctx.Err() != nil:
			e.state = StateTerminated
			e.println("\n" + farewell)
		default:
			return fmt.Errorf("session.Engine.Run: %w", err)
		}
	}

	return nil
}

// Start prints the banner and the first prompt.
func (e *Engine) Start() {
	e.println(banner)
	e.println(strings.Repeat("-", 45))
	e.showPrompt()
}

// HandleLine advances the state machine by one line of input.
func (e *Engine) HandleLine(ctx context.Context, line string) {
	defer e.showPrompt()
	defer e.recoverPanic()

	switch e.state {
	case StateAwaitingCommand:
		e.dispatch(ctx, line)
	case StateAwaitingGuidedInput:
		e.answerGuided(ctx, line)
	case StateAwaitingConfirmation:
		e.answerConfirmation(ctx, line)
	case StateTerminated:
	}
}

// HandleInterrupt handles an interrupt signal or end of input. Inside a
// sub-dialog it cancels the dialog with nothing committed; at the command
// prompt it ends the session.
func (e *Engine) HandleInterrupt() {
	switch e.state {
	case StateAwaitingGuidedInput, StateAwaitingConfirmation:
		e.reset()
		e.println("\n" + cancelled)
		e.showPrompt()
	case StateAwaitingCommand:
		e.state = StateTerminated
		e.println("\n" + farewell)
	case StateTerminated:
	}
}

func (e *Engine) recoverPanic() {
	if r := recover(); r != nil {
		e.logger.Error().Interface("panic", r).Str("state", e.state.String()).Msg("command panicked")
		e.reset()
		e.printf("Error: internal error: %v\n", r)
	}
}

func (e *Engine) reset() {
	e.state = StateAwaitingCommand
	e.guided = nil
	e.confirm = nil
}

func (e *Engine) dispatch(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	tokens, err := Tokenize(line)
	if err != nil {
		e.printf("Error: Invalid input - %v\n", err)
		return
	}

	cmd, err := Parse(tokens)
	if err != nil {
		var unknown *UnknownCommandError
		if errors.As(err, &unknown) {
			e.println(unknown.Error())
			return
		}
		e.println("Error: " + err.Error())
		return
	}

	e.logger.Debug().Str("command", string(cmd.Name())).Msg("dispatch")

	if err := e.execute(ctx, cmd); err != nil {
		e.reportError(err)
	}
}

func (e *Engine) execute(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case AddCommand:
		if !c.HasTitle {
			e.beginGuided(&guidedDialog{
				fields: []guidedField{{label: "Title"}},
				commit: func(ctx context.Context, answers []string) error {
					in := c.Input
					in.Title = answers[0]
					return e.add(ctx, in)
				},
			})
			return nil
		}
		return e.add(ctx, c.Input)

	case ListCommand:
		e.println(render.Table(e.svc.List(ctx, c.Query)))
		return nil

	case ShowCommand:
		t, err := e.svc.Get(ctx, c.ID)
		if err != nil {
			return err
		}
		e.println(render.Detail(t))
		return nil

	case DoneCommand:
		t, err := e.svc.MarkDone(ctx, c.ID)
		if err != nil {
			return err
		}
		e.printf("Marked task %d as done: %s\n", t.ID, t.Title)
		return nil

	case ReopenCommand:
		t, err := e.svc.Reopen(ctx, c.ID)
		if err != nil {
			return err
		}
		e.printf("Reopened task %d: %s\n", t.ID, t.Title)
		return nil

	case UpdateCommand:
		if c.HasFlags {
			return e.update(ctx, c.ID, c.Input)
		}
		return e.beginGuidedUpdate(ctx, c.ID)

	case DeleteCommand:
		t, err := e.svc.Get(ctx, c.ID)
		if err != nil {
			return err
		}
		del := func(ctx context.Context) error {
			if _, err := e.svc.Delete(ctx, c.ID); err != nil {
				return err
			}
			e.printf("Deleted task %d\n", c.ID)
			return nil
		}
		if c.Force {
			return del(ctx)
		}
		e.beginConfirmation(fmt.Sprintf("Delete task %d %q?", t.ID, t.Title), del)
		return nil

	case ClearDoneCommand:
		count := e.svc.CountDone(ctx)
		if count == 0 {
			e.println("No completed tasks, nothing to clear.")
			return nil
		}
		clearDone := func(ctx context.Context) error {
			e.printf("Cleared %d completed task(s)\n", e.svc.ClearDone(ctx))
			return nil
		}
		if c.Force {
			return clearDone(ctx)
		}
		e.beginConfirmation(fmt.Sprintf("Clear %d completed task(s)?", count), clearDone)
		return nil

	case HelpCommand:
		e.println(HelpText())
		return nil

	case QuitCommand:
		e.state = StateTerminated
		e.println(farewell)
		return nil
	}

	return fmt.Errorf("session.Engine.execute: unhandled command %T", cmd)
}

func (e *Engine) add(ctx context.Context, in service.AddInput) error {
	t, err := e.svc.Add(ctx, in)
	if err != nil {
		return err
	}
	e.printf("Added task %d: %s\n", t.ID, t.Title)
	return nil
}

func (e *Engine) update(ctx context.Context, id int, in service.UpdateInput) error {
	t, err := e.svc.Update(ctx, id, in)
	if err != nil {
		return err
	}
	e.printf("Updated task %d: %s\n", t.ID, t.Title)
	return nil
}

// beginGuidedUpdate snapshots the task and asks for each field with the
// current value as default. Empty answers keep the value, "none" clears it.
func (e *Engine) beginGuidedUpdate(ctx context.Context, id int) error {
	t, err := e.svc.Get(ctx, id)
	if err != nil {
		return err
	}

	e.println("Current: " + render.Summary(t))
	e.beginGuided(&guidedDialog{
		fields: []guidedField{
			{label: "Title", current: t.Title},
			{label: "Due", current: render.Due(t)},
			{label: "Priority", current: render.Priority(t)},
			{label: "Tags", current: strings.Join(render.TagsOr(t, noneWord), ",")},
		},
		commit: func(ctx context.Context, answers []string) error {
			var in service.UpdateInput
			if answers[0] != "" {
				in.Title = domain.Set(answers[0])
			}
			if answers[1] != "" {
				in.Due = ClearableField(answers[1])
			}
			if answers[2] != "" {
				in.Priority = ClearableField(answers[2])
			}
			if answers[3] != "" {
				in.Tags = ClearableField(answers[3])
			}
			return e.update(ctx, id, in)
		},
	})
	return nil
}

func (e *Engine) beginGuided(d *guidedDialog) {
	e.guided = d
	e.state = StateAwaitingGuidedInput
}

func (e *Engine) answerGuided(ctx context.Context, line string) {
	d := e.guided
	d.answers = append(d.answers, strings.TrimSpace(line))
	if len(d.answers) < len(d.fields) {
		return
	}

	e.reset()
	if err := d.commit(ctx, d.answers); err != nil {
		e.reportError(err)
	}
}

func (e *Engine) beginConfirmation(question string, action func(ctx context.Context) error) {
	e.confirm = &confirmation{question: question, action: action}
	e.state = StateAwaitingConfirmation
}

func (e *Engine) answerConfirmation(ctx context.Context, line string) {
	c := e.confirm
	e.reset()

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		if err := c.action(ctx); err != nil {
			e.reportError(err)
		}
	default:
		e.println(cancelled)
	}
}

func (e *Engine) showPrompt() {
	switch e.state {
	case StateAwaitingCommand:
		e.printf("%s", e.prompt)
	case StateAwaitingGuidedInput:
		f := e.guided.fields[len(e.guided.answers)]
		if f.current == "" {
			e.printf("%s: ", f.label)
		} else {
			e.printf("%s [%s]: ", f.label, f.current)
		}
	case StateAwaitingConfirmation:
		e.printf("%s [y/N]: ", e.confirm.question)
	case StateTerminated:
	}
}

// reportError prints a domain error by its reason and anything else as is.
func (e *Engine) reportError(err error) {
	var (
		verr *domain.ValidationError
		nf   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		e.println("Error: " + verr.Reason)
	case errors.As(err, &nf):
		e.println("Error: " + nf.Error())
	default:
		e.logger.Warn().Err(err).Msg("command failed")
		e.println("Error: " + err.Error())
	}
}

func (e *Engine) println(s string) {
	_, _ = fmt.Fprintln(e.out, s)
}

func (e *Engine) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}
