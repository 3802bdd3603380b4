package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gosuda/todo/internal/domain"
	"github.com/gosuda/todo/internal/service"
)

// CommandName is the canonical name of a session command.
type CommandName string

const (
	CmdAdd       CommandName = "add"
	CmdList      CommandName = "list"
	CmdShow      CommandName = "show"
	CmdDone      CommandName = "done"
	CmdReopen    CommandName = "reopen"
	CmdUpdate    CommandName = "update"
	CmdDelete    CommandName = "delete"
	CmdClearDone CommandName = "clear-done"
	CmdHelp      CommandName = "help"
	CmdQuit      CommandName = "quit"
)

// CommandNames lists every canonical command in help order.
var CommandNames = []CommandName{ //nolint:gochecknoglobals // fixed command table
	CmdAdd, CmdList, CmdShow, CmdDone, CmdReopen, CmdUpdate, CmdDelete, CmdClearDone, CmdHelp, CmdQuit,
}

// Alias maps a shortcut word onto a canonical command.
type Alias struct {
	Word string
	Name CommandName
}

// Aliases is the shortcut table, in help order.
var Aliases = []Alias{ //nolint:gochecknoglobals // fixed alias table
	{"ls", CmdList},
	{"l", CmdList},
	{"a", CmdAdd},
	{"s", CmdShow},
	{"x", CmdDone},
	{"o", CmdReopen},
	{"u", CmdUpdate},
	{"rm", CmdDelete},
	{"d", CmdDelete},
	{"clear", CmdClearDone},
	{"?", CmdHelp},
	{"q", CmdQuit},
	{"exit", CmdQuit},
}

// Resolve maps a command word or alias, case-insensitively, to its canonical name.
func Resolve(word string) (CommandName, bool) {
	w := strings.ToLower(word)
	for _, name := range CommandNames {
		if string(name) == w {
			return name, true
		}
	}
	for _, a := range Aliases {
		if a.Word == w {
			return a.Name, true
		}
	}
	return "", false
}

// Command is one parsed session command. The concrete types below are the
// only implementations.
type Command interface {
	Name() CommandName
	sealed()
}

// AddCommand creates a task. Without a title the engine asks for one.
type AddCommand struct {
	Title    string
	HasTitle bool
	Input    service.AddInput
}

type ListCommand struct {
	Query domain.ListQuery
}

type ShowCommand struct{ ID int }

type DoneCommand struct{ ID int }

type ReopenCommand struct{ ID int }

// UpdateCommand changes a task. With no field flags the engine runs the
// guided dialog instead.
type UpdateCommand struct {
	ID       int
	Input    service.UpdateInput
	HasFlags bool
}

type DeleteCommand struct {
	ID    int
	Force bool
}

type ClearDoneCommand struct {
	Force bool
}

type HelpCommand struct{}

type QuitCommand struct{}

func (AddCommand) Name() CommandName       { return CmdAdd }
func (ListCommand) Name() CommandName      { return CmdList }
func (ShowCommand) Name() CommandName      { return CmdShow }
func (DoneCommand) Name() CommandName      { return CmdDone }
func (ReopenCommand) Name() CommandName    { return CmdReopen }
func (UpdateCommand) Name() CommandName    { return CmdUpdate }
func (DeleteCommand) Name() CommandName    { return CmdDelete }
func (ClearDoneCommand) Name() CommandName { return CmdClearDone }
func (HelpCommand) Name() CommandName      { return CmdHelp }
func (QuitCommand) Name() CommandName      { return CmdQuit }

func (AddCommand) sealed()       {}
func (ListCommand) sealed()      {}
func (ShowCommand) sealed()      {}
func (DoneCommand) sealed()      {}
func (ReopenCommand) sealed()    {}
func (UpdateCommand) sealed()    {}
func (DeleteCommand) sealed()    {}
func (ClearDoneCommand) sealed() {}
func (HelpCommand) sealed()      {}
func (QuitCommand) sealed()      {}

// UnknownCommandError is returned by Parse for a word that is neither a
// command nor an alias.
type UnknownCommandError struct {
	Word string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command: %s. Type 'help' for options.", e.Word)
}

// InputError is a local error in the arguments of a known command.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// Parse resolves tokens[0] and parses the remaining tokens as that
// command's arguments and flags.
func Parse(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return nil, inputErrorf("empty command")
	}

	name, ok := Resolve(tokens[0])
	if !ok {
		return nil, &UnknownCommandError{Word: tokens[0]}
	}

	fs := pflag.NewFlagSet(string(name), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var (
		title, due, priority, tag string
		status, sortKey           string
		force                     bool
	)
	switch name {
	case CmdAdd:
		fs.StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
		fs.StringVar(&priority, "priority", "", "priority (low, med, high)")
		fs.StringVar(&tag, "tag", "", "comma-separated tags")
	case CmdList:
		fs.StringVar(&status, "status", "all", "all, open or done")
		fs.StringVar(&tag, "tag", "", "only tasks with this tag")
		fs.StringVar(&sortKey, "sort", "created", "created, due or priority")
	case CmdUpdate:
		fs.StringVar(&title, "title", "", "new title")
		fs.StringVar(&due, "due", "", "new due date, or none")
		fs.StringVar(&priority, "priority", "", "new priority, or none")
		fs.StringVar(&tag, "tag", "", "new comma-separated tags, or none")
	case CmdDelete, CmdClearDone:
		fs.BoolVarP(&force, "force", "f", false, "skip confirmation")
	}

	flagArgs, positional := splitArgs(fs, tokens[1:])
	if err := fs.Parse(flagArgs); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return HelpCommand{}, nil
		}
		return nil, inputErrorf("%s: %v", name, err)
	}
	args := append(fs.Args(), positional...)

	switch name {
	case CmdAdd:
		cmd := AddCommand{}
		if len(args) > 0 {
			cmd.Title = strings.Join(args, " ")
			cmd.HasTitle = true
		}
		cmd.Input.Title = cmd.Title
		if fs.Changed("due") {
			cmd.Input.Due = &due
		}
		if fs.Changed("priority") {
			cmd.Input.Priority = &priority
		}
		if fs.Changed("tag") {
			cmd.Input.Tags = &tag
		}
		return cmd, nil

	case CmdList:
		if len(args) > 0 {
			return nil, inputErrorf("list: unexpected argument %q", args[0])
		}
		sf, err := domain.ParseStatusFilter(status)
		if err != nil {
			return nil, inputErrorf("%v", err)
		}
		sk, err := domain.ParseSortKey(sortKey)
		if err != nil {
			return nil, inputErrorf("%v", err)
		}
		return ListCommand{Query: domain.ListQuery{Status: sf, Tag: tag, Sort: sk}}, nil

	case CmdShow, CmdDone, CmdReopen:
		id, err := parseID(name, args)
		if err != nil {
			return nil, err
		}
		switch name {
		case CmdShow:
			return ShowCommand{ID: id}, nil
		case CmdDone:
			return DoneCommand{ID: id}, nil
		default:
			return ReopenCommand{ID: id}, nil
		}

	case CmdUpdate:
		id, err := parseID(name, args)
		if err != nil {
			return nil, err
		}
		cmd := UpdateCommand{ID: id}
		if fs.Changed("title") {
			cmd.Input.Title = domain.Set(title)
			cmd.HasFlags = true
		}
		if fs.Changed("due") {
			cmd.Input.Due = ClearableField(due)
			cmd.HasFlags = true
		}
		if fs.Changed("priority") {
			cmd.Input.Priority = ClearableField(priority)
			cmd.HasFlags = true
		}
		if fs.Changed("tag") {
			cmd.Input.Tags = ClearableField(tag)
			cmd.HasFlags = true
		}
		return cmd, nil

	case CmdDelete:
		id, err := parseID(name, args)
		if err != nil {
			return nil, err
		}
		return DeleteCommand{ID: id, Force: force}, nil

	case CmdClearDone:
		if len(args) > 0 {
			return nil, inputErrorf("clear-done: unexpected argument %q", args[0])
		}
		return ClearDoneCommand{Force: force}, nil

	case CmdHelp:
		return HelpCommand{}, nil

	case CmdQuit:
		return QuitCommand{}, nil
	}

	return nil, inputErrorf("unsupported command %q", name)
}

// splitArgs separates flag words from positional words so pflag never reads
// a positional word as a flag. A word is a flag when it starts with "--" or is a
// two-character "-x" spelling of a registered shorthand (or -h); anything
// else, such as "-5 push-ups" or "-1", is positional. A value-taking flag
// written without "=" keeps the following word as its value.
func splitArgs(fs *pflag.FlagSet, args []string) (flags, positional []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case strings.HasPrefix(arg, "--"):
			flags = append(flags, arg)
			name, _, hasValue := strings.Cut(arg[2:], "=")
			if f := fs.Lookup(name); f != nil && f.NoOptDefVal == "" && !hasValue && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		case len(arg) == 2 && arg[0] == '-' && (arg[1] == 'h' || fs.ShorthandLookup(arg[1:]) != nil):
			flags = append(flags, arg)
			if f := fs.ShorthandLookup(arg[1:]); f != nil && f.NoOptDefVal == "" && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	return flags, positional
}

// ClearableField maps an update value to a three-way field: empty input or
// the word "none" clears the field, anything else sets it.
func ClearableField(raw string) domain.Field[string] {
	if raw == "" || raw == noneWord {
		return domain.Clear[string]()
	}
	return domain.Set(raw)
}

const noneWord = "none"

func parseID(name CommandName, args []string) (int, error) {
	if len(args) == 0 {
		return 0, inputErrorf("Task ID is required")
	}
	if len(args) > 1 {
		return 0, inputErrorf("%s: unexpected argument %q", name, args[1])
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, inputErrorf("'%s' is not a valid task ID", args[0])
	}
	return id, nil
}
