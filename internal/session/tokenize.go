package session

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
)

var (
	// ErrUnclosedQuote is returned when a quoted substring never ends.
	ErrUnclosedQuote = errors.New("no closing quotation") //nolint:gochecknoglobals // sentinel error
	// ErrDanglingEscape is returned when the line ends with a backslash.
	ErrDanglingEscape = errors.New("no escaped character") //nolint:gochecknoglobals // sentinel error
)

// Tokenize splits a command line into words with POSIX shell quoting:
// single quotes keep their content literally, double quotes allow \" and \\
// escapes, and outside quotes a backslash escapes the next character. An
// empty line yields no tokens.
func Tokenize(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	switch {
	case errors.Is(err, shellquote.UnterminatedSingleQuoteError),
		errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
		return nil, ErrUnclosedQuote
	case errors.Is(err, shellquote.UnterminatedEscapeError):
		return nil, ErrDanglingEscape
	case err != nil:
		return nil, fmt.Errorf("session.Tokenize: %w", err)
	}

	if len(words) == 0 {
		return nil, nil
	}
	return words, nil
}
