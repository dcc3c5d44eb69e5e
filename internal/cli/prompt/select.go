// Package prompt provides interactive CLI prompts for item selection.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/dotkeep/internal/errors"
)

// Sentinel errors for item selection.
var (
	ErrNoItems            = errors.New("no items to select from")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Kind discriminates what the user asked for.
type Kind int

const (
	// KindItems means specific items were selected; Indices is populated.
	KindItems Kind = iota
	// KindAll means every listed item was selected.
	KindAll
	// KindHistory means the user asked for the backup history view.
	KindHistory
	// KindQuit means the user asked to leave the menu.
	KindQuit
)

// Selection is the parsed result of one menu input.
type Selection struct {
	Kind Kind

	// Indices holds the selected 1-based indices for KindItems,
	// deduplicated, in input order.
	Indices []int

	// Rejected lists input tokens that were not valid selections
	// (non-numeric or out of range). They never abort the parse.
	Rejected []string
}

// ParseSelection parses one line of menu input against a list of max items.
//
// Grammar: "q" quits, "h" shows history, "all" selects everything, and
// anything else is comma/space-separated 1-based indices. Invalid tokens are
// collected in Rejected; the selection succeeds as long as at least one
// valid index remains. Matching is case-insensitive.
func ParseSelection(input string, max int) (Selection, error) {
	trimmed := strings.TrimSpace(input)

	switch strings.ToLower(trimmed) {
	case "q", "quit":
		return Selection{Kind: KindQuit}, nil
	case "h", "history":
		return Selection{Kind: KindHistory}, nil
	case "all":
		return Selection{Kind: KindAll}, nil
	}

	sel := Selection{Kind: KindItems}
	seen := make(map[int]bool)

	for _, token := range strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > max {
			sel.Rejected = append(sel.Rejected, token)
			continue
		}
		if !seen[n] {
			seen[n] = true
			sel.Indices = append(sel.Indices, n)
		}
	}

	if len(sel.Indices) == 0 {
		return sel, errors.Wrapf(errors.ErrInvalidSelection, "%q", trimmed)
	}
	return sel, nil
}

// Selector reads menu selections interactively.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// SelectItems prompts until the user enters a valid selection, q, h or all.
// Rejected tokens are reported individually before reprompting.
// Returns ErrSelectionCancelled on EOF (e.g. Ctrl+D).
func (s *Selector) SelectItems(max int) (Selection, error) {
	if max == 0 {
		return Selection{}, ErrNoItems
	}

	for {
		fmt.Fprint(s.writer, "\nYour choice: ")

		input, err := s.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Selection{}, ErrSelectionCancelled
			}
			return Selection{}, errors.Wrap(err, "reading selection")
		}

		sel, err := ParseSelection(input, max)
		for _, token := range sel.Rejected {
			if _, convErr := strconv.Atoi(token); convErr != nil {
				fmt.Fprintf(s.writer, "Not a number: %q\n", token)
			} else {
				fmt.Fprintf(s.writer, "Out of range [1-%d]: %s\n", max, token)
			}
		}
		if err != nil {
			fmt.Fprintln(s.writer, "Enter item numbers, 'all', 'h' for history, or 'q' to quit.")
			continue
		}
		return sel, nil
	}
}

// Confirm asks a yes/no question and returns true for y/yes.
// EOF and read errors count as no.
func (s *Selector) Confirm(question string) bool {
	fmt.Fprintf(s.writer, "%s (y/n): ", question)

	input, err := s.reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}
