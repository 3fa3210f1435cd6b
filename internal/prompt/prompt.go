// Package prompt asks the operator for generation settings on a console.
//
// A session walks an ordered list of questions. Each question declares its
// label, an example answer, the pattern an answer must match, an optional
// precondition and the setter that stores the answer. A malformed answer is
// asked again up to a fixed number of attempts.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/settings"
)

// DefaultMaxAttempts bounds how often one question is asked.
const DefaultMaxAttempts = 3

// Question is one step of the session.
type Question struct {
	Label   string
	Example string
	Pattern *regexp.Regexp

	// When skips the question if it returns false.
	When func(s *settings.Settings) bool

	// Current renders the value already set, offered as the default answer.
	Current func(s *settings.Settings) string

	// Set stores a valid answer.
	Set func(s *settings.Settings, answer string)
}

// Session runs questions against an input and an output stream.
type Session struct {
	in          *bufio.Reader
	out         io.Writer
	questions   []Question
	maxAttempts int

	label *color.Color
	bad   *color.Color
	good  *color.Color
}

// Option configures a Session.
type Option func(*Session)

// WithMaxAttempts sets how often a question is asked before giving up.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithQuestions replaces the default question list.
func WithQuestions(q []Question) Option {
	return func(s *Session) { s.questions = q }
}

// WithColor turns coloured output on or off. Colour follows the terminal
// detection of fatih/color otherwise.
func WithColor(on bool) Option {
	return func(s *Session) {
		for _, c := range []*color.Color{s.label, s.bad, s.good} {
			if on {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewSession returns a session reading answers from in and writing prompts
// to out.
func NewSession(in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		in:          bufio.NewReader(in),
		out:         out,
		questions:   DefaultQuestions(),
		maxAttempts: DefaultMaxAttempts,
		label:       color.New(color.FgCyan, color.Bold),
		bad:         color.New(color.FgRed),
		good:        color.New(color.FgGreen),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run asks every applicable question, starting from initial, and returns
// the completed settings. It fails when an answer stays invalid after the
// allowed attempts, when input ends early, or when required settings are
// still missing at the end.
func (s *Session) Run(ctx context.Context, initial settings.Settings) (settings.Settings, error) {
	st := initial
	for _, q := range s.questions {
		if err := ctx.Err(); err != nil {
			return st, errs.Wrap(errs.ErrKindTimeout, "prompt interrupted", err)
		}
		if q.When != nil && !q.When(&st) {
			continue
		}
		if err := s.ask(q, &st); err != nil {
			return st, err
		}
	}

	if missing := settings.Validate(st); len(missing) > 0 {
		fmt.Fprintf(s.out, "%s %s\n", s.bad.Sprint("missing:"), strings.Join(missing, ", "))
		return st, errs.WithDetails(errs.ErrKindConfiguration, "required settings missing", missing)
	}
	fmt.Fprintln(s.out, s.good.Sprint("settings complete"))
	return st, nil
}

func (s *Session) ask(q Question, st *settings.Settings) error {
	current := ""
	if q.Current != nil {
		current = q.Current(st)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		fmt.Fprint(s.out, s.label.Sprint(q.Label))
		if q.Example != "" {
			fmt.Fprintf(s.out, " (e.g. %s)", q.Example)
		}
		if current != "" {
			fmt.Fprintf(s.out, " [%s]", current)
		}
		fmt.Fprint(s.out, ": ")

		answer, err := s.readLine()
		if err != nil {
			return err
		}
		if answer == "" {
			answer = current
		}
		if q.Pattern == nil || q.Pattern.MatchString(answer) {
			q.Set(st, answer)
			return nil
		}
		fmt.Fprintf(s.out, "%s %q does not match %s (%d/%d)\n",
			s.bad.Sprint("invalid answer"), answer, q.Pattern.String(), attempt, s.maxAttempts)
	}
	return errs.Newf(errs.ErrKindInvalidInput, "no valid answer for %s after %d attempts", q.Label, s.maxAttempts)
}

// readLine returns the next trimmed line. A final line without a newline
// still counts; end of input before any text is an error.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", errs.New(errs.ErrKindInvalidInput, "input ended before all questions were answered")
		}
		return "", errs.Wrap(errs.ErrKindIO, "read answer", err)
	}
	return strings.TrimSpace(line), nil
}
