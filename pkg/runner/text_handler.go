package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/riseflow/pkg/domain"
)

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	Output(ctx context.Context, frame Frame) error
	Input(ctx context.Context) (string, error)
}

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	RoleLabel func(domain.Role) string
	MaxInput  int

	inputChan chan inputResult
	started   bool
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithRoleLabel decorates the role line, e.g. with a coloured pill.
func WithRoleLabel(fn func(domain.Role) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.RoleLabel = fn
	}
}

// WithMaxInput caps the size of one input line.
func WithMaxInput(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.MaxInput = n
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Output(ctx context.Context, frame Frame) error {
	if frame.Message != "" && frame.View.Node.ID == "" {
		_, err := fmt.Fprintln(h.Writer, frame.Message)
		return err
	}

	if h.RoleLabel != nil && !frame.View.Searching {
		fmt.Fprintln(h.Writer, h.RoleLabel(frame.View.Node.Role))
	}

	output := Markdown(frame.View)
	if h.Renderer != nil {
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimSpace(output))

	if frame.Message != "" {
		fmt.Fprintln(h.Writer, frame.Message)
	}
	return nil
}

// pump reads lines in the background so Input can honour ctx cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	if !h.started {
		h.started = true
		h.inputChan = make(chan inputResult)
		go h.pump()
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := Sanitizer{MaxSize: h.MaxInput}.Clean(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}
