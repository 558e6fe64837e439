// Package render writes entries and search results for the command line.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/term"

	"github.com/Paintersrp/journaldb/internal/entry"
)

type Mode string

const (
	ModeAuto     Mode = "auto"
	ModePlain    Mode = "plain"
	ModeMarkdown Mode = "markdown"
)

const (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorSubtle  = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#10B981")

	// PreviewWidth is the default length of list previews.
	PreviewWidth = 60
	wordWrap     = 100
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	dimStyle   = lipgloss.NewStyle().Foreground(colorSubtle)
	scoreStyle = lipgloss.NewStyle().Foreground(colorAccent)
)

// Renderer formats output for one writer. Styling is applied only when the
// writer is a terminal.
type Renderer struct {
	w        io.Writer
	styled   bool
	markdown bool
}

// New builds a renderer for w. In auto mode entry bodies are rendered as
// markdown only on a terminal.
func New(w io.Writer, mode string) *Renderer {
	tty := IsTerminal(w)
	r := &Renderer{w: w, styled: tty}

	switch Mode(mode) {
	case ModeMarkdown:
		r.markdown = true
	case ModePlain:
	default:
		r.markdown = tty
	}
	return r
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Entry writes the full form of e.
func (r *Renderer) Entry(e entry.Entry) error {
	body, err := r.body(e.Content)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(r.w, "%s %s\n%s %s\n%s %s\n\n%s\n%s\n",
		r.label("Title:"), e.Title,
		r.label("Date:"), entry.FormatDate(e.Date),
		r.label("Tags:"), e.Tags,
		r.label("Content:"), body,
	)
	return err
}

// ListLine writes the one-line summary of e, optionally followed by a plain
// text preview of its body.
func (r *Renderer) ListLine(e entry.Entry, preview bool) error {
	line := fmt.Sprintf("%s %d | %s %s | %s %s",
		r.label("Id:"), e.ID,
		r.label("Title:"), e.Title,
		r.label("Date:"), entry.FormatDate(e.Date),
	)
	if preview {
		line += " | " + r.dim(Preview(e.Content, PreviewWidth))
	}

	_, err := fmt.Fprintln(r.w, line)
	return err
}

// SearchLine writes one ranked result on a single line.
func (r *Renderer) SearchLine(e entry.Entry, score float64) error {
	_, err := fmt.Fprintf(r.w, "%s %d | %s %s | %s %s\n",
		r.label("ID:"), e.ID,
		r.label("Title:"), e.Title,
		r.label("Score :"), r.score(score),
	)
	return err
}

// SearchFull writes one ranked result with every stored field.
func (r *Renderer) SearchFull(e entry.Entry) error {
	body, err := r.body(e.Content)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(r.w, "%s %d\n%s %s\n%s %s\n%s %s\n\n%s\n%s\n\n",
		r.label("ID:"), e.ID,
		r.label("Title:"), e.Title,
		r.label("Date:"), entry.FormatDate(e.Date),
		r.label("Tags:"), e.Tags,
		r.label("Content:"), body,
	)
	return err
}

// NoResults writes the empty search message.
func (r *Renderer) NoResults() error {
	_, err := fmt.Fprintln(r.w, "No results found.")
	return err
}

// PickerLine is the label shown for e in interactive selection.
func PickerLine(e entry.Entry) string {
	if e.Tags == "" {
		return fmt.Sprintf("%s (%s) [No tags]", e.Title, entry.FormatDate(e.Date))
	}
	return fmt.Sprintf("%s (%s) [Tags: %s]", e.Title, entry.FormatDate(e.Date), e.Tags)
}

// Markdown renders src with glamour for a terminal of the given width.
func Markdown(src string, width int, styled bool) (string, error) {
	if width <= 0 || width > wordWrap {
		width = wordWrap
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if styled {
		opts = append(opts,
			glamour.WithStandardStyle("dracula"),
			glamour.WithColorProfile(termenv.ANSI256),
		)
	} else {
		opts = append(opts,
			glamour.WithStandardStyle("notty"),
			glamour.WithColorProfile(termenv.Ascii),
		)
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(src)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// Preview flattens a markdown body to plain text and truncates it to max
// runes. A max of zero keeps the whole text.
func Preview(src string, max int) string {
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})

	flat := strings.Join(strings.Fields(b.String()), " ")
	return truncate(flat, max)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:max-1]), " ") + "…"
}

func (r *Renderer) body(content string) (string, error) {
	if !r.markdown || strings.TrimSpace(content) == "" {
		return content, nil
	}
	return Markdown(content, terminalWidth(r.w), r.styled)
}

func (r *Renderer) label(s string) string {
	if !r.styled {
		return s
	}
	return labelStyle.Render(s)
}

func (r *Renderer) dim(s string) string {
	if !r.styled {
		return s
	}
	return dimStyle.Render(s)
}

func (r *Renderer) score(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	if !r.styled {
		return s
	}
	return scoreStyle.Render(s)
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return wordWrap
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return wordWrap
	}
	return width
}
