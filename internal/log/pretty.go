package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTime    = lipgloss.NewStyle().Faint(true)
	styleKey     = lipgloss.NewStyle().Faint(true)
	styleMessage = lipgloss.NewStyle().Bold(true)
	styleDebug   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// prettyHandler renders one aligned line per record for humans at a
// terminal: time, padded level, message, then key=value attributes.
type prettyHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	color  bool
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(w io.Writer, level slog.Level, color bool) *prettyHandler {
	return &prettyHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		color: color,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	// Qualify now: attrs bound before a later WithGroup stay unprefixed.
	qualified := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		qualified = append(qualified, h.qualify(a))
	}
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], qualified...)
	return &c
}

func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) > 0 && a.Key != "" {
		a.Key = strings.Join(h.groups, ".") + "." + a.Key
	}
	return a
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(h.paint(styleTime, r.Time.Format("15:04:05")))
		b.WriteByte(' ')
	}
	b.WriteString(h.paint(h.levelStyle(r.Level), fmt.Sprintf("%-5s", levelName(r.Level))))
	b.WriteByte(' ')
	b.WriteString(h.paint(styleMessage, r.Message))

	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.qualify(a))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *prettyHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			ga.Key = a.Key + "." + ga.Key
			h.writeAttr(b, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(h.paint(styleKey, a.Key+"="))
	b.WriteString(formatValue(a.Value))
}

func (h *prettyHandler) paint(style lipgloss.Style, s string) string {
	if !h.color {
		return s
	}
	return style.Render(s)
}

func (h *prettyHandler) levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styleErr
	case level >= slog.LevelWarn:
		return styleWarn
	case level >= slog.LevelInfo:
		return styleInfo
	default:
		return styleDebug
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\"") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return v.String()
	}
}
