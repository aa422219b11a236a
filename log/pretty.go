package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handler. Styles come from a
// renderer bound to the output writer, so color is dropped automatically
// when the writer is not a terminal.
type palette struct {
	key, str, num, boolTrue, boolFalse, dur, ts lipgloss.Style
	levels                                     map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	color := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}
	return palette{
		key:       color("8"),
		str:       color("6"),
		num:       color("3"),
		boolTrue:  color("2"),
		boolFalse: color("1"),
		dur:       color("5"),
		ts:        color("4"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): color("4"),
			slog.LevelDebug:        color("4"),
			slog.LevelInfo:         color("2"),
			slog.LevelWarn:         color("3").Bold(true),
			slog.LevelError:        color("1").Bold(true),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.levels[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.levels[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.levels[slog.LevelDebug]
	default:
		return p.levels[slog.Level(LevelTrace)]
	}
}

// prettyHandler renders records for people rather than machines. In
// multiline mode each attribute gets its own line inside braces;
// otherwise attributes are written as key=value pairs on one line.
type prettyHandler struct {
	opts      slog.HandlerOptions
	mu        *sync.Mutex
	w         io.Writer
	style     palette
	multiline bool
	attrs     []slog.Attr
	prefix    string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, multiline bool) *prettyHandler {
	return &prettyHandler{
		opts:      *opts,
		mu:        &sync.Mutex{},
		w:         w,
		style:     newPalette(w),
		multiline: multiline,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	first := true
	write := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(nil, a)
		}
		if a.Key == "" {
			return
		}
		h.writeAttr(&buf, a, &first)
	}

	if h.multiline {
		buf.WriteString("{")
	}
	if !r.Time.IsZero() {
		write(slog.Time(slog.TimeKey, r.Time))
	}
	write(slog.Any(slog.LevelKey, r.Level))
	if h.opts.AddSource {
		if src := sourceOf(r.PC); src != "" {
			write(slog.String(slog.SourceKey, src))
		}
	}
	write(slog.String(slog.MessageKey, r.Message))
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		write(a)
		return true
	})
	if h.multiline {
		buf.WriteString("\n}")
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.prefixed(attrs)...)
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *prettyHandler) prefixed(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		a.Key = h.prefix + a.Key
		out[i] = a
	}
	return out
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, first *bool) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		for _, sub := range a.Value.Group() {
			if a.Key != "" {
				sub.Key = a.Key + "." + sub.Key
			}
			h.writeAttr(buf, sub, first)
		}
		return
	}

	switch {
	case h.multiline:
		if !*first {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")
	default:
		if !*first {
			buf.WriteByte(' ')
		}
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
	}
	*first = false
	buf.WriteString(h.renderValue(a))
}

func (h *prettyHandler) renderValue(a slog.Attr) string {
	v := a.Value
	switch v.Kind() {
	case slog.KindString:
		if a.Key == slog.LevelKey {
			return h.style.level(slog.Level(ParseLevel(v.String()))).Render(v.String())
		}
		return h.style.str.Render(v.String())
	case slog.KindInt64:
		return h.style.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.style.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return h.style.boolTrue.Render("true")
		}
		return h.style.boolFalse.Render("false")
	case slog.KindDuration:
		return h.style.dur.Render(v.Duration().String())
	case slog.KindTime:
		return h.style.ts.Render(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return h.style.level(level).Render(Level(level).String())
		}
		if err, ok := v.Any().(error); ok {
			return h.style.str.Render(err.Error())
		}
	}
	return h.style.str.Render(fmt.Sprint(v.Any()))
}

func sourceOf(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}
