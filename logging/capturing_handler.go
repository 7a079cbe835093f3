package logging

import (
	"context"
	"log/slog"
)

// CapturingHandler wraps an slog.Handler and copies every record at or above
// a minimum level into a Console. Records are passed through to the
// underlying handler according to its own level.
type CapturingHandler struct {
	underlying slog.Handler
	console    *Console
	minLevel   slog.Level
	attrs      []groupedAttr
	groups     []string
}

// groupedAttr is an attribute added by WithAttrs, with the groups open at the time.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// NewCapturingHandler creates a CapturingHandler that records records at
// minLevel and above into console.
func NewCapturingHandler(underlying slog.Handler, console *Console, minLevel slog.Level) *CapturingHandler {
	return &CapturingHandler{
		underlying: underlying,
		console:    console,
		minLevel:   minLevel,
	}
}

func (h *CapturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel || h.underlying.Enabled(ctx, level)
}

func (h *CapturingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel {
		h.console.Add(h.entry(r))
	}
	if !h.underlying.Enabled(ctx, r.Level) {
		return nil
	}
	return h.underlying.Handle(ctx, r)
}

func (h *CapturingHandler) entry(r slog.Record) LogEntry {
	attrs := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, ga := range h.attrs {
		nestedMap(attrs, ga.groups)[ga.attr.Key] = resolveValue(ga.attr.Value)
	}

	// Record attributes land inside the open groups, mirroring the JSON handler.
	target := nestedMap(attrs, h.groups)
	r.Attrs(func(a slog.Attr) bool {
		target[a.Key] = resolveValue(a.Value)
		return true
	})

	return LogEntry{
		Time:       r.Time,
		Level:      r.Level.String(),
		Message:    r.Message,
		Attributes: attrs,
	}
}

// nestedMap returns the map for the group path below root, creating it as needed.
func nestedMap(root map[string]any, groups []string) map[string]any {
	target := root
	for _, g := range groups {
		nested, ok := target[g].(map[string]any)
		if !ok {
			nested = make(map[string]any)
			target[g] = nested
		}
		target = nested
	}
	return target
}

// WithAttrs must return a CapturingHandler so capture survives With chains.
func (h *CapturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.underlying = h.underlying.WithAttrs(attrs)
	next.attrs = append([]groupedAttr{}, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, groupedAttr{groups: h.groups, attr: a})
	}
	return &next
}

// WithGroup must return a CapturingHandler so capture survives With chains.
func (h *CapturingHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.underlying = h.underlying.WithGroup(name)
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

// resolveValue converts a slog.Value to a JSON-serializable value.
func resolveValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time()
	case slog.KindGroup:
		group := make(map[string]any)
		for _, attr := range v.Group() {
			group[attr.Key] = resolveValue(attr.Value)
		}
		return group
	default:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	}
}
