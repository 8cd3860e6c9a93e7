package coursedoc

import (
	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
)

// fieldContext is the field whose content is being collected.
type fieldContext struct {
	tag   richtext.FieldTag // value tag, Header is false
	field schema.Field
}

// walker is a single pass over the top-level nodes of a document.
// It is Idle while ctx is nil and Accumulating(ctx, buf) otherwise.
//
//	fixed heading    -> flush, open the heading's field (or Idle if untagged)
//	editable heading -> flush, record its own inline text, Idle
//	other node       -> append to buf; plain-text fields close on their value node
type walker struct {
	s   *Serializer
	ctx *fieldContext
	buf []richtext.Node

	course    map[string]string
	units     map[string]map[string]string
	unitOrder []string
}

func newWalker(s *Serializer) *walker {
	return &walker{
		s:      s,
		course: make(map[string]string),
		units:  make(map[string]map[string]string),
	}
}

func (w *walker) step(n richtext.Node) {
	switch n.Type {
	case richtext.TypeFixedHeading:
		w.flush()
		if ctx, ok := w.resolve(richtext.FixedHeadingAttrsOf(n).FieldTag); ok {
			w.ctx = &ctx
		}

	case richtext.TypeEditableHeading:
		w.flush()
		if ctx, ok := w.resolve(richtext.EditableHeadingAttrsOf(n).FieldTag); ok {
			w.record(ctx.tag, n.PlainText())
		}

	default:
		w.accept(n)
	}
}

func (w *walker) accept(n richtext.Node) {
	if w.ctx == nil {
		w.s.logger.Debug("content outside any field dropped", "type", n.Type)
		return
	}

	if w.ctx.field.Kind == schema.KindPlainText {
		if tag, ok := n.FieldTag(); ok && tag == w.ctx.tag {
			w.record(w.ctx.tag, n.PlainText())
			w.reset()
			return
		}
	}

	w.buf = append(w.buf, n)
}

func (w *walker) finish() {
	w.flush()
}

// flush closes the open field, if any, and returns to Idle.
func (w *walker) flush() {
	if w.ctx == nil {
		return
	}
	w.record(w.ctx.tag, flushField(w.ctx.field, w.buf))
	w.reset()
}

func (w *walker) reset() {
	w.ctx = nil
	w.buf = nil
}

// resolve decodes a raw tag and finds its schema entry.
func (w *walker) resolve(raw string) (fieldContext, bool) {
	tag, ok := richtext.ParseFieldTag(raw)
	if !ok {
		if raw != "" {
			w.s.logger.Warn("ignoring malformed field tag", "tag", raw)
		}
		return fieldContext{}, false
	}
	f, ok := w.s.schema.Lookup(tag.Scope, tag.Field)
	if !ok {
		w.s.logger.Warn("ignoring field tag with no schema entry", "tag", raw)
		return fieldContext{}, false
	}
	return fieldContext{tag: tag.AsValue(), field: f}, true
}

func (w *walker) record(tag richtext.FieldTag, value string) {
	switch tag.Scope {
	case schema.ScopeCourse:
		w.course[tag.Field] = value
	case schema.ScopeUnit:
		fields, ok := w.units[tag.EntityID]
		if !ok {
			fields = make(map[string]string)
			w.units[tag.EntityID] = fields
			w.unitOrder = append(w.unitOrder, tag.EntityID)
		}
		fields[tag.Field] = value
	}
}

// flushField turns the collected content of a field into its record value.
// Rich text is re-wrapped as a fragment, or the sentinel when empty. Scalar
// fields take the text of the last node before the boundary.
func flushField(f schema.Field, buf []richtext.Node) string {
	if f.Kind == schema.KindRichText {
		if richtext.NodesEmpty(buf) {
			return courses.EmptyRichText
		}
		return richtext.Stringify(buf)
	}
	if len(buf) == 0 {
		return ""
	}
	return buf[len(buf)-1].PlainText()
}
