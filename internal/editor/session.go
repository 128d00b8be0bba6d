package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/vls/internal/engine"
	"github.com/roach88/vls/internal/graph"
)

// cloneOffset is how far a cloned box is placed from its source.
const cloneOffset = 20

// Session is a headless editor over one script file.
//
// The palette holds one immutable template box per kind. Templates are not
// part of the script: they are never saved and AutoClean never sees them.
// New boxes are clones of templates and are always mutable.
type Session struct {
	path    string
	script  *graph.Script
	palette []*graph.Box
	history history
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// New creates a session with an empty script and no file.
func New(opts ...Option) *Session {
	s := &Session{
		script: graph.NewScript(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, k := range graph.Kinds() {
		tmpl := graph.NewBox(k)
		tmpl.SetMutable(false)
		s.palette = append(s.palette, tmpl)
	}
	s.resetHistory()
	return s
}

// Open loads the script at path. A missing, unreadable or malformed file
// does not fail: the session starts from an empty script, logs a warning,
// and Save later writes to path.
func Open(path string, opts ...Option) *Session {
	s := New(opts...)
	s.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("cannot read script, starting empty", "path", path, "error", err)
		return s
	}
	script, err := graph.Unmarshal(data)
	if err != nil {
		s.logger.Warn("cannot parse script, starting empty", "path", path, "error", err)
		return s
	}
	s.script = script
	s.resetHistory()
	s.logger.Debug("script opened", "path", path, "boxes", script.Len())
	return s
}

// Path returns the file the session saves to.
func (s *Session) Path() string { return s.path }

// Script returns the script being edited.
func (s *Session) Script() *graph.Script { return s.script }

// Dirty reports whether the script differs from the state last opened or
// saved. Undoing back to that state makes the session clean again.
func (s *Session) Dirty() bool { return !s.history.clean() }

// Palette returns the template boxes in catalog order.
func (s *Session) Palette() []*graph.Box {
	return append([]*graph.Box(nil), s.palette...)
}

// Template returns the palette box for k.
func (s *Session) Template(k graph.Kind) (*graph.Box, bool) {
	for _, t := range s.palette {
		if t.Kind() == k {
			return t, true
		}
	}
	return nil, false
}

// Add clones the palette template for k into the script at (x, y).
func (s *Session) Add(k graph.Kind, x, y float64) (*graph.Box, error) {
	tmpl, ok := s.Template(k)
	if !ok {
		return nil, fmt.Errorf("add: no template for %v", k)
	}
	b := tmpl.Clone()
	b.SetPosition(x, y)
	return s.insert(b)
}

// Clone copies a script box, without its links, next to the original.
func (s *Session) Clone(id graph.BoxID) (*graph.Box, error) {
	src, err := s.box(id)
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	b := src.Clone()
	b.SetPosition(src.X()+cloneOffset, src.Y()+cloneOffset)
	return s.insert(b)
}

func (s *Session) insert(b *graph.Box) (*graph.Box, error) {
	if _, err := s.script.Add(b); err != nil {
		return nil, err
	}
	s.changed()
	s.logger.Debug("box added", "box", b.String())
	return b, nil
}

// Remove deletes a box after breaking every link into it.
func (s *Session) Remove(id graph.BoxID) error {
	b, err := s.box(id)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if !b.Mutable() {
		return fmt.Errorf("remove %s: %w", b, graph.ErrImmutable)
	}
	name := b.String()
	s.script.Remove(id)
	s.changed()
	s.logger.Debug("box removed", "box", name)
	return nil
}

// Move places a box at (x, y).
func (s *Session) Move(id graph.BoxID, x, y float64) error {
	b, err := s.box(id)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if !b.SetPosition(x, y) {
		return fmt.Errorf("move %s: %w", b, graph.ErrImmutable)
	}
	s.changed()
	return nil
}

// Link connects client port in of box to onto server port out of box from.
// A client port holds one link; linking it again replaces the old link.
func (s *Session) Link(to graph.BoxID, in string, from graph.BoxID, out string) error {
	client, err := s.port(to, in, graph.Client)
	if err != nil {
		return fmt.Errorf("link: %w", err)
	}
	server, err := s.port(from, out, graph.Server)
	if err != nil {
		return fmt.Errorf("link: %w", err)
	}
	if err := s.script.Link(client, server); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	s.changed()
	return nil
}

// Unlink clears client port in of box to.
func (s *Session) Unlink(to graph.BoxID, in string) error {
	client, err := s.port(to, in, graph.Client)
	if err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	if err := s.script.Unlink(client); err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	s.changed()
	return nil
}

// SetValue parses text into a settable box's literal or name. On failure
// the box keeps its old value.
func (s *Session) SetValue(id graph.BoxID, text string) error {
	b, err := s.box(id)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	if err := b.SetValueText(text); err != nil {
		return fmt.Errorf("set %s: %w", b, err)
	}
	s.changed()
	return nil
}

// Clean runs AutoClean on the script.
func (s *Session) Clean() []graph.Removed {
	removed := s.script.AutoClean()
	for _, r := range removed {
		s.logger.Debug("autoclean removed box", "box", fmt.Sprintf("%s#%d", r.Kind, r.ID))
	}
	if len(removed) > 0 {
		s.changed()
	}
	s.logger.Info("autoclean finished", "removed", len(removed), "remaining", s.script.Len())
	return removed
}

// Save writes the script to the session path.
func (s *Session) Save() error {
	if s.path == "" {
		return errors.New("save: session has no file")
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the script to path and makes path the session file.
func (s *Session) SaveAs(path string) error {
	data, err := graph.Marshal(s.script)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	s.path = path
	s.history.markSaved()
	s.logger.Info("script saved", "path", path, "boxes", s.script.Len())
	return nil
}

// Undo restores the script as it was before the last edit. Box ids are
// reassigned in script order, as after a load.
func (s *Session) Undo() error {
	data, ok := s.history.undo()
	if !ok {
		return ErrNothingToUndo
	}
	if err := s.restore(data); err != nil {
		s.history.redo()
		return fmt.Errorf("undo: %w", err)
	}
	return nil
}

// Redo reapplies the last undone edit.
func (s *Session) Redo() error {
	data, ok := s.history.redo()
	if !ok {
		return ErrNothingToRedo
	}
	if err := s.restore(data); err != nil {
		s.history.undo()
		return fmt.Errorf("redo: %w", err)
	}
	return nil
}

func (s *Session) restore(data []byte) error {
	script, err := graph.Unmarshal(data)
	if err != nil {
		return err
	}
	s.script = script
	s.logger.Debug("script restored", "boxes", script.Len(), "state", s.history.index)
	return nil
}

// changed records the script after an edit so it can be undone.
func (s *Session) changed() {
	data, err := graph.Marshal(s.script)
	if err != nil {
		s.logger.Error("cannot record script state", "error", err)
		s.history.saved = -1
		return
	}
	s.history.record(data)
}

func (s *Session) resetHistory() {
	data, err := graph.Marshal(s.script)
	if err != nil {
		s.logger.Error("cannot record script state", "error", err)
	}
	s.history.reset(data)
}

// Run triggers the script's Start boxes with con as the console.
func (s *Session) Run(ctx context.Context, con graph.Console) (engine.Result, error) {
	r := engine.NewRunner(s.script,
		engine.WithConsole(con),
		engine.WithScriptSource(s.path, ""),
		engine.WithLogger(s.logger),
	)
	return r.Run(ctx)
}

func (s *Session) box(id graph.BoxID) (*graph.Box, error) {
	b, ok := s.script.Box(id)
	if !ok {
		return nil, fmt.Errorf("box %d: %w", id, graph.ErrNoSuchBox)
	}
	return b, nil
}

func (s *Session) port(id graph.BoxID, name string, dir graph.Direction) (graph.PortRef, error) {
	b, err := s.box(id)
	if err != nil {
		return graph.PortRef{}, err
	}
	i, ok := b.Port(name, dir)
	if !ok {
		return graph.PortRef{}, fmt.Errorf("%s has no %s port %q: %w", b, dir, name, graph.ErrBadPort)
	}
	return graph.PortRef{Box: id, Port: i}, nil
}
