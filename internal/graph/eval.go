package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/vls/internal/value"
)

// Console is the interpreter's view of standard input and output.
type Console interface {
	// ReadLine returns the next line without its terminator. ok is false
	// at end of input.
	ReadLine() (line string, ok bool, err error)

	// Write writes text as-is.
	Write(text string) error
}

// Stream tells which way a console interaction went.
type Stream int

const (
	StreamOut    Stream = iota // Print and Write output
	StreamIn                   // a line read by Ask
	StreamPrompt               // an Ask prompt
)

func (s Stream) String() string {
	switch s {
	case StreamOut:
		return "out"
	case StreamIn:
		return "in"
	case StreamPrompt:
		return "prompt"
	}
	return fmt.Sprintf("Stream(%d)", int(s))
}

// IOEvent is one successful console interaction, reported to the observer
// set with WithObserver.
type IOEvent struct {
	Box    BoxID
	Kind   Kind
	Stream Stream
	Text   string
}

// Interp evaluates boxes of one Script by pulling values backward across
// links. Nothing is cached: every pull re-runs the upstream subgraph, so a
// box with two consumers runs twice.
//
// Evaluation is single-threaded. The only mutable state touched is State
// box cells and the console.
type Interp struct {
	script      *Script
	console     Console
	rng         *rand.Rand
	echoPrompts bool
	logger      *slog.Logger
	observer    func(IOEvent)

	ctx context.Context // set for the duration of Trigger/Evaluate
}

// InterpOption configures an Interp.
type InterpOption func(*Interp)

// WithConsole sets the console used by Print, Write and Ask.
func WithConsole(c Console) InterpOption {
	return func(ip *Interp) { ip.console = c }
}

// WithRand sets the source for Random boxes.
func WithRand(r *rand.Rand) InterpOption {
	return func(ip *Interp) { ip.rng = r }
}

// WithEchoPrompts controls whether Ask writes its non-null input before
// reading. Default: true.
func WithEchoPrompts(echo bool) InterpOption {
	return func(ip *Interp) { ip.echoPrompts = echo }
}

// WithLogger sets the logger for debug tracing. Default: discard.
func WithLogger(l *slog.Logger) InterpOption {
	return func(ip *Interp) { ip.logger = l }
}

// WithObserver registers fn to receive every console interaction after it
// succeeds. The run journal uses it to record transcripts.
func WithObserver(fn func(IOEvent)) InterpOption {
	return func(ip *Interp) { ip.observer = fn }
}

// NewInterp creates an interpreter over s. Without WithConsole, reads see
// end of input and writes are dropped.
func NewInterp(s *Script, opts ...InterpOption) *Interp {
	ip := &Interp{
		script:      s,
		console:     nullConsole{},
		echoPrompts: true,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ip)
	}
	if ip.rng == nil {
		ip.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return ip
}

// Trigger fires an Event box: it pulls the box's body under arg and
// returns the result.
func (ip *Interp) Trigger(ctx context.Context, id BoxID, arg value.Value) (value.Value, error) {
	b, ok := ip.script.Box(id)
	if !ok {
		return nil, fmt.Errorf("trigger %d: %w", id, ErrNoSuchBox)
	}
	if !b.kind.IsEvent() {
		return nil, fmt.Errorf("trigger %s: not an event box", b)
	}
	defer ip.enter(ctx)()
	return ip.trigger(b, value.Of(arg))
}

// Evaluate pulls a value straight from a server port under arg.
func (ip *Interp) Evaluate(ctx context.Context, ref PortRef, arg value.Value) (value.Value, error) {
	defer ip.enter(ctx)()
	return ip.follow(nil, ref, value.Of(arg))
}

func (ip *Interp) enter(ctx context.Context) func() {
	prev := ip.ctx
	ip.ctx = ctx
	return func() { ip.ctx = prev }
}

func (ip *Interp) trigger(b *Box, arg value.Value) (value.Value, error) {
	return ip.pull(b, 0, arg)
}

// pull evaluates client port i of b. An unlinked port yields Null.
func (ip *Interp) pull(b *Box, i int, arg value.Value) (value.Value, error) {
	ref, ok := b.nodes[i].Link()
	if !ok {
		return value.Null{}, nil
	}
	return ip.follow(b, ref, arg)
}

func (ip *Interp) follow(from *Box, ref PortRef, arg value.Value) (value.Value, error) {
	target, ok := ip.script.Box(ref.Box)
	if !ok {
		e := &EvalError{Code: ErrCodeDanglingLink, Message: fmt.Sprintf("link to missing box %d", ref.Box)}
		if from != nil {
			e.BoxID, e.Kind = from.id, from.kind
		}
		return nil, e
	}
	if n, ok := target.Node(ref.Port); !ok || !n.IsServer() {
		return nil, &EvalError{
			Code:    ErrCodeDanglingLink,
			Message: fmt.Sprintf("link to invalid port %d", ref.Port),
			BoxID:   target.id,
			Kind:    target.kind,
		}
	}
	return ip.eval(target, ref.Port, arg)
}

// eval runs box b's evaluation for server port port.
func (ip *Interp) eval(b *Box, port int, arg value.Value) (value.Value, error) {
	switch b.kind.Family() {
	case FamilyValue:
		return ip.evalValue(b), nil
	case FamilyOperator:
		return ip.evalOperator(b, arg)
	case FamilyBranch:
		return ip.evalBranch(b, arg)
	case FamilyEvent:
		// Event boxes have no server ports; reaching one is a broken link.
		return nil, &EvalError{Code: ErrCodeDanglingLink, Message: "event boxes produce no value", BoxID: b.id, Kind: b.kind}
	case FamilyAction:
		return ip.evalAction(b, arg)
	case FamilyPatch:
		return ip.evalPatch(b, port, arg)
	}
	return nil, fmt.Errorf("unhandled box kind %s", b.kind)
}

func (ip *Interp) fail(b *Box, code EvalErrorCode, port int, err error) error {
	e := &EvalError{Code: code, Message: err.Error(), BoxID: b.id, Kind: b.kind, Err: err}
	if n, ok := b.Node(port); ok {
		e.Port = n.name
	}
	return e
}

func (ip *Interp) canceled() error {
	if ip.ctx == nil {
		return nil
	}
	return ip.ctx.Err()
}

type nullConsole struct{}

func (nullConsole) ReadLine() (string, bool, error) { return "", false, nil }
func (nullConsole) Write(string) error { return nil }
