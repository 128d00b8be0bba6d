package graph

import (
	"fmt"
	"strings"

	"github.com/roach88/vls/internal/value"
)

// Port indices shared by the control, action and patch families.
const (
	ifCondition  = 0
	ifThen       = 1
	ifElse       = 2
	whileCond    = 0
	whileBody    = 1
	actionInput  = 0
	callTarget   = 0
	callArgument = 1
	stateSet     = 0
	stateGet     = 1
	seqDiscard   = 0
	seqReturn    = 1
)

// evalBranch pulls only what the condition selects. The untaken branch of
// an If is never evaluated.
func (ip *Interp) evalBranch(b *Box, arg value.Value) (value.Value, error) {
	if b.kind == KindIf {
		cond, err := ip.condition(b, ifCondition, arg)
		if err != nil {
			return nil, err
		}
		if cond {
			return ip.pull(b, ifThen, arg)
		}
		return ip.pull(b, ifElse, arg)
	}

	// While has no iteration limit; only cancellation of the run's context
	// stops a loop whose condition never turns false.
	var last value.Value = value.Null{}
	for {
		cond, err := ip.condition(b, whileCond, arg)
		if err != nil {
			return nil, err
		}
		if !cond {
			return last, nil
		}
		last, err = ip.pull(b, whileBody, arg)
		if err != nil {
			return nil, err
		}
		if err := ip.canceled(); err != nil {
			return nil, err
		}
	}
}

func (ip *Interp) condition(b *Box, port int, arg value.Value) (bool, error) {
	v, err := ip.pull(b, port, arg)
	if err != nil {
		return false, err
	}
	c, err := value.AsBool(v)
	if err != nil {
		return false, ip.fail(b, ErrCodeCast, port, err)
	}
	return bool(c), nil
}

// evalAction performs console I/O. Print and Write return their input;
// Ask returns the line read, or Null at end of input.
func (ip *Interp) evalAction(b *Box, arg value.Value) (value.Value, error) {
	v, err := ip.pull(b, actionInput, arg)
	if err != nil {
		return nil, err
	}

	switch b.kind {
	case KindPrint:
		if err := ip.write(b, StreamOut, v.String()+"\n"); err != nil {
			return nil, err
		}
		return v, nil

	case KindWrite:
		if err := ip.write(b, StreamOut, v.String()); err != nil {
			return nil, err
		}
		return v, nil

	default: // KindAsk
		if ip.echoPrompts && v.Kind() != value.NullKind {
			if err := ip.write(b, StreamPrompt, v.String()); err != nil {
				return nil, err
			}
		}
		line, ok, err := ip.console.ReadLine()
		if err != nil {
			return nil, ip.fail(b, ErrCodeIO, actionInput, err)
		}
		if !ok {
			return value.Null{}, nil
		}
		line = strings.TrimRight(line, "\r\n")
		ip.observe(b, StreamIn, line)
		return value.String(line), nil
	}
}

func (ip *Interp) write(b *Box, stream Stream, text string) error {
	if err := ip.console.Write(text); err != nil {
		return ip.fail(b, ErrCodeIO, actionInput, err)
	}
	ip.observe(b, stream, text)
	return nil
}

func (ip *Interp) observe(b *Box, stream Stream, text string) {
	if ip.observer != nil {
		ip.observer(IOEvent{Box: b.id, Kind: b.kind, Stream: stream, Text: text})
	}
}

// evalPatch covers the call-argument, state, ordering and portal boxes.
// port tells State whether it is being pulled through Set or Get.
func (ip *Interp) evalPatch(b *Box, port int, arg value.Value) (value.Value, error) {
	switch b.kind {
	case KindCall:
		next, err := ip.pull(b, callArgument, arg)
		if err != nil {
			return nil, err
		}
		return ip.pull(b, callTarget, next)

	case KindCallValue:
		return arg, nil

	case KindState:
		if port == stateSet {
			b.cell = arg
			return arg, nil
		}
		return value.Of(b.cell), nil

	case KindSequence:
		if _, err := ip.pull(b, seqDiscard, arg); err != nil {
			return nil, err
		}
		return ip.pull(b, seqReturn, arg)

	case KindInvoke:
		sub, ok := ip.script.FindSubroutine(b.name)
		if !ok {
			return nil, &EvalError{
				Code:    ErrCodeUnresolvedPortal,
				Message: fmt.Sprintf("cannot find a Portal named %q", b.name),
				BoxID:   b.id,
				Kind:    b.kind,
			}
		}
		ip.logger.Debug("invoke", "name", b.name, "invoke", b.id, "subroutine", sub.id)
		return ip.trigger(sub, arg)
	}
	return nil, fmt.Errorf("%s is not a patch box", b.kind)
}
