package editor

import "errors"

// maxHistory is the number of script states undo and redo move between,
// the current one included.
const maxHistory = 30

var (
	// ErrNothingToUndo is returned by Undo at the oldest kept state.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo at the newest state.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// history keeps serialized script states. states[index] is the current
// state; entries after it are redo states.
type history struct {
	states [][]byte
	index  int
	saved  int // index of the state on disk, -1 if none is kept
}

func (h *history) reset(state []byte) {
	h.states = [][]byte{state}
	h.index = 0
	h.saved = 0
}

// record makes state current, dropping redo states and the oldest states
// beyond maxHistory.
func (h *history) record(state []byte) {
	if h.saved > h.index {
		h.saved = -1
	}
	h.states = append(h.states[:h.index+1:h.index+1], state)
	if over := len(h.states) - maxHistory; over > 0 {
		h.states = h.states[over:]
		h.saved -= over
		if h.saved < 0 {
			h.saved = -1
		}
	}
	h.index = len(h.states) - 1
}

func (h *history) undo() ([]byte, bool) {
	if h.index == 0 {
		return nil, false
	}
	h.index--
	return h.states[h.index], true
}

func (h *history) redo() ([]byte, bool) {
	if h.index+1 >= len(h.states) {
		return nil, false
	}
	h.index++
	return h.states[h.index], true
}

func (h *history) markSaved() { h.saved = h.index }

// clean reports whether the current state is the one on disk.
func (h *history) clean() bool { return h.saved == h.index }
