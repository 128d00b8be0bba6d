package graph

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/vls/internal/value"
)

// Script text format, one item per line:
//
//	<box count>
//	<tag>                  repeated per box, in script order
//	<x>
//	<y>
//	[<payload>]            literal text, or the portal name
//	<node line>            repeated per box, then per node in declared order:
//	                       a client node writes its target's server id or an
//	                       empty line; a server node writes its own id
//
// Server ids are regenerated on load, so only the link topology
// survives a round trip.

type serializeConfig struct {
	seq *IDSequence
}

// SerializeOption configures Serialize and Marshal.
type SerializeOption func(*serializeConfig)

// WithSequentialIDs writes server ids ...0001, ...0002 and so on in script
// order instead of the ids the nodes hold. Output then depends only on the
// script's content. The script itself is not changed.
func WithSequentialIDs() SerializeOption {
	return func(c *serializeConfig) {
		c.seq = NewIDSequence()
	}
}

// Serialize writes s in the script text format.
func (s *Script) Serialize(w io.Writer, opts ...SerializeOption) error {
	var cfg serializeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	idOf := func(id uuid.UUID) uuid.UUID { return id }
	if cfg.seq != nil {
		ids := renumber(s, cfg.seq)
		idOf = func(id uuid.UUID) uuid.UUID { return ids[id] }
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, len(s.boxes))
	for _, b := range s.boxes {
		fmt.Fprintln(bw, b.kind.String())
		fmt.Fprintln(bw, formatCoord(b.x))
		fmt.Fprintln(bw, formatCoord(b.y))
		if payload, ok := b.payload(); ok {
			fmt.Fprintln(bw, payload)
		}
	}

	for _, b := range s.boxes {
		for i, n := range b.nodes {
			if n.IsServer() {
				fmt.Fprintln(bw, idOf(n.id).String())
				continue
			}
			ref, ok := n.Link()
			if !ok {
				fmt.Fprintln(bw)
				continue
			}
			id, err := s.serverID(ref)
			if err != nil {
				return fmt.Errorf("%s port %d: %w", b, i, err)
			}
			fmt.Fprintln(bw, idOf(id).String())
		}
	}
	return bw.Flush()
}

// Marshal returns the script text of s.
func Marshal(s *Script, opts ...SerializeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Serialize(&buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Script) serverID(ref PortRef) (uuid.UUID, error) {
	tb, ok := s.byID[ref.Box]
	if !ok {
		return uuid.Nil, fmt.Errorf("link to box %d: %w", ref.Box, ErrNoSuchBox)
	}
	n, ok := tb.Node(ref.Port)
	if !ok || !n.IsServer() {
		return uuid.Nil, fmt.Errorf("link to %s port %d: %w", tb, ref.Port, ErrBadPort)
	}
	return n.id, nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// payload returns the type-specific line of b, written as-is. Random
// boxes have none.
func (b *Box) payload() (string, bool) {
	switch {
	case b.kind.HasName():
		return b.name, true
	case b.kind.HasLiteral():
		return b.literal.String(), true
	}
	return "", false
}

// Deserialize reads the script text format in two passes: boxes first,
// then node lines, resolving client ids against the server ids read in
// the same file.
func Deserialize(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses script text.
func Unmarshal(data []byte) (*Script, error) {
	lr := newLineReader(string(data))
	s := NewScript()

	line, err := lr.next("box count")
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || count < 0 {
		return nil, &LoadError{Line: lr.n, Code: ErrLoadCount, Message: fmt.Sprintf("invalid box count %q", line), Err: err}
	}

	for range count {
		b, err := readBox(lr)
		if err != nil {
			return nil, err
		}
		if _, err := s.Add(b); err != nil {
			return nil, err
		}
	}

	type pending struct {
		from PortRef
		id   uuid.UUID
		line int
	}
	servers := make(map[uuid.UUID]PortRef)
	var links []pending

	for _, b := range s.boxes {
		for i, n := range b.nodes {
			line, err := lr.next(fmt.Sprintf("node %d of %s", i, b))
			if err != nil {
				return nil, err
			}
			line = strings.TrimSpace(line)
			if n.IsClient() && line == "" {
				continue
			}
			id, err := uuid.Parse(line)
			if err != nil {
				return nil, &LoadError{Line: lr.n, Code: ErrLoadID, Message: fmt.Sprintf("invalid node id %q", line), Err: err}
			}
			ref := PortRef{Box: b.id, Port: i}
			if n.IsClient() {
				links = append(links, pending{from: ref, id: id, line: lr.n})
				continue
			}
			if _, dup := servers[id]; dup {
				return nil, &LoadError{Line: lr.n, Code: ErrLoadID, Message: fmt.Sprintf("duplicate server id %s", id)}
			}
			servers[id] = ref
		}
	}

	for _, p := range links {
		to, ok := servers[p.id]
		if !ok {
			return nil, &LoadError{Line: p.line, Code: ErrLoadUnresolved, Message: fmt.Sprintf("no server node with id %s", p.id)}
		}
		if err := s.Link(p.from, to); err != nil {
			return nil, &LoadError{Line: p.line, Code: ErrLoadUnresolved, Message: err.Error(), Err: err}
		}
	}
	return s, nil
}

func readBox(lr *lineReader) (*Box, error) {
	tag, err := lr.next("box type")
	if err != nil {
		return nil, err
	}
	tag = strings.TrimSpace(tag)
	k, ok := KindByTag(tag)
	if !ok {
		return nil, &LoadError{Line: lr.n, Code: ErrLoadTag, Message: fmt.Sprintf("unknown box type %q", tag)}
	}
	b := NewBox(k)

	if b.x, err = readCoord(lr, "x"); err != nil {
		return nil, err
	}
	if b.y, err = readCoord(lr, "y"); err != nil {
		return nil, err
	}

	if !k.HasName() && !k.HasLiteral() {
		return b, nil
	}
	raw, err := lr.next(tag + " payload")
	if err != nil {
		return nil, err
	}
	if k.info().fixed {
		v, err := value.FromString(b.literal.Kind(), raw)
		if err != nil || !v.IsEqualTo(b.literal) {
			return nil, &LoadError{Line: lr.n, Code: ErrLoadPayload, Message: fmt.Sprintf("%s box cannot hold %q", tag, raw), Err: err}
		}
		return b, nil
	}
	if err := b.setPayload(raw); err != nil {
		return nil, &LoadError{Line: lr.n, Code: ErrLoadPayload, Message: err.Error(), Err: err}
	}
	return b, nil
}

func readCoord(lr *lineReader, what string) (float64, error) {
	line, err := lr.next(what)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, &LoadError{Line: lr.n, Code: ErrLoadPosition, Message: fmt.Sprintf("invalid %s coordinate %q", what, line), Err: err}
	}
	return f, nil
}

// lineReader yields lines with CR/LF stripped and tracks the 1-based
// number of the last line returned.
type lineReader struct {
	lines []string
	n     int
}

func newLineReader(text string) *lineReader {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &lineReader{lines: lines}
}

func (lr *lineReader) next(what string) (string, error) {
	if lr.n >= len(lr.lines) {
		return "", &LoadError{Line: lr.n + 1, Code: ErrLoadTruncated, Message: "unexpected end of script, expected " + what}
	}
	lr.n++
	return lr.lines[lr.n-1], nil
}
