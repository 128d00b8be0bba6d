package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/vls/internal/graph"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// Commands drive a Session from text lines, one command per line. It backs
// `vls edit`.
type Commands struct {
	session *Session
	console graph.Console
	out     io.Writer
}

// NewCommands binds a command interpreter to a session. Command output goes
// to out; the run command uses con for the script's console.
func NewCommands(s *Session, con graph.Console, out io.Writer) *Commands {
	return &Commands{session: s, console: con, out: out}
}

type command struct {
	usage string
	short string
	run   func(c *Commands, ctx context.Context, args string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ls":      {"ls", "list boxes", (*Commands).list},
		"palette": {"palette", "list box kinds", (*Commands).palette},
		"help":    {"help [Tag]", "show commands or a box kind's help", (*Commands).help},
		"add":     {"add <Tag> [x y]", "add a box from the palette", (*Commands).add},
		"clone":   {"clone <id>", "copy a box without links", (*Commands).clone},
		"rm":      {"rm <id>", "remove a box and links into it", (*Commands).remove},
		"mv":      {"mv <id> <x> <y>", "move a box", (*Commands).move},
		"link":    {"link <id>.<Port> <id>.<Port>", "link a client port to a server port", (*Commands).link},
		"unlink":  {"unlink <id>.<Port>", "clear a client port", (*Commands).unlink},
		"set":     {"set <id> <text>", "set a literal or name; text is the rest of the line", (*Commands).set},
		"clean":   {"clean", "remove boxes unreachable from any event", (*Commands).clean},
		"undo":    {"undo", "revert the last edit; box ids are renumbered", (*Commands).undo},
		"redo":    {"redo", "reapply the last undone edit", (*Commands).redo},
		"check":   {"check", "report structural problems", (*Commands).check},
		"run":     {"run", "trigger every Start box", (*Commands).run},
		"save":    {"save [path]", "write the script", (*Commands).save},
		"quit":    {"quit", "leave the editor", func(*Commands, context.Context, string) error { return ErrQuit }},
	}
}

// Exec runs one command line. Blank lines and lines starting with # are
// ignored.
func (c *Commands) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	name, args, _ := strings.Cut(line, " ")
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return cmd.run(c, ctx, strings.TrimSpace(args))
}

func (c *Commands) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Commands) list(_ context.Context, _ string) error {
	for _, b := range c.session.Script().Boxes() {
		c.printf("%d\t%s\t(%s, %s)", b.ID(), b.Kind(), fmtCoord(b.X()), fmtCoord(b.Y()))
		if text, ok := b.ValueText(); ok {
			c.printf("\t%q", text)
		}
		for _, n := range b.Nodes() {
			if ref, ok := n.Link(); ok {
				target, _ := c.session.Script().Box(ref.Box)
				out, _ := target.Node(ref.Port)
				c.printf("\t%s<-%d.%s", n.Name(), ref.Box, out.Name())
			}
		}
		c.printf("\n")
	}
	return nil
}

func (c *Commands) palette(_ context.Context, _ string) error {
	for _, t := range c.session.Palette() {
		c.printf("%-12s %-9s %s\n", t.Kind(), t.Kind().Family(), t.Title())
	}
	return nil
}

func (c *Commands) help(_ context.Context, args string) error {
	if args != "" {
		k, ok := graph.KindByTag(args)
		if !ok {
			return fmt.Errorf("unknown box kind %q", args)
		}
		h := k.Help()
		c.printf("%s\n%s\n", h.Title, h.Content)
		return nil
	}
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		c.printf("%-30s %s\n", cmd.usage, cmd.short)
	}
	return nil
}

func (c *Commands) add(_ context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 1 && len(fields) != 3 {
		return errors.New("usage: add <Tag> [x y]")
	}
	k, ok := graph.KindByTag(fields[0])
	if !ok {
		return fmt.Errorf("unknown box kind %q", fields[0])
	}
	var x, y float64
	if len(fields) == 3 {
		var err error
		if x, y, err = parseXY(fields[1], fields[2]); err != nil {
			return err
		}
	}
	b, err := c.session.Add(k, x, y)
	if err != nil {
		return err
	}
	c.printf("%d\n", b.ID())
	return nil
}

func (c *Commands) clone(_ context.Context, args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	b, err := c.session.Clone(id)
	if err != nil {
		return err
	}
	c.printf("%d\n", b.ID())
	return nil
}

func (c *Commands) remove(_ context.Context, args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	return c.session.Remove(id)
}

func (c *Commands) move(_ context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return errors.New("usage: mv <id> <x> <y>")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return err
	}
	x, y, err := parseXY(fields[1], fields[2])
	if err != nil {
		return err
	}
	return c.session.Move(id, x, y)
}

func (c *Commands) link(_ context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return errors.New("usage: link <id>.<Port> <id>.<Port>")
	}
	to, in, err := parsePort(fields[0])
	if err != nil {
		return err
	}
	from, out, err := parsePort(fields[1])
	if err != nil {
		return err
	}
	return c.session.Link(to, in, from, out)
}

func (c *Commands) unlink(_ context.Context, args string) error {
	to, in, err := parsePort(args)
	if err != nil {
		return err
	}
	return c.session.Unlink(to, in)
}

func (c *Commands) set(_ context.Context, args string) error {
	// "set 3" alone sets an empty text.
	idText, text, _ := strings.Cut(args, " ")
	id, err := parseID(idText)
	if err != nil {
		return err
	}
	return c.session.SetValue(id, text)
}

func (c *Commands) clean(_ context.Context, _ string) error {
	removed := c.session.Clean()
	c.printf("removed %d boxes\n", len(removed))
	return nil
}

func (c *Commands) undo(_ context.Context, _ string) error {
	return c.session.Undo()
}

func (c *Commands) redo(_ context.Context, _ string) error {
	return c.session.Redo()
}

func (c *Commands) check(_ context.Context, _ string) error {
	problems := graph.Problems(graph.Validate(c.session.Script()))
	for _, p := range problems {
		c.printf("%s\n", p.Error())
	}
	if len(problems) == 0 {
		c.printf("ok\n")
	}
	return nil
}

func (c *Commands) run(ctx context.Context, _ string) error {
	_, err := c.session.Run(ctx, c.console)
	return err
}

func (c *Commands) save(_ context.Context, args string) error {
	if args != "" {
		return c.session.SaveAs(args)
	}
	return c.session.Save()
}

func parseID(text string) (graph.BoxID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("bad box id %q", text)
	}
	return graph.BoxID(n), nil
}

func parseXY(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y %q", ys)
	}
	return x, y, nil
}

// parsePort splits "3.Value" into box 3 and port "Value".
func parsePort(text string) (graph.BoxID, string, error) {
	idText, port, ok := strings.Cut(text, ".")
	if !ok || port == "" {
		return 0, "", fmt.Errorf("bad port %q, want <id>.<Port>", text)
	}
	id, err := parseID(idText)
	if err != nil {
		return 0, "", err
	}
	return id, port, nil
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
