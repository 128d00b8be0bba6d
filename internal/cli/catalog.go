package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vls/internal/graph"
)

// KindView is the JSON form of a catalog entry.
type KindView struct {
	Tag      string     `json:"tag"`
	Title    string     `json:"title"`
	Family   string     `json:"family"`
	Color    string     `json:"color"`
	Settable bool       `json:"settable"`
	Help     string     `json:"help"`
	Ports    []PortView `json:"ports"`
}

// PortView describes one port of a kind.
type PortView struct {
	Name        string `json:"name"`
	Direction   string `json:"direction"`
	Description string `json:"description"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [tag]",
		Short: "List box kinds",
		Long: `List every box kind with its family and title, or show one kind's
ports and help.

Examples:
  vls catalog
  vls catalog Substring
  vls catalog --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCatalog(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	kinds := graph.Kinds()
	if len(args) == 1 {
		k, ok := graph.KindByTag(args[0])
		if !ok {
			_ = formatter.Error("UNKNOWN_KIND", fmt.Sprintf("unknown box kind %q", args[0]), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown box kind %q", args[0]))
		}
		kinds = []graph.Kind{k}
	}

	if formatter.Format == "json" {
		views := make([]KindView, 0, len(kinds))
		for _, k := range kinds {
			views = append(views, kindView(k))
		}
		return formatter.Success(views)
	}

	w := formatter.Writer
	if len(args) == 1 {
		k := kinds[0]
		h := k.Help()
		fmt.Fprintf(w, "%s (%s, %s)\n%s\n", h.Title, k, k.Family(), h.Content)
		return nil
	}
	for _, k := range kinds {
		fmt.Fprintf(w, "%-12s %-9s %s\n", k, k.Family(), k.Title())
	}
	return nil
}

func kindView(k graph.Kind) KindView {
	v := KindView{
		Tag:      k.String(),
		Title:    k.Title(),
		Family:   k.Family().String(),
		Color:    string(k.Color()),
		Settable: k.Settable(),
		Help:     k.Help().Content,
	}
	for _, n := range graph.NewBox(k).Nodes() {
		v.Ports = append(v.Ports, PortView{
			Name:        n.Name(),
			Direction:   n.Direction().String(),
			Description: n.Description(),
		})
	}
	return v
}
