package graph

import (
	"github.com/google/uuid"
)

// BoxID is a stable handle to a box inside a Script. Zero means the box
// has not been added to a script.
type BoxID int

// PortRef addresses a port by owning box and index into the box's Nodes.
type PortRef struct {
	Box  BoxID
	Port int
}

// Direction distinguishes input ports from output ports.
type Direction int

const (
	// Client ports are inputs. Each holds at most one link.
	Client Direction = iota

	// Server ports are outputs. Any number of client ports may link to one.
	Server
)

func (d Direction) String() string {
	if d == Server {
		return "server"
	}
	return "client"
}

// Node is a port owned by exactly one Box.
//
// A server node carries an identifier used only by the text format. It is
// regenerated whenever a box is constructed, cloned or loaded. A client
// node carries an optional link to a server node.
type Node struct {
	name        string
	description string
	dir         Direction
	id          uuid.UUID
	link        *PortRef
}

func (n Node) Name() string { return n.name }
func (n Node) Description() string { return n.description }
func (n Node) Direction() Direction { return n.dir }
func (n Node) IsClient() bool { return n.dir == Client }
func (n Node) IsServer() bool { return n.dir == Server }

// ID returns the server node identifier. It is uuid.Nil for client nodes.
func (n Node) ID() uuid.UUID { return n.id }

// Link returns the server port a client node points to.
func (n Node) Link() (PortRef, bool) {
	if n.link == nil {
		return PortRef{}, false
	}
	return *n.link, true
}
