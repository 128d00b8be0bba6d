// Package graph implements the box graph: ports, the box catalog, the
// pull-based interpreter, the script text format and AutoClean.
//
// A Script is an arena of boxes addressed by BoxID. Each box owns an
// ordered list of Nodes fixed by its Kind. Client nodes (inputs) hold at
// most one PortRef to a server node (output) of another box; many client
// nodes may share one server node.
//
// Evaluation pulls: asking a client node for its value evaluates the box
// behind the linked server node, which in turn pulls its own inputs. There
// is no cache, so side effects fire once per pulled edge. One call argument
// is threaded through every pull; Call replaces it for its target and
// CallValue reads it.
//
// Fatal conditions are returned as *EvalError and abort the run.
package graph
