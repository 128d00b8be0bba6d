// Package harness runs YAML conformance scenarios against scripts.
//
// A scenario names a script, the lines its Ask boxes will read, and what
// the run must produce:
//
//	name: greeting
//	description: Ask feeds Concat and Print
//	script: greet.vls
//	stdin: ["Ada"]
//	expect:
//	  stdout: "name? Hi Ada\n"
//	assertions:
//	  - type: event_count
//	    stream: in
//	    count: 1
//
// Every run is deterministic: the random seed defaults to 1, the run id is
// fixed, and the console transcript is journaled to an in-memory store and
// read back in logical clock order. That transcript, serialized as
// canonical JSON, is what golden files hold.
package harness
