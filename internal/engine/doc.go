// Package engine runs scripts.
//
// A Runner fires every Start box of a script in script order, each with a
// Null argument, on a single goroutine. Evaluation itself lives in
// internal/graph; the engine adds what a run needs around it:
//
//   - Loading: Load reads and parses a script file. Any failure is fatal
//     (LOAD_FAILED). The editor, not the runner, degrades to an empty script.
//   - Consoles: StdConsole for a process's stdin/stdout, BufferConsole for
//     tests and the scenario harness.
//   - Randomness: Random boxes draw from a PCG source seeded per run. A zero
//     seed is replaced by a random one, which is reported in the Result.
//   - Journal: with WithJournal, each run gets a UUIDv7 id and its console
//     transcript is written to the store, ordered by a logical Clock.
//
// The first error ends the run and is returned as a *RunError wrapping the
// graph error, so graph.IsCastError and friends work on it directly.
//
// Cancellation: the context is checked before each Start box and after
// every While iteration. Nothing else interrupts a running box; console
// reads block.
package engine
