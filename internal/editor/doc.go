// Package editor is a headless script editor.
//
// A Session owns one script and the file it came from. Opening never fails:
// an unreadable or malformed file yields an empty script and a warning, so
// a broken file can be rebuilt and saved over. This is the opposite of the
// runner, which refuses to run a script it cannot load.
//
// Commands wraps a Session in a line-oriented command set used by
// `vls edit`; each command maps onto one Session method.
package editor
