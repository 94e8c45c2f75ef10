// Package session implements the user-invocable operations of restmd.
//
// A Session ties an editor host to a pipeline runner and the shared
// execution state. Every operation returns a Status whose Message is the
// text shown to the user. Operations never panic and never return a bare
// error: failures become "Error: ..." messages.
package session
