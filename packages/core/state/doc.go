// Package state holds the process-wide execution state for restmd.
//
// State is an immutable value. It is only ever replaced as a whole through
// Store.Update, which serializes writers so counter advances are never lost.
package state
