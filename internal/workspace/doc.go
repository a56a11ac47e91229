// Package workspace manages the scratch directories remote sources are
// checked out into.
//
// Ephemeral workspaces get a unique directory per build and are removed by
// Cleanup. Persistent workspaces use a fixed path that survives across
// builds so that watch and preview rebuilds can update a checkout in place.
package workspace
