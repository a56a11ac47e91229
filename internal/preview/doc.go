// Package preview serves a built site and rebuilds it when its source
// changes.
//
// Local sources are watched with fsnotify; bursts of events are debounced
// into a single rebuild. Remote sources can instead be rebuilt on a fixed
// interval. All rebuilds run on one worker so at most one build is in
// flight and at most one is queued.
package preview
