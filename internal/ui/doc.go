// Package ui renders the interactive branch picker.
//
// Model is a bubbletea model driven by a periodic tick: key presses are dispatched
// to the session while browsing, and each tick performs one deletion step while
// deleting. RenderSummary describes the outcome once the program exits.
// CommandEventLogger forwards git command lifecycle events to the log.
package ui
