// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [BrowseView] : Characters listed by the Marvel API
//  2. [SavedView] : Saved characters, kept live by the store's change stream
//  3. [DetailView] : One character with its favorite toggle
//
// The detail and saved views are driven by the viewmodels package; the [Model] only translates
// their state changes into bubbletea messages (the Msg union type) and renders them.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, tab, f, d, esc, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
