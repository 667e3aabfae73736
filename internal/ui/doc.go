// Package ui renders organizer-facing terminal output with lipgloss styles.
//
// [Palette] holds the named styles; [Palette.RequestsTable] lays out the request list for
// `playlistd requests list`.
package ui
