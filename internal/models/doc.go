// Package models defines the domain entities of the playlist request service.
//
// The package contains two categories of types:
//
// 1. Catalog DTOs: lightweight structs describing tracks returned by search
//   - [TrackSummary] : normalized search result (Spotify or local dataset)
//   - [TrackSnapshot] : display metadata captured with a request
//
// 2. Persistent entities
//   - [TrackRequest] : a guest's song proposal, keyed by catalog URI
//
// A TrackRequest moves through a two-axis lifecycle: [StatusPending] to [StatusConfirmed] (forward only),
// and an independent "manually added" flag set once by the organizer.
// Deletion removes the entity; there is no deleted status.
//
// The [RequestStore] interface defines the persistence contract implemented in package repositories.
package models
