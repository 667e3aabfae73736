// Package tasks implements the guest and organizer workflows on top of [models.RequestStore].
//
// # Guest Submissions
//
// [Submissions.Submit] validates a track URI and inserts a pending request. The store rejects a URI that is
// already present, so two guests proposing the same track produce exactly one entry.
//
// # Organizer Actions
//
// [AdminGateway] exposes the review lifecycle:
//
//  1. [AdminGateway.Confirm] : pending to confirmed, records confirmedAt once
//  2. [AdminGateway.MarkManualAdded] : records manualAddedAt once, independent of status
//  3. [AdminGateway.Delete] : removes the request for good
//
// Each action is a single [models.RequestStore.Transition] or Delete call, so concurrent actions on the
// same request never lose an update. Repeating Confirm or MarkManualAdded succeeds without changing the
// stored timestamps.
//
// [AdminGateway.Export] renders the request list with package formatter for adding tracks by hand.
package tasks
