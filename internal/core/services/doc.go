// Package services implements the driving port interfaces.
//
// ReviewService owns the snapshot of the backend listing and the actions
// taken on it. LiveService applies pushed events on top of that snapshot,
// PlaybackService resolves media and drives the audio tooling, and
// HistoryService reads back the local journal. Services only talk to
// driven ports, never to concrete adapters.
package services
