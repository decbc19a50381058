// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ReviewBackend: Lists ayahs and invokes split/approve actions
//   - JournalStore: Operator journal persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EventSource: Live push notifications. Without it, the view only
//     refreshes after local actions.
//   - AudioProbe: Clip duration. Without it, the split modal cannot scrub.
//   - AudioPlayer: Clip playback. Without it, playback keys are inert.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
