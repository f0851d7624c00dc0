// Package action defines the side-effecting handlers invoked when a
// matcher reports a hit, plus the built-in implementations: saving the
// paste to a file, storing it in the database, and logging the match.
//
// Actions are stateless given their configuration. A failing action is
// the caller's problem: the action stage catches, logs, and moves on, so
// one misbehaving action cannot stall the pipeline.
package action
