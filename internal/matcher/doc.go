// Package matcher defines the rules that decide whether a scraped paste
// is interesting and which actions it should trigger.
//
// A matcher is a pure function of the paste content and its own
// configuration. Evaluating the same paste twice yields the same result,
// and matchers carry no mutable state across evaluations, so the
// dispatch stage may evaluate one matcher against pastes from several
// sources without additional locking.
package matcher
