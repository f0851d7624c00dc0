// Package core implements the three-stage concurrent pipeline that moves
// a paste from "freshly scraped" to "action executed".
//
// The scraping manager runs one goroutine per scrape source and feeds
// every produced paste into the paste queue. The dispatcher drains that
// queue, evaluates every registered matcher against each paste, and
// enqueues one action invocation per bound action for every hit. The
// action runner drains the invocation queue and executes the actions.
//
// The orchestrator wires the stages together, owns the two queues and
// the shared fault signal, and exposes the lifecycle: Start, Stop, and a
// blocking Idle that waits for a termination signal or a fault. Only
// source faults are fatal; matcher and action failures are logged and
// recovered in place.
package core
