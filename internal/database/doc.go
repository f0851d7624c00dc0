// Package database provides SQLite-backed persistence for pastes and
// match records. It is the concrete backend behind the store and record
// actions and the data source for the report command.
package database
