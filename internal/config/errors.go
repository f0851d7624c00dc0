package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate()
// and provide specific information about what is wrong.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Rule errors that need the offending rule name
// are wrapped with fmt.Errorf("%w: ...") so errors.Is() still works.
var (
	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPollInterval is returned when the archive poll interval
	// is not positive. Zero would poll the paste site in a tight loop.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be positive")

	// ErrInvalidFetchDelay is returned when the fetch delay is negative.
	// A negative delay is invalid; use 0 for no delay between downloads.
	ErrInvalidFetchDelay = errors.New("invalid fetch delay: must be non-negative")

	// ErrStoreAllWithoutDB is returned when --store-all is requested but
	// no database directory is configured to store into.
	ErrStoreAllWithoutDB = errors.New("store-all requires a database: set --db-dir")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNothingToDo is returned when a watch run has no matchers and
	// store-all is off. Every scraped paste would be discarded.
	ErrNothingToDo = errors.New("nothing to do: define matchers in the rule file or enable --store-all")

	// ErrUnknownMatcherType is returned for a matcher rule whose type is
	// not one of "word", "regex", or "always".
	ErrUnknownMatcherType = errors.New("unknown matcher type")

	// ErrUnknownActionType is returned for an action rule whose type is
	// not one of "save_file", "store", or "log".
	ErrUnknownActionType = errors.New("unknown action type")

	// ErrNoWords is returned for a word matcher with an empty word list.
	ErrNoWords = errors.New("word matcher needs at least one word")

	// ErrNoPattern is returned for a regex matcher without a pattern.
	ErrNoPattern = errors.New("regex matcher needs a pattern")

	// ErrNoActions is returned for a matcher rule with no bound actions.
	// A matcher that triggers nothing is a configuration mistake.
	ErrNoActions = errors.New("matcher has no actions bound")
)
