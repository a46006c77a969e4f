// Package seed implements the gallery sync driver: it collects dress records
// from JSON or gallery HTML, posts them to the backend seed endpoint and can
// keep re-seeding as gallery pages change.
package seed

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
)

// Options configures one sync invocation.
type Options struct {
	Token    string
	File     string
	APIBase  string
	Dir      string
	Files    []string
	Watch    bool
	Debounce time.Duration
}

// State is the driver's lifecycle phase.
type State int32

const (
	StateCollectingInput State = iota
	StateValidated
	StateDelivering
	StateIdle
	StateWatching
)

func (s State) String() string {
	switch s {
	case StateCollectingInput:
		return "collecting-input"
	case StateValidated:
		return "validated"
	case StateDelivering:
		return "delivering"
	case StateIdle:
		return "idle"
	case StateWatching:
		return "watching"
	}
	return "unknown"
}

// Seeder delivers a record set.
type Seeder interface {
	Seed(ctx context.Context, dresses []json.RawMessage) (Result, error)
	URL() string
}

// Driver runs one sync invocation. The record set it delivers is owned by
// the goroutine executing Run; watch events are handled on that goroutine
// one at a time, so deliveries never overlap.
type Driver struct {
	opts    Options
	seeder  Seeder
	state   atomic.Int32
	dresses []json.RawMessage
}

// NewDriver creates a driver delivering through seeder.
func NewDriver(opts Options, seeder Seeder) *Driver {
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	return &Driver{opts: opts, seeder: seeder}
}

// State returns the current lifecycle phase.
func (d *Driver) State() State {
	return State(d.state.Load())
}

func (d *Driver) setState(s State) {
	d.state.Store(int32(s))
	logger.Debug("sync state", "state", s.String())
}

// Run performs the initial sync and, in watch mode, blocks re-syncing on
// file changes until ctx is cancelled. Fatal failures are *ExitError.
func (d *Driver) Run(ctx context.Context) error {
	if d.opts.Token == "" {
		return &ExitError{Code: ExitMissingToken, Err: ErrMissingToken}
	}

	d.setState(StateCollectingInput)
	input, err := ResolveInput(d.opts)
	if err != nil {
		return err
	}
	if len(input.Dresses) == 0 {
		return exitf(ExitNoDresses, ErrNoDresses, "")
	}
	d.dresses = input.Dresses
	d.setState(StateValidated)

	d.setState(StateDelivering)
	if err := d.deliver(ctx); err != nil {
		return &ExitError{Code: ExitDeliveryFailed, Err: err}
	}

	if !d.opts.Watch {
		d.setState(StateIdle)
		return nil
	}
	if len(input.Files) == 0 {
		logger.Warn("watch mode needs HTML input, nothing to watch", "source", input.Source)
		d.setState(StateIdle)
		return nil
	}

	return d.watch(ctx, input.Files)
}

// deliver posts the current record set. HTTP error statuses are logged;
// only transport failures are returned.
func (d *Driver) deliver(ctx context.Context) error {
	logger.Info("posting dresses", "count", len(d.dresses), "url", d.seeder.URL())
	res, err := d.seeder.Seed(ctx, d.dresses)
	if err != nil {
		logger.Error("request failed", "error", err)
		return err
	}
	if res.OK() {
		logger.Info("response", "status", res.StatusCode, "body", res.Body)
	} else {
		logger.Warn("seed endpoint returned an error status", "status", res.StatusCode, "body", res.Body)
	}
	return nil
}

// resync re-extracts one changed file and, if it yields anything, replaces
// the whole record set with its dresses and delivers again. Records from
// other input files are not kept.
func (d *Driver) resync(ctx context.Context, path string) {
	log := logger.With("file", path)
	log.Info("file changed, reparsing and syncing")

	records, err := ExtractFile(path)
	if err != nil {
		log.Warn("watch sync failed", "error", err)
		return
	}
	if len(records) == 0 {
		log.Warn("no dresses in changed file, keeping previous seed")
		return
	}
	dresses, err := EncodeRecords(records)
	if err != nil {
		log.Warn("watch sync failed", "error", err)
		return
	}
	d.dresses = dresses

	d.setState(StateDelivering)
	if err := d.deliver(ctx); err != nil {
		log.Warn("watch sync failed", "error", err)
	}
	d.setState(StateWatching)
}
