// Package report prints elapsed-time checkpoints for long build logs.
//
// Each run measures two intervals ending at "now": one since the marker
// file was last touched and one since the caller's start time. It then
// touches the marker so the next run measures the next section.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/timestamp/internal/config"
	"github.com/alexander-akhmetov/timestamp/internal/elapsed"
	"github.com/alexander-akhmetov/timestamp/internal/marker"
)

var (
	// ErrUsage is returned when required arguments are missing.
	ErrUsage = errors.New("usage")
	// ErrMalformedStart is returned when the start time is not a decimal integer.
	ErrMalformedStart = errors.New("malformed start time")
	// ErrMarkerMissing is returned when the marker's mtime cannot be read.
	ErrMarkerMissing = errors.New("marker file not readable")
	// ErrMarkerUpdate is returned when the marker's mtime cannot be set.
	ErrMarkerUpdate = errors.New("marker file not updated")
)

// Checkpoint is the result of one run.
type Checkpoint struct {
	Start       int64  // caller-supplied start time
	Last        int64  // marker mtime before the update
	Now         int64  // sampled current time, also the new marker mtime
	Description string // description words joined by single spaces
}

// SinceLast returns the seconds elapsed since the previous checkpoint.
func (c Checkpoint) SinceLast() int64 {
	return c.Now - c.Last
}

// SinceStart returns the seconds elapsed since the start time.
func (c Checkpoint) SinceStart() int64 {
	return c.Now - c.Start
}

// Reporter measures and prints checkpoints.
type Reporter struct {
	cfg    *config.Config
	marker *marker.File
	clock  Clock
	out    io.Writer
	log    zerolog.Logger
}

// Options configures a Reporter. Zero fields get production defaults,
// except Config and Marker which are required.
type Options struct {
	Config *config.Config
	Marker *marker.File
	Clock  Clock
	Out    io.Writer
	Logger *zerolog.Logger
}

// New creates a Reporter.
func New(opts Options) *Reporter {
	r := &Reporter{
		cfg:    opts.Config,
		marker: opts.Marker,
		clock:  opts.Clock,
		out:    opts.Out,
		log:    zerolog.Nop(),
	}
	if r.clock == nil {
		r.clock = RealClock{}
	}
	if r.out == nil {
		r.out = io.Discard
	}
	if opts.Logger != nil {
		r.log = *opts.Logger
	}
	return r
}

// ParseStart parses a decimal integer count of seconds since the epoch.
// Surrounding whitespace and a leading sign are accepted.
func ParseStart(s string) (int64, error) {
	start, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrMalformedStart, s, err)
	}
	return start, nil
}

// Run records a checkpoint and writes it to the output.
// The marker is read before now is sampled and touched before anything
// is printed, so a failed update produces no output.
func (r *Reporter) Run(startTime string, desc []string) (Checkpoint, error) {
	start, err := ParseStart(startTime)
	if err != nil {
		return Checkpoint{}, err
	}

	last, err := r.marker.ModTime()
	if err != nil {
		return Checkpoint{}, fmt.Errorf("%w: %w", ErrMarkerMissing, err)
	}

	now := elapsed.Unix(r.clock.Now())
	if err := r.marker.Touch(now); err != nil {
		return Checkpoint{}, fmt.Errorf("%w: %w", ErrMarkerUpdate, err)
	}

	cp := Checkpoint{
		Start:       start,
		Last:        last,
		Now:         now,
		Description: strings.Join(desc, " "),
	}

	r.log.Debug().
		Str("marker", r.marker.Path()).
		Int64("start", start).
		Int64("last", last).
		Int64("now", now).
		Msg("checkpoint")
	if last > now {
		r.log.Debug().Int64("skew", last-now).Msg("marker is newer than the current time")
	}

	if err := r.write(cp); err != nil {
		return cp, fmt.Errorf("write checkpoint: %w", err)
	}
	return cp, nil
}

func (r *Reporter) write(cp Checkpoint) error {
	if r.cfg.Format == config.FormatJSON {
		return r.writeJSON(cp)
	}
	_, err := io.WriteString(r.out, FormatText(r.cfg, cp))
	return err
}

// FormatText renders the two checkpoint lines:
//
//	((((( <since last> )))))
//	<since start> <description centered with fill>
func FormatText(cfg *config.Config, cp Checkpoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", cfg.Checkpoint.Open, elapsed.Since(cp.Last, cp.Now), cfg.Checkpoint.Close)
	banner := elapsed.Banner(cp.Description, cfg.Banner.Width, cfg.FillRune())
	fmt.Fprintf(&b, "%s %s\n", elapsed.Since(cp.Start, cp.Now), banner)
	return b.String()
}

// FormatJSON renders the checkpoint as a single JSON object.
func FormatJSON(cp Checkpoint) (string, error) {
	var (
		js  = "{}"
		err error
	)
	fields := []struct {
		path  string
		value any
	}{
		{"since_last", strings.TrimSpace(elapsed.Since(cp.Last, cp.Now))},
		{"since_last_seconds", cp.SinceLast()},
		{"since_start", strings.TrimSpace(elapsed.Since(cp.Start, cp.Now))},
		{"since_start_seconds", cp.SinceStart()},
		{"description", cp.Description},
		{"now", cp.Now},
	}
	for _, f := range fields {
		js, err = sjson.Set(js, f.path, f.value)
		if err != nil {
			return "", fmt.Errorf("set %s: %w", f.path, err)
		}
	}
	return js, nil
}

func (r *Reporter) writeJSON(cp Checkpoint) error {
	js, err := FormatJSON(cp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, js)
	return err
}
