package conceptev

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultPollAttempts is the default attempt budget of PollResults.
	DefaultPollAttempts = 200

	// DefaultPollInterval is the pause after every PollResults attempt.
	DefaultPollInterval = 300 * time.Millisecond
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type pollOptions struct {
	calculateUnits bool
	maxAttempts    int
	interval       time.Duration
	sleep          Sleeper
}

// PollOption customizes PollResults.
type PollOption func(*pollOptions)

// WithCalculateUnits sets the calculate_units query parameter. Default: true.
func WithCalculateUnits(calculate bool) PollOption {
	return func(o *pollOptions) { o.calculateUnits = calculate }
}

// WithMaxAttempts sets the attempt budget. Default: DefaultPollAttempts.
func WithMaxAttempts(n int) PollOption {
	return func(o *pollOptions) { o.maxAttempts = n }
}

// WithInterval sets the pause after each attempt. Default: DefaultPollInterval.
func WithInterval(d time.Duration) PollOption {
	return func(o *pollOptions) { o.interval = d }
}

// WithSleeper replaces the function used to pause between attempts.
func WithSleeper(sleep Sleeper) PollOption {
	return func(o *pollOptions) { o.sleep = sleep }
}

// PollResults waits for the results of a started job.
//
// It reads the data format version once to pick the results file name,
// then posts jobInfo to /jobs:result until the API answers 200 or the
// attempt budget is spent. Every attempt is followed by a fixed pause, even
// the successful one. Any status other than 200, including server errors,
// counts as "not ready yet"; only transport failures and ctx cancellation
// end polling early.
func (s *Session) PollResults(ctx context.Context, jobInfo JobInfo, opts ...PollOption) (*Response, error) {
	o := pollOptions{
		calculateUnits: true,
		maxAttempts:    DefaultPollAttempts,
		interval:       DefaultPollInterval,
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got: %d", o.maxAttempts)
	}

	logger := s.logger.Named("poller")

	fileName, err := s.resultsFileName(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("results_file_name", fileName)
	params.Set("calculate_units", strconv.FormatBool(o.calculateUnits))

	payload, err := marshalPayload(jobInfo)
	if err != nil {
		return nil, err
	}

	pacing := backoff.WithMaxRetries(backoff.NewConstantBackOff(o.interval), uint64(o.maxAttempts))
	exhausted := &PollingExhaustedError{}

	for {
		wait := pacing.NextBackOff()
		if wait == backoff.Stop {
			logger.Warn("no results before attempt budget was spent",
				"attempts", exhausted.Attempts,
				"last_status", exhausted.LastStatus)
			return nil, exhausted
		}
		exhausted.Attempts++

		resp, err := s.send(ctx, http.MethodPost, RouteJobsResult.Path(""), params,
			bytes.NewReader(payload), "application/json")
		if err != nil {
			return nil, fmt.Errorf("failed to poll results: %w", err)
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		exhausted.LastStatus = resp.StatusCode
		exhausted.LastBody = respBody

		if err := o.sleep(ctx, wait); err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusOK {
			logger.Debug("results ready", "attempts", exhausted.Attempts)
			return decodeBody(resp.StatusCode, respBody), nil
		}
		logger.Trace("results not ready", "attempt", exhausted.Attempts, "status", resp.StatusCode)
	}
}

// resultsFileName asks the API for its data format version and returns the
// matching results file name, e.g. "output_file_v3.json".
func (s *Session) resultsFileName(ctx context.Context) (string, error) {
	resp, err := s.Read(ctx, RouteDataFormatVersion, "", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get data format version: %w", err)
	}

	var version string
	switch v := resp.Value.(type) {
	case float64:
		version = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		version = v
	default:
		return "", fmt.Errorf("unexpected data format version: %q", truncate(resp.Body, 64))
	}

	return fmt.Sprintf("output_file_v%s.json", version), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
