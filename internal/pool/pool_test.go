package pool

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igstats/pkg/errors"
	"igstats/pkg/logger"
	"igstats/pkg/report"
)

// stubRunner records the usernames it analyzed and fails the ones listed
// in failures
type stubRunner struct {
	mu       sync.Mutex
	analyzed []string
	failures map[string]error
	delay    time.Duration
}

func (s *stubRunner) Analyze(ctx context.Context, username string) (*report.Report, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	s.analyzed = append(s.analyzed, username)
	s.mu.Unlock()

	if err, ok := s.failures[username]; ok {
		return nil, err
	}
	return &report.Report{Username: username}, nil
}

func collectResults(p *Pool) []Result {
	var results []Result
	for r := range p.Results() {
		results = append(results, r)
	}
	return results
}

func TestPoolProcessesAllJobs(t *testing.T) {
	runner := &stubRunner{}
	p := New(3, func() Runner { return runner }, logger.NewNopLogger())
	p.Start()

	usernames := []string{"natgeo", "nasa", "bbcearth", "spacex", "cern"}
	for _, u := range usernames {
		require.NoError(t, p.Submit(u))
	}
	p.Stop()

	results := collectResults(p)
	require.Len(t, results, len(usernames))

	var got []string
	for _, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Report)
		assert.Equal(t, r.Username, r.Report.Username)
		got = append(got, r.Username)
	}
	sort.Strings(got)
	want := append([]string(nil), usernames...)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestPoolCreatesOneRunnerPerJob(t *testing.T) {
	var created atomic.Int32
	p := New(4, func() Runner {
		created.Add(1)
		return &stubRunner{}
	}, logger.NewNopLogger())

	p.Start()
	usernames := []string{"natgeo", "nasa", "bbcearth"}
	for _, u := range usernames {
		require.NoError(t, p.Submit(u))
	}
	p.Stop()

	// Each analyzed profile gets its own runner, and with it its own
	// limiter; idle workers never build one.
	assert.Equal(t, int32(len(usernames)), created.Load())
	assert.Equal(t, 4, p.Workers())
}

func TestPoolReportsFailures(t *testing.T) {
	authErr := &errors.Error{Type: errors.ErrorTypeAuth, Message: "profile is private"}
	runner := &stubRunner{failures: map[string]error{"private_user": authErr}}

	p := New(2, func() Runner { return runner }, logger.NewNopLogger())
	p.Start()

	require.NoError(t, p.Submit("natgeo"))
	require.NoError(t, p.Submit("private_user"))
	p.Stop()

	byName := make(map[string]Result)
	for _, r := range collectResults(p) {
		byName[r.Username] = r
	}

	require.NoError(t, byName["natgeo"].Err)
	assert.ErrorIs(t, byName["private_user"].Err, authErr)
	assert.Nil(t, byName["private_user"].Report)
}

func TestPoolRecordsDuration(t *testing.T) {
	runner := &stubRunner{delay: 5 * time.Millisecond}
	p := New(1, func() Runner { return runner }, logger.NewNopLogger())
	p.Start()

	require.NoError(t, p.Submit("natgeo"))
	p.Stop()

	results := collectResults(p)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Duration, 5*time.Millisecond)
}

func TestPoolDefaultsToSingleWorker(t *testing.T) {
	p := New(0, func() Runner { return &stubRunner{} }, logger.NewNopLogger())
	assert.Equal(t, 1, p.Workers())
	p.Start()
	p.Stop()
}
