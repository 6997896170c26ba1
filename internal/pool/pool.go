package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"igstats/pkg/logger"
	"igstats/pkg/report"
)

// Runner analyzes one profile; pkg/analyzer.Analyzer satisfies it
type Runner interface {
	Analyze(ctx context.Context, username string) (*report.Report, error)
}

// Result is the outcome of analyzing one profile
type Result struct {
	Username string
	Report   *report.Report
	Err      error
	Duration time.Duration
}

// Pool runs profile analyses concurrently. Each job gets a fresh Runner,
// and with it its own rate limiter and governor, so limiter state is never
// shared between analyzed profiles.
type Pool struct {
	numWorkers int
	newRunner  func() Runner

	jobQueue    chan string
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      logger.Logger
}

// New creates an analysis pool. newRunner is invoked once per submitted job.
func New(numWorkers int, newRunner func() Runner, log logger.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		numWorkers:  numWorkers,
		newRunner:   newRunner,
		jobQueue:    make(chan string, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		logger:      log,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.logger.InfoWithFields("Starting analysis pool", map[string]interface{}{
		"num_workers": p.numWorkers,
	})

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains remaining jobs, waits for workers, and closes the result
// channel
func (p *Pool) Stop() {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.resultQueue)
	p.cancel()

	p.logger.Info("Analysis pool stopped")
}

// Submit queues a username for analysis
func (p *Pool) Submit(username string) error {
	select {
	case p.jobQueue <- username:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("analysis pool is shutting down")
	}
}

// Results returns the channel of completed analyses
func (p *Pool) Results() <-chan Result {
	return p.resultQueue
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.WithField("worker_id", id)
	log.Debug("Worker started")

	for username := range p.jobQueue {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		// A fresh runner per profile keeps limiter state per-target.
		runner := p.newRunner()

		start := time.Now()
		rep, err := runner.Analyze(p.ctx, username)
		result := Result{
			Username: username,
			Report:   rep,
			Err:      err,
			Duration: time.Since(start),
		}

		if err != nil {
			log.WithError(err).WithField("username", username).Error("Analysis failed")
		} else {
			log.DebugWithFields("Analysis finished", map[string]interface{}{
				"username": username,
				"duration": result.Duration,
			})
		}

		select {
		case p.resultQueue <- result:
		case <-p.ctx.Done():
			return
		}
	}
}

// QueueSize returns the number of queued jobs
func (p *Pool) QueueSize() int {
	return len(p.jobQueue)
}

// Workers returns the number of workers
func (p *Pool) Workers() int {
	return p.numWorkers
}
