// Package queuetest records dispatched jobs instead of running them
package queuetest

import (
	"domainkeeper/internal/queue"
	"github.com/samber/lo"
	"sync"
	"time"
)

type Dispatched struct {
	Job   queue.Job
	Delay time.Duration
}

type Recorder struct {
	mu   sync.Mutex
	jobs []Dispatched
	Err  error
}

func (r *Recorder) Dispatch(job queue.Job) error {
	return r.DispatchAfter(job, 0)
}

func (r *Recorder) DispatchAfter(job queue.Job, delay time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.jobs = append(r.jobs, Dispatched{Job: job, Delay: delay})
	return nil
}

func (r *Recorder) Jobs() []Dispatched {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Dispatched(nil), r.jobs...)
}

// Named returns the dispatched jobs whose Name is name
func (r *Recorder) Named(name string) []Dispatched {
	return lo.Filter(r.Jobs(), func(item Dispatched, index int) bool {
		return item.Job.Name() == name
	})
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = nil
}
