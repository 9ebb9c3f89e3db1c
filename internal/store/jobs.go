package store

import (
	"sync"

	"youngtalents/pipeline-service/internal/model"
)

// JobCatalog is the read-only list of published openings. The pipeline only
// consults it to pair a candidate's role with a job's requirement text for
// enrichment context.
type JobCatalog struct {
	mu   sync.RWMutex
	jobs []model.Job
}

// NewJobCatalog returns a catalog seeded with the given jobs.
func NewJobCatalog(jobs []model.Job) *JobCatalog {
	c := &JobCatalog{}
	c.jobs = append(c.jobs, jobs...)
	return c
}

// All returns every job, active or not.
func (c *JobCatalog) All() []model.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Job(nil), c.jobs...)
}

// Active returns only the openings currently accepting applications.
func (c *JobCatalog) Active() []model.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Job, 0, len(c.jobs))
	for _, j := range c.jobs {
		if j.Active {
			out = append(out, j)
		}
	}
	return out
}

// ByTitle returns the job whose title equals the candidate's role. When no
// title matches, the first catalog entry is used as scoring context, and ok
// is false when the catalog is empty.
func (c *JobCatalog) ByTitle(title string) (model.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, j := range c.jobs {
		if j.Title == title {
			return j, true
		}
	}
	if len(c.jobs) > 0 {
		return c.jobs[0], true
	}
	return model.Job{}, false
}
