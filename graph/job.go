package graph

// Job is a single outstanding or completed getDependencies call.
type Job struct {
	Node  string
	Valid bool
}

// PendingJobs is the engine's FIFO queue of outstanding resolver calls.
// Jobs are matched by node-id, not by a handle: multiple jobs may
// coexist for the same id, and invalidation flips all matching entries
// at once. This is simpler than handle tracking and sufficient because
// the engine only ever needs to ask "is any work outstanding for this
// id?" and "is any work outstanding at all?".
type PendingJobs struct {
	jobs []Job
}

func newPendingJobs() *PendingJobs {
	return &PendingJobs{}
}

// push appends a fresh valid job for id to the tail of the queue.
func (p *PendingJobs) push(id string) {
	p.jobs = append(p.jobs, Job{Node: id, Valid: true})
}

// firstIndexFor returns the index of the first job matching id, in
// queue order.
func (p *PendingJobs) firstIndexFor(id string) (int, bool) {
	for i, j := range p.jobs {
		if j.Node == id {
			return i, true
		}
	}
	return -1, false
}

// invalidateAt flips the job at index i to invalid.
func (p *PendingJobs) invalidateAt(i int) {
	p.jobs[i].Valid = false
}

// invalidateFor flips every job matching id to invalid. Used by the
// prune engine's job cascade; trace-node consumes a single job with
// invalidateAt instead.
func (p *PendingJobs) invalidateFor(id string) {
	for i := range p.jobs {
		if p.jobs[i].Node == id {
			p.jobs[i].Valid = false
		}
	}
}

// isPending reports whether any valid job exists for id.
func (p *PendingJobs) isPending(id string) bool {
	for _, j := range p.jobs {
		if j.Node == id && j.Valid {
			return true
		}
	}
	return false
}

// anyValid reports whether any job in the queue is still valid.
func (p *PendingJobs) anyValid() bool {
	for _, j := range p.jobs {
		if j.Valid {
			return true
		}
	}
	return false
}

// Snapshot returns a defensive copy of the queue in FIFO order, for the
// Graph facade's read-only pending-jobs accessor.
func (p *PendingJobs) Snapshot() []Job {
	out := make([]Job, len(p.jobs))
	copy(out, p.jobs)
	return out
}
