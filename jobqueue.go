package untex

// JobQueue is a bounded channel of pending markup strings, used by the
// symbol generator to hand work from one producer to a pool of render
// workers. It is a thin wrapper over a channel rather than a bespoke
// semaphore pair: the channel's own buffer is the free-slots/queued-jobs
// accounting the original C++ queue implemented by hand.
//
// There is no NoMoreJobs error type. A worker learns there is no more work
// the idiomatic Go way: GetJob's second return value is false once Close
// has been called and the buffer has drained.
type JobQueue struct {
	jobs chan string
}

// NewJobQueue returns a queue that holds up to size pending jobs before
// AddJob blocks.
func NewJobQueue(size int) *JobQueue {
	return &JobQueue{jobs: make(chan string, size)}
}

// AddJob enqueues job, blocking while the queue is full. Calling AddJob
// after Close is forbidden, matching the original queue's contract.
func (q *JobQueue) AddJob(job string) {
	q.jobs <- job
}

// GetJob blocks for the next job. ok is false once the queue has been
// closed and drained, at which point the caller should return.
func (q *JobQueue) GetJob() (job string, ok bool) {
	job, ok = <-q.jobs
	return job, ok
}

// TryGetJob returns immediately: a job and true, or "" and false if none
// is available right now (the queue may still have more later, unless
// also closed).
func (q *JobQueue) TryGetJob() (job string, ok bool) {
	select {
	case job, ok = <-q.jobs:
		return job, ok
	default:
		return "", false
	}
}

// Close signals that no more jobs will be added. Workers already blocked
// in GetJob drain whatever remains buffered, then see ok == false.
func (q *JobQueue) Close() {
	close(q.jobs)
}
