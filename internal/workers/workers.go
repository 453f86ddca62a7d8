package workers

type Workers struct {
	workers []Worker
}

// NewWorkers aggregates the given workers. Nil entries are skipped so
// callers can pass conditionally constructed workers directly.
func NewWorkers(workers ...Worker) *Workers {
	aggregate := &Workers{}
	for _, worker := range workers {
		if worker != nil {
			aggregate.workers = append(aggregate.workers, worker)
		}
	}
	return aggregate
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
