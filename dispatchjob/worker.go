package dispatchjob

import (
	"log"
	"time"

	"github.com/google/uuid"

	"hydrosched/solverapi"
)

// Worker polls a Server for queued dispatch jobs, solves them with adapter,
// and reports results back, mirroring cloudlus.Worker's fetch/execute/push
// loop with a heartbeat guarding against the server requeuing a job still in
// flight.
type Worker struct {
	Id         WorkerId
	ServerAddr string
	Adapter    solverapi.SolverAdapter
	// Wait is the polling interval used when the queue is empty.
	Wait time.Duration
	// MaxIdle shuts the worker down after this long without a job; zero runs
	// forever.
	MaxIdle time.Duration

	lastjob time.Time
}

func NewWorker(addr string, adapter solverapi.SolverAdapter) *Worker {
	var id WorkerId
	u := uuid.New()
	copy(id[:], u[:])
	return &Worker{Id: id, ServerAddr: addr, Adapter: adapter, Wait: 10 * time.Second}
}

// Run polls ServerAddr forever (or until MaxIdle elapses with no job),
// executing one dispatch job at a time.
func (w *Worker) Run() error {
	w.lastjob = time.Now()
	for {
		wait, err := w.dojob()
		if err != nil {
			log.Print(err)
		}
		if w.MaxIdle > 0 && time.Since(w.lastjob) > w.MaxIdle {
			log.Printf("no jobs received for %v, shutting down", w.MaxIdle)
			return nil
		}
		if wait {
			<-time.After(w.Wait)
		}
	}
}

func (w *Worker) dojob() (wait bool, err error) {
	client, err := Dial(w.ServerAddr)
	if err != nil {
		return true, err
	}
	defer client.Close()

	j, err := client.Fetch(w.Id)
	if isNoJobsErr(err) {
		return true, nil
	} else if err != nil {
		return true, err
	}

	done := make(chan struct{})
	kill := w.heartbeat(client, j.Id, done)

	j.Status = StatusRunning
	j.Execute(w.Adapter, kill)
	close(done)

	j.WorkerId = w.Id
	w.lastjob = time.Now()
	if err := client.Push(j); err != nil {
		return false, err
	}
	return false, nil
}

// heartbeat sends periodic keep-alives for jobId until done is closed, and
// closes the returned kill channel if a heartbeat RPC fails (e.g. the server
// is unreachable), so Execute aborts promptly. The server accepts heartbeats
// without error even for a job it has requeued, so a requeue alone does not
// close kill.
func (w *Worker) heartbeat(client *Client, jobId JobId, done chan struct{}) <-chan struct{} {
	kill := make(chan struct{})
	go func() {
		t := time.NewTicker(beatInterval / 2)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := client.Heartbeat(w.Id, jobId); err != nil {
					close(kill)
					return
				}
			}
		}
	}()
	return kill
}

func isNoJobsErr(err error) bool {
	return err != nil && err.Error() == errNoJobs.Error()
}
