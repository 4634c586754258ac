package dispatchjob

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/rpc"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"hydrosched/solverapi"
)

const beatInterval = 60 * time.Second

// Server is an in-process work queue plus RPC front end, generalizing
// cloudlus.Server's single-goroutine dispatcher (one select loop owns all
// queue state, callers talk to it only through channels) from cyclus job
// dispatch to dispatch-job dispatch. Workers that stop heartbeating have
// their job requeued for another worker to pick up.
type Server struct {
	Host string

	adapter solverapi.SolverAdapter

	submitjobs   chan jobSubmit
	submitchans  map[JobId]chan *DispatchJob
	retrievejobs chan jobRequest
	pushjobs     chan *DispatchJob
	fetchjobs    chan workRequest
	beat         chan Beat
	queue        []*DispatchJob
	alljobs      *lru.Cache[JobId, *DispatchJob]
	jobinfo      map[JobId]Beat

	serv *http.Server
}

// NewServer returns a Server holding adapter. No Server method executes a
// job with it: every job, including ones submitted via Run/Start, is queued
// until a worker fetches it and solves it with the worker's own adapter.
func NewServer(adapter solverapi.SolverAdapter, cacheSize int) *Server {
	cache, err := lru.New[JobId, *DispatchJob](cacheSize)
	if err != nil {
		panic(err) // only fails for cacheSize <= 0, a caller bug
	}
	s := &Server{
		adapter:      adapter,
		submitjobs:   make(chan jobSubmit),
		submitchans:  map[JobId]chan *DispatchJob{},
		retrievejobs: make(chan jobRequest),
		pushjobs:     make(chan *DispatchJob),
		fetchjobs:    make(chan workRequest),
		beat:         make(chan Beat),
		alljobs:      cache,
		jobinfo:      map[JobId]Beat{},
	}
	return s
}

// ListenAndServe registers the RPC endpoint on addr and blocks, running the
// dispatch loop in the background.
func (s *Server) ListenAndServe(addr string) error {
	go s.dispatch()

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName("RPC", &RPC{s}); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, rpcSrv)
	s.serv = &http.Server{Addr: addr, Handler: mux}
	return s.serv.ListenAndServe()
}

// Close shuts down the HTTP listener. The teacher's Server has no
// equivalent (its own tests call a Close that was never defined); an
// in-process dispatcher needs one to let callers (and tests) tear a server
// down cleanly instead of leaking a bound listener.
func (s *Server) Close() error {
	if s.serv == nil {
		return nil
	}
	return s.serv.Close()
}

// Run submits j and blocks until it completes.
func (s *Server) Run(j *DispatchJob) *DispatchJob {
	ch := s.Start(j, nil)
	return <-ch
}

func (s *Server) Start(j *DispatchJob, ch chan *DispatchJob) chan *DispatchJob {
	if ch == nil {
		ch = make(chan *DispatchJob, 1)
	}
	s.submitjobs <- jobSubmit{j, ch}
	return ch
}

func (s *Server) Get(id JobId) (*DispatchJob, error) {
	ch := make(chan *DispatchJob)
	s.retrievejobs <- jobRequest{Id: id, Resp: ch}
	j := <-ch
	if j == nil {
		return nil, fmt.Errorf("unknown job id %v", id)
	}
	return j, nil
}

func (s *Server) dispatch() {
	beatcheck := time.NewTicker(beatInterval)
	defer beatcheck.Stop()

	for {
		select {
		case <-beatcheck.C:
			now := time.Now()
			for id, b := range s.jobinfo {
				if now.Sub(b.Time) > 2*beatInterval {
					if j, ok := s.alljobs.Get(id); ok {
						log.Printf("requeuing job %v (worker stopped responding)", id)
						j.Status = StatusQueued
						s.queue = append([]*DispatchJob{j}, s.queue...)
						delete(s.jobinfo, id)
					}
				}
			}
		default:
		}

		select {
		case js := <-s.submitjobs:
			j := js.J
			if js.Result != nil {
				s.submitchans[j.Id] = js.Result
			}
			j.Status = StatusQueued
			j.Submitted = time.Now()
			s.queue = append(s.queue, j)
			s.alljobs.Add(j.Id, j)

		case req := <-s.retrievejobs:
			if j, ok := s.alljobs.Get(req.Id); ok {
				req.Resp <- j
			} else {
				req.Resp <- nil
			}

		case j := <-s.pushjobs:
			s.alljobs.Add(j.Id, j)
			if ch, ok := s.submitchans[j.Id]; ok {
				ch <- j
				close(ch)
				delete(s.submitchans, j.Id)
			}
			delete(s.jobinfo, j.Id)

		case req := <-s.fetchjobs:
			var j *DispatchJob
			for i, cand := range s.queue {
				if v, ok := s.alljobs.Get(cand.Id); ok && v.Status == StatusQueued {
					j = v
					s.queue = s.queue[i+1:]
					break
				}
			}
			if j == nil {
				s.queue = nil
			} else {
				s.jobinfo[j.Id] = NewBeat(req.WorkerId, j.Id)
			}
			req.Ch <- j

		case b := <-s.beat:
			if old := s.jobinfo[b.JobId]; old.WorkerId == b.WorkerId {
				s.jobinfo[b.JobId] = b
			}
		}
	}
}

type jobRequest struct {
	Id   JobId
	Resp chan *DispatchJob
}

type jobSubmit struct {
	J      *DispatchJob
	Result chan *DispatchJob
}

type workRequest struct {
	WorkerId WorkerId
	Ch       chan *DispatchJob
}

type Beat struct {
	Time     time.Time
	WorkerId WorkerId
	JobId    JobId
}

func NewBeat(w WorkerId, j JobId) Beat {
	return Beat{Time: time.Now(), WorkerId: w, JobId: j}
}

// RPC exposes Server over net/rpc, the same thin wrapper-around-channels
// shape as cloudlus.RPC.
type RPC struct {
	s *Server
}

var errNoJobs = errors.New("no jobs available to run")

func (r *RPC) Heartbeat(b Beat, unused *int) error {
	r.s.beat <- b
	return nil
}

func (r *RPC) Submit(j *DispatchJob, result **DispatchJob) error {
	*result = r.s.Run(j)
	return nil
}

func (r *RPC) Retrieve(id JobId, result **DispatchJob) error {
	j, err := r.s.Get(id)
	if err != nil {
		return err
	}
	*result = j
	return nil
}

func (r *RPC) Fetch(wid WorkerId, j **DispatchJob) error {
	req := workRequest{wid, make(chan *DispatchJob)}
	r.s.fetchjobs <- req
	*j = <-req.Ch
	if *j == nil {
		return errNoJobs
	}
	return nil
}

func (r *RPC) Push(j *DispatchJob, unused *int) error {
	r.s.pushjobs <- j
	return nil
}
