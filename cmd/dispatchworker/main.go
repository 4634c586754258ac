// Command dispatchworker polls a dispatchd server for queued solve jobs and
// executes them locally against a configured MILP solver binary, adapted
// from the teacher's "cloudlus work" subcommand.
package main

import (
	"flag"
	"log"
	"time"

	"hydrosched/dispatchjob"
	"hydrosched/solverapi"
)

var (
	addr    = flag.String("addr", "127.0.0.1:4243", "network address of dispatch server")
	wait    = flag.Duration("interval", 10*time.Second, "time interval between work polls when idle")
	maxIdle = flag.Duration("maxidle", 0, "shut down after this long without a job (0 = never)")
	binPath = flag.String("bin", "", "path to solver executable (defaults to a $PATH lookup of the job's solver name)")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		log.Printf("Usage: dispatchworker [OPTION]\n")
		log.Printf("Polls a dispatchd server for queued MILP solve jobs and runs them.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	adapter := &solverapi.ExternalAdapter{BinPath: *binPath}
	w := dispatchjob.NewWorker(*addr, adapter)
	w.Wait = *wait
	w.MaxIdle = *maxIdle

	log.Printf("worker %s polling %s", w.Id, *addr)
	if err := w.Run(); err != nil {
		log.Fatal(err)
	}
}
