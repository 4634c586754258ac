// Command dispatchd runs a work-dispatch server that queues dispatch jobs
// for remote workers, adapted from the teacher's "cloudlus serve" subcommand.
package main

import (
	"flag"
	"log"

	"hydrosched/dispatchjob"
	"hydrosched/rundb"
	"hydrosched/solverapi"
)

var (
	addr      = flag.String("addr", "127.0.0.1:4243", "network address to listen on")
	host      = flag.String("host", "", "server host base url, used in worker-facing URLs")
	cacheSize = flag.Int("cache", 256, "number of finished jobs retained in memory")
	dbpath    = flag.String("db", "", "path to a goleveldb run-history store to open at startup (disabled if empty); the server writes no records to it")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		log.Printf("Usage: dispatchd [OPTION]\n")
		log.Printf("Runs a dispatch server that queues MILP solve jobs for workers.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// The server's own adapter is never used to solve: every job, including
	// one submitted via Server.Run, waits in the queue for a worker, and
	// workers bring their own adapter.
	s := dispatchjob.NewServer(&solverapi.ExternalAdapter{}, *cacheSize)
	s.Host = *host

	if *dbpath != "" {
		db, err := rundb.Open(*dbpath, 0)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		log.Printf("opened run-history store %s", *dbpath)
	}

	log.Printf("listening on %s", *addr)
	log.Fatal(s.ListenAndServe(*addr))
}
