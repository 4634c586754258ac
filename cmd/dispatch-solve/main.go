// Command dispatch-solve loads a dispatch payload (entities plus inflow
// series and solver config) and runs one build-solve-extract cycle, either
// in-process or on a remote dispatchd server, adapted from the teacher's
// cmd/cycobj driver.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"hydrosched/dispatchjob"
	"hydrosched/rundb"
	"hydrosched/solverapi"
)

var (
	payloadFile = flag.String("payload", "", "file containing a JSON dispatchjob.Payload (reads stdin if empty)")
	addr        = flag.String("addr", "", "address of a dispatchd server to submit to (otherwise, run locally)")
	binPath     = flag.String("bin", "", "path to solver executable for a local run")
	dbpath      = flag.String("db", "", "path to a goleveldb run-history store to append the result to")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		log.Printf("Usage: dispatch-solve [OPTION]\n")
		log.Printf("Builds and solves one day-ahead dispatch instance.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	data := readPayload()
	var p dispatchjob.Payload
	check(json.Unmarshal(data, &p))

	j := dispatchjob.NewDispatchJob(p)

	if *addr != "" {
		client, err := dispatchjob.Dial(*addr)
		check(err)
		defer client.Close()
		result, err := client.Run(j)
		check(err)
		j = result
	} else {
		adapter := &solverapi.ExternalAdapter{BinPath: *binPath}
		j.Execute(adapter, nil)
	}

	if *dbpath != "" {
		recordRun(j)
	}

	printResult(j)
}

func readPayload() []byte {
	if *payloadFile == "" {
		data, err := ioutil.ReadAll(os.Stdin)
		check(err)
		return data
	}
	data, err := ioutil.ReadFile(*payloadFile)
	check(err)
	return data
}

func recordRun(j *dispatchjob.DispatchJob) {
	db, err := rundb.Open(*dbpath, 0)
	check(err)
	defer db.Close()

	r := rundb.Record{
		Id:        j.Id.String(),
		Status:    rundb.Status(j.Status),
		Warnings:  j.Warnings,
		Message:   j.Message,
		Submitted: j.Submitted,
		Finished:  j.Finished,
	}
	if j.Result != nil {
		r.ObjectiveValue = j.Result.ObjValue
	}
	r.SolveTimeS = j.Finished.Sub(j.Started).Seconds()
	check(db.Put(r))
}

func printResult(j *dispatchjob.DispatchJob) {
	if j.Status != dispatchjob.StatusComplete {
		fmt.Fprintf(os.Stderr, "solve failed: %s\n", j.Message)
		for _, w := range j.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		os.Exit(1)
	}
	data, err := json.MarshalIndent(j.Result, "", "  ")
	check(err)
	fmt.Println(string(data))
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
