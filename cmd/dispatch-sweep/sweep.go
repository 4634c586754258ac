// Command dispatch-sweep solves the same dispatch instance repeatedly while
// varying one scalar config field across a range, adapted from the
// teacher's example/sweep driver (there split into a sweep generator and a
// separate view formatter; here the same split lives in sweep.go/view.go of
// one binary since a sweep result is only useful alongside its summary).
package main

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"log"
	"os"

	"hydrosched/dispatchjob"
	"hydrosched/solverapi"
)

var (
	payloadFile = flag.String("payload", "", "file containing a JSON dispatchjob.Payload (reads stdin if empty)")
	field       = flag.String("field", "deficit", "scalar field to sweep: \"deficit\" or \"curtail\" penalty coefficient")
	from        = flag.Float64("from", 0, "starting value")
	to          = flag.Float64("to", 20000, "ending value (inclusive)")
	step        = flag.Float64("step", 2000, "step size")
	binPath     = flag.String("bin", "", "path to solver executable")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		log.Printf("Usage: dispatch-sweep [OPTION]\n")
		log.Printf("Solves one instance repeatedly sweeping a penalty coefficient.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *step <= 0 {
		log.Fatal("-step must be > 0")
	}

	data := readPayload()
	var base dispatchjob.Payload
	check(json.Unmarshal(data, &base))

	adapter := &solverapi.ExternalAdapter{BinPath: *binPath}

	rows := []sweepRow{}
	for v := *from; v <= *to; v += *step {
		p := base
		switch *field {
		case "deficit":
			p.Penalties.DeficitRsMWh = v
		case "curtail":
			p.Penalties.CurtailRsMWh = v
		default:
			log.Fatalf("unknown -field %q, want \"deficit\" or \"curtail\"", *field)
		}

		j := dispatchjob.NewDispatchJob(p)
		j.Execute(adapter, nil)

		row := sweepRow{Value: v, Status: j.Status, Message: j.Message}
		if j.Result != nil {
			row.Objective = j.Result.ObjValue
		}
		rows = append(rows, row)
	}

	printSweep(os.Stdout, rows)
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

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
