// Command dispatch-tune searches for the smallest curtailment/deficit
// penalty pair that still drives curtailment and deficit to (near) zero on
// a reference instance, adapted wholesale from the teacher's
// cmd/pswarmdriver (a particle-swarm search seeded into a pattern-search
// poller), repointed at penalty-coefficient tuning instead of
// reactor-deployment fractions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/rwcarlsen/optim"
	"github.com/rwcarlsen/optim/pattern"
	"github.com/rwcarlsen/optim/swarm"

	"hydrosched/dispatchjob"
	"hydrosched/extract"
	"hydrosched/solverapi"
	"hydrosched/varset"
)

var (
	payloadFile = flag.String("payload", "", "file containing a JSON dispatchjob.Payload (reads stdin if empty)")
	npar        = flag.Int("npar", 0, "number of swarm particles (0 => choose automatically)")
	maxEval     = flag.Int("maxeval", 200, "max number of objective evaluations")
	maxIter     = flag.Int("maxiter", 40, "max number of optimizer iterations")
	maxPenalty  = flag.Float64("maxpenalty", 50000, "upper bound searched for each penalty coefficient")
	binPath     = flag.String("bin", "", "path to solver executable")
	seed        = flag.Int64("seed", 1, "seed for the search's random number generator")
)

// unservedWeight dominates the raw penalty sum so the search only accepts a
// smaller penalty pair when it doesn't leave curtailment or deficit
// unserved on the reference instance.
const unservedWeight = 1e6

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		log.Printf("Usage: dispatch-tune [OPTION]\n")
		log.Printf("Searches for the smallest (curtail,deficit) penalty pair that clears a reference instance.\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	optim.Rand = rand.New(rand.NewSource(*seed))

	data := readPayload()
	var base dispatchjob.Payload
	check(json.Unmarshal(data, &base))

	adapter := &solverapi.ExternalAdapter{BinPath: *binPath}
	obj := &penaltyObjective{base: base, adapter: adapter}

	lb := []float64{0, 0}
	ub := []float64{*maxPenalty, *maxPenalty}

	n := *npar
	if n == 0 {
		n = 12
	}
	pop := swarm.NewPopulationRand(n, lb, ub)
	sw := swarm.New(pop, swarm.VmaxBounds(lb, ub))
	method := pattern.New(pop[0].Point, pattern.SearchMethod(sw, pattern.Share))

	solv := &optim.Solver{
		Method:  method,
		Obj:     obj,
		MaxIter: *maxIter,
		MaxEval: *maxEval,
	}
	for solv.Next() {
		fmt.Printf("iter %v (%v evals): %v\n", solv.Niter(), solv.Neval(), solv.Best())
	}
	if err := solv.Err(); err != nil {
		log.Print(err)
	}

	best := solv.Best()
	fmt.Printf("curtail_penalty=%v deficit_penalty=%v\n", best.Pos[0], best.Pos[1])
}

type penaltyObjective struct {
	base    dispatchjob.Payload
	adapter solverapi.SolverAdapter
}

func (o *penaltyObjective) Objective(v []float64) (float64, error) {
	p := o.base
	p.Penalties.CurtailRsMWh = v[0]
	p.Penalties.DeficitRsMWh = v[1]

	j := dispatchjob.NewDispatchJob(p)
	j.Execute(o.adapter, nil)
	if j.Status != dispatchjob.StatusComplete {
		return math.Inf(1), fmt.Errorf("reference instance failed to solve: %s", j.Message)
	}

	unserved := sumFamily(j.Result, varset.Curtail) + sumFamily(j.Result, varset.Deficit)
	return v[0] + v[1] + unservedWeight*unserved, nil
}

func sumFamily(res *extract.Result, fam varset.Family) float64 {
	var total float64
	for _, val := range res.Generation[fam] {
		total += val
	}
	return total
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
