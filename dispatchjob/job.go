// Package dispatchjob packages one day-ahead dispatch instance as a
// distributable unit of work and drives it through the solve pipeline,
// generalizing the teacher's cloudlus.Job (a cyclus simulation packaged as
// commands plus input/output files, executed locally or shipped to a
// remote worker) into a dispatch instance packaged as serialized entities
// plus solver configuration, executed by assembling and solving a MILP.
package dispatchjob

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hydrosched/cascade"
	"hydrosched/constr"
	"hydrosched/extract"
	"hydrosched/inflow"
	"hydrosched/objective"
	"hydrosched/solverapi"
	"hydrosched/system"
	"hydrosched/varset"
)

const (
	StatusQueued   = "queued"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// JobId identifies one DispatchJob, hex-encoded over the wire the same way
// the teacher's JobId marshals a raw 16-byte uuid.
type JobId [16]byte

func NewJobId() JobId {
	var id JobId
	u := uuid.New()
	copy(id[:], u[:])
	return id
}

func DecodeJobId(s string) (JobId, error) {
	var id JobId
	buf, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if n := copy(id[:], buf); n < len(id) {
		return JobId{}, fmt.Errorf("invalid JobId string length %v", n)
	}
	return id, nil
}

func (i JobId) String() string { return hex.EncodeToString(i[:]) }

func (i JobId) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

func (i *JobId) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	bs, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if n := copy((*i)[:], bs); n < len(i) {
		return fmt.Errorf("JSON JobId has invalid length %v", n)
	}
	return nil
}

// WorkerId identifies the worker currently (or most recently) assigned a
// job, used by the heartbeat/reassignment mechanism in Server.
type WorkerId [16]byte

func (i WorkerId) String() string { return hex.EncodeToString(i[:]) }

// Payload is everything needed to reconstruct and solve a dispatch
// instance: the entity definitions plus the exogenous data and knobs a
// System alone doesn't carry (System itself isn't JSON-serializable, since
// its lookup maps are unexported; Entities is the serializable source of
// truth it's built from).
//
// Every constraint toggle below mirrors a §6 ConstraintConfig field and is a
// *bool: nil means "use constr.DefaultConfig's setting", so a caller that
// deliberately sets a toggle to false (e.g. to reproduce the deficit-disabled
// infeasibility scenario) is not silently overridden back to the default.
type Payload struct {
	Entities     system.Entities
	InflowSeries map[string][]float64

	EnableRamping           *bool
	IncludeSpill            *bool
	IncludeMinUpDown        *bool
	IncludeDeficit          *bool
	IncludeInterconnections *bool
	IncludeRenewables       *bool
	InitialCommitment       map[string]bool

	// Penalties is used verbatim when UseDefaultPenalties is false,
	// including an explicit all-zero PenaltyConfig — a zero-value
	// PenaltyConfig is never silently swapped for objective.DefaultPenalties.
	Penalties           objective.PenaltyConfig
	UseDefaultPenalties bool

	SolverOpts solverapi.SolverOptions
}

// boolOr returns *p if p is non-nil, otherwise def.
func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// DispatchJob is one distributable solve request plus its eventual result,
// the unit Server queues, Worker fetches and executes, and Client
// submits/retrieves. Mirrors cloudlus.Job's shape (input payload + status +
// timestamps + worker attribution + result), repointed at a MILP solve
// instead of a cyclus simulation run.
type DispatchJob struct {
	Id        JobId
	Payload   Payload
	Status    string
	Submitted time.Time
	Started   time.Time
	Finished  time.Time
	WorkerId  WorkerId
	Note      string

	Result   *extract.Result
	Warnings []string
	Message  string
}

func NewDispatchJob(p Payload) *DispatchJob {
	return &DispatchJob{Id: NewJobId(), Payload: p, Status: StatusQueued}
}

func (j *DispatchJob) Done() bool {
	return j.Status == StatusComplete || j.Status == StatusFailed
}

// Execute assembles the MILP from j.Payload, hands it to adapter, and
// records the extracted result onto j. kill mirrors cloudlus.Job.Execute's
// close-to-cancel idiom so a worker's heartbeat loop can abort a hung solve.
func (j *DispatchJob) Execute(adapter solverapi.SolverAdapter, kill <-chan struct{}) {
	j.Started = time.Now()
	defer func() { j.Finished = time.Now() }()

	sys, err := system.Build(j.Payload.Entities)
	if err != nil {
		j.fail(fmt.Sprintf("invalid system: %v", err))
		return
	}

	cfg := constr.DefaultConfig()
	cfg.EnableRamping = boolOr(j.Payload.EnableRamping, cfg.EnableRamping)
	cfg.IncludeSpill = boolOr(j.Payload.IncludeSpill, cfg.IncludeSpill)
	cfg.IncludeMinUpDown = boolOr(j.Payload.IncludeMinUpDown, cfg.IncludeMinUpDown)
	cfg.IncludeDeficit = boolOr(j.Payload.IncludeDeficit, cfg.IncludeDeficit)
	cfg.IncludeInterconnections = boolOr(j.Payload.IncludeInterconnections, cfg.IncludeInterconnections)
	cfg.IncludeRenewables = boolOr(j.Payload.IncludeRenewables, cfg.IncludeRenewables)
	cfg.InitialCommitment = j.Payload.InitialCommitment
	cfg.Cascade = cascade.Build(sys, sys.PeriodDurationHours)
	cfg.Inflow = inflow.NewTable(j.Payload.InflowSeries)

	vs := varset.Create(sys, cfg.EnabledFamilies())
	m := solverapi.NewModel(vs)

	results := constr.BuildAll(m, sys, vs, cfg)
	if constr.AnyFailed(results) {
		for _, r := range results {
			if !r.Success {
				j.Warnings = append(j.Warnings, fmt.Sprintf("%s: %v", r.Kind, r.Warnings))
			}
		}
		j.fail("one or more constraint builders failed, see warnings")
		return
	}
	for _, r := range results {
		j.Warnings = append(j.Warnings, r.Warnings...)
	}

	pen := j.Payload.Penalties
	if j.Payload.UseDefaultPenalties {
		pen = objective.DefaultPenalties()
	}
	objective.Build(m, sys, vs, pen)

	opts := j.Payload.SolverOpts
	if opts.SolverName == "" {
		opts = solverapi.DefaultOptions()
	}

	res, err := adapter.Optimize(m, opts, kill)
	if err != nil {
		j.fail(fmt.Sprintf("solve failed: %v", err))
		return
	}

	if (res.Status == solverapi.Optimal || res.Status == solverapi.Feasible) && len(res.Primal) > 0 {
		duals, err := solverapi.ExtractDuals(m, res.Primal)
		if err != nil {
			j.Warnings = append(j.Warnings, fmt.Sprintf("dual extraction failed: %v", err))
		} else {
			res.Duals = duals
		}
	}

	out := extract.Build(res, sys, vs)
	j.Result = &out
	j.Warnings = append(j.Warnings, res.Warnings...)
	j.Message = res.Message

	switch res.Status {
	case solverapi.Optimal, solverapi.Feasible:
		j.Status = StatusComplete
	default:
		j.Status = StatusFailed
	}
}

func (j *DispatchJob) fail(msg string) {
	j.Status = StatusFailed
	j.Message = msg
}
