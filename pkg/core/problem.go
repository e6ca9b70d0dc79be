package core

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"github.com/asi-uniovi/edarop-go/pkg/units"
)

// WorkloadKey indexes Problem.Workloads.
type WorkloadKey struct {
	App    App
	Region Region
}

// Problem pairs a System with the per-(app, user-region) workload for a
// planning horizon, plus the optional cost and average-response-time bounds
// an allocator may need to honor.
type Problem struct {
	System         *System
	Workloads      map[WorkloadKey]Workload
	MaxCost        *units.Currency
	MaxAvgRespTime *units.Time

	workloadLen    int
	timeSlotUnit   string
	regions        []Region
}

// NewProblem validates and constructs a Problem.
//
// It fails with ErrInconsistentWorkloads when the workloads do not share a
// single time-slot unit and length, or when no workloads are supplied (the
// slot unit and length cannot be derived from an empty set). It fails with
// ErrEmptyWorkload when every workload value is zero, since the
// average-response-time objective of the Response allocator divides by the
// total request count.
func NewProblem(system *System, workloads map[WorkloadKey]Workload, opts ...ProblemOption) (*Problem, error) {
	if len(workloads) == 0 {
		return nil, fmt.Errorf("%w: a problem needs at least one workload", ErrInconsistentWorkloads)
	}

	var unit string
	var length int
	first := true
	total := int64(0)
	for _, wl := range workloads {
		if first {
			unit = wl.TimeUnit
			length = len(wl.Values)
			first = false
		} else {
			if wl.TimeUnit != unit {
				return nil, fmt.Errorf("%w: not all workloads have the same time unit", ErrInconsistentWorkloads)
			}
			if len(wl.Values) != length {
				return nil, fmt.Errorf("%w: not all workloads have the same length", ErrInconsistentWorkloads)
			}
		}
		for _, v := range wl.Values {
			total += v
		}
	}
	if total == 0 {
		return nil, ErrEmptyWorkload
	}

	p := &Problem{
		System:       system,
		Workloads:    workloads,
		workloadLen:  length,
		timeSlotUnit: unit,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.regions = computeRegions(system, workloads)
	return p, nil
}

// ProblemOption configures optional bounds on a Problem.
type ProblemOption func(*Problem)

// WithMaxCost sets the problem's cost cap.
func WithMaxCost(c units.Currency) ProblemOption {
	return func(p *Problem) { p.MaxCost = &c }
}

// WithMaxAvgRespTime sets the problem's average-response-time cap.
func WithMaxAvgRespTime(t units.Time) ProblemOption {
	return func(p *Problem) { p.MaxAvgRespTime = &t }
}

func computeRegions(system *System, workloads map[WorkloadKey]Workload) []Region {
	var result []Region
	seen := make(map[string]struct{})
	add := func(r Region) {
		if _, ok := seen[r.Name]; !ok {
			seen[r.Name] = struct{}{}
			result = append(result, r)
		}
	}
	for _, ic := range system.ICs {
		add(ic.Region)
	}

	// workloads is a map, so its iteration order is unspecified and can
	// vary between calls over the same data; any region appearing only as
	// a workload source (never as an IC region) must still get a stable
	// position, so those are sorted by name before being appended.
	workloadOnly := make([]Region, 0, len(workloads))
	for k := range workloads {
		if _, ok := seen[k.Region.Name]; !ok {
			workloadOnly = append(workloadOnly, k.Region)
		}
	}
	sort.Slice(workloadOnly, func(i, j int) bool { return workloadOnly[i].Name < workloadOnly[j].Name })
	for _, r := range workloadOnly {
		add(r)
	}
	return result
}

// WorkloadLen returns the number of time slots in the planning horizon.
func (p *Problem) WorkloadLen() int { return p.workloadLen }

// TimeSlotUnit returns the time unit of one slot, taken from the workloads.
func (p *Problem) TimeSlotUnit() string { return p.timeSlotUnit }

// Regions returns every region appearing as an instance-class region or as
// a workload source region: instance-class regions first, in the order the
// System lists its instance classes, then workload-only regions sorted by
// name.
func (p *Problem) Regions() []Region { return p.regions }

// WorkloadForAppAtSlot sums the workload for app a, at slot k, across every
// source region.
func (p *Problem) WorkloadForAppAtSlot(a App, k int) int64 {
	var total int64
	for _, r := range p.regions {
		if wl, ok := p.Workloads[WorkloadKey{App: a, Region: r}]; ok {
			total += wl.Values[k]
		}
	}
	return total
}

// TotalRequests sums every workload value across all slots and regions.
func (p *Problem) TotalRequests() int64 {
	var total int64
	for _, wl := range p.Workloads {
		for _, v := range wl.Values {
			total += v
		}
	}
	return total
}

// WithDerivedMaxCost returns a copy of the Problem with MaxCost overridden,
// used by the Cost-then-Response allocator to build the second-stage
// Problem from the first stage's objective value (its total cost).
func (p *Problem) WithDerivedMaxCost(c units.Currency) *Problem {
	cp := *p
	cp.MaxCost = &c
	return &cp
}

// WithDerivedMaxAvgRespTime returns a copy of the Problem with
// MaxAvgRespTime overridden, used by the Response-then-Cost allocator to
// build the second-stage Problem from the first stage's objective value
// (its average response time).
func (p *Problem) WithDerivedMaxAvgRespTime(t units.Time) *Problem {
	cp := *p
	cp.MaxAvgRespTime = &t
	return &cp
}

// problemWireFormat is the gob-visible shape of a Problem: only System,
// Workloads, and the two optional bounds need to cross the wire, since
// workloadLen, timeSlotUnit, and regions are all re-derived by NewProblem.
type problemWireFormat struct {
	System         *System
	Workloads      map[WorkloadKey]Workload
	MaxCost        *units.Currency
	MaxAvgRespTime *units.Time
}

// GobEncode implements gob.GobEncoder. Problem's workloadLen, timeSlotUnit,
// and regions fields are unexported and therefore invisible to gob's
// default struct encoding; encoding only the source fields and re-deriving
// the rest on decode keeps a round trip from silently losing them.
func (p *Problem) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	wire := problemWireFormat{System: p.System, Workloads: p.Workloads, MaxCost: p.MaxCost, MaxAvgRespTime: p.MaxAvgRespTime}
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (p *Problem) GobDecode(data []byte) error {
	var wire problemWireFormat
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return err
	}

	var opts []ProblemOption
	if wire.MaxCost != nil {
		opts = append(opts, WithMaxCost(*wire.MaxCost))
	}
	if wire.MaxAvgRespTime != nil {
		opts = append(opts, WithMaxAvgRespTime(*wire.MaxAvgRespTime))
	}

	rebuilt, err := NewProblem(wire.System, wire.Workloads, opts...)
	if err != nil {
		return err
	}
	*p = *rebuilt
	return nil
}
