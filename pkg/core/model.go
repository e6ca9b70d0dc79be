// Package core holds the immutable entities of the allocation problem: apps,
// regions, instance classes, workloads, performance and latency profiles,
// and the System and Problem values built from them. Everything here is
// built once and treated as read-only afterwards, matching the frozen
// dataclasses of the implementation this package is ported from.
package core

import "github.com/asi-uniovi/edarop-go/pkg/units"

// App is a logical service with a response-time deadline. A request that
// cannot be routed within MaxRespTime counts as a deadline miss.
type App struct {
	Name        string
	MaxRespTime units.Time
}

// Region is a geographic location hosting either users or instance classes.
type Region struct {
	Name string
}

// InstanceClass is a rentable VM type, priced per unit time, in one region.
type InstanceClass struct {
	Name   string
	Price  units.CurrencyPerTime
	Region Region
}

// Workload is the per-slot, non-negative request-count series for one
// (App, source Region) pair. All workloads within a Problem must share
// TimeUnit and have the same number of slots.
type Workload struct {
	Values   []int64
	TimeUnit string
}

// Latency is the one-way network time between two regions.
type Latency struct {
	Value units.Time
}

// Performance describes how an instance class serves an app: the rate at
// which it can serve requests, and the server-side response time of a
// single request (the SLO).
type Performance struct {
	Rate units.RequestsPerTime
	SLO  units.Time
}

// PerfKey indexes System.Perfs.
type PerfKey struct {
	App App
	IC  InstanceClass
}

// LatencyKey indexes System.Latencies, source region first.
type LatencyKey struct {
	Src Region
	Dst Region
}

// System groups every app, instance class, performance profile, and latency
// measurement that does not vary across the planning horizon.
type System struct {
	Apps      []App
	ICs       []InstanceClass
	Perfs     map[PerfKey]Performance
	Latencies map[LatencyKey]Latency
}

// NewSystem validates and constructs a System. It fails with
// ErrDuplicateName if two apps, or two instance classes, share a name.
func NewSystem(apps []App, ics []InstanceClass, perfs map[PerfKey]Performance, latencies map[LatencyKey]Latency) (*System, error) {
	if err := checkUniqueAppNames(apps); err != nil {
		return nil, err
	}
	if err := checkUniqueICNames(ics); err != nil {
		return nil, err
	}

	if perfs == nil {
		perfs = map[PerfKey]Performance{}
	}
	if latencies == nil {
		latencies = map[LatencyKey]Latency{}
	}

	return &System{
		Apps:      append([]App(nil), apps...),
		ICs:       append([]InstanceClass(nil), ics...),
		Perfs:     perfs,
		Latencies: latencies,
	}, nil
}

func checkUniqueAppNames(apps []App) error {
	seen := make(map[string]struct{}, len(apps))
	for _, a := range apps {
		if _, ok := seen[a.Name]; ok {
			return &DuplicateNameError{Category: "apps", Name: a.Name}
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

func checkUniqueICNames(ics []InstanceClass) error {
	seen := make(map[string]struct{}, len(ics))
	for _, ic := range ics {
		if _, ok := seen[ic.Name]; ok {
			return &DuplicateNameError{Category: "instance classes", Name: ic.Name}
		}
		seen[ic.Name] = struct{}{}
	}
	return nil
}

// DuplicateNameError wraps ErrDuplicateName with the offending category and
// name so callers can report a precise message.
type DuplicateNameError struct {
	Category string
	Name     string
}

func (e *DuplicateNameError) Error() string {
	return "repeated name " + e.Name + " in " + e.Category
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// RespTime returns latency(region, ic.Region) + perf(app, ic).SLO. The
// second return value is false when either the performance or the latency
// entry is missing.
func (s *System) RespTime(app App, region Region, ic InstanceClass) (units.Time, bool) {
	perf, ok := s.Perfs[PerfKey{App: app, IC: ic}]
	if !ok {
		return units.Time{}, false
	}
	lat, ok := s.Latencies[LatencyKey{Src: region, Dst: ic.Region}]
	if !ok {
		return units.Time{}, false
	}
	return lat.Value.Add(perf.SLO), true
}

// CanRoute reports whether routing from src to dst is permitted, i.e.
// whether latency data exists for the pair.
func (s *System) CanRoute(src, dst Region) bool {
	_, ok := s.Latencies[LatencyKey{Src: src, Dst: dst}]
	return ok
}
