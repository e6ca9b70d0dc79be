package core

// ICKey indexes the VM counts in a TimeSlotAllocation.
type ICKey struct {
	App App
	IC  InstanceClass
}

// ReqKey indexes the request counts in a TimeSlotAllocation.
type ReqKey struct {
	App App
	Src Region
	IC  InstanceClass
}

// TimeSlotAllocation is the decoded allocation for a single time slot: how
// many VMs of each (app, instance class) pair are rented, and how many
// requests of each (app, source region, instance class) triple are routed.
type TimeSlotAllocation struct {
	ICs  map[ICKey]int64
	Reqs map[ReqKey]int64
}

// NewTimeSlotAllocation builds an allocation for one slot from decoded maps.
func NewTimeSlotAllocation(ics map[ICKey]int64, reqs map[ReqKey]int64) TimeSlotAllocation {
	if ics == nil {
		ics = map[ICKey]int64{}
	}
	if reqs == nil {
		reqs = map[ReqKey]int64{}
	}
	return TimeSlotAllocation{ICs: ics, Reqs: reqs}
}

// Allocation is the ordered sequence of per-slot allocations over the
// planning horizon.
type Allocation struct {
	Slots []TimeSlotAllocation
}
