package core

import "errors"

// ErrDuplicateName is returned when two apps, or two instance classes,
// share a name within a System.
var ErrDuplicateName = errors.New("duplicate name")

// ErrInconsistentWorkloads is returned when a Problem's workloads do not
// share a single time-slot unit and length, or when none are supplied.
var ErrInconsistentWorkloads = errors.New("inconsistent workloads")

// ErrEmptyWorkload is returned when every workload value in a Problem is
// zero, since at least one allocator strategy divides by total requests.
var ErrEmptyWorkload = errors.New("empty workload")
