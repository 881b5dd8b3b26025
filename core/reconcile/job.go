package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// Job is one kind of comparison. The set is closed.
type Job int

const (
	JobCounters Job = iota
	JobUpdatedAts
	JobCreatedAts
	JobByID
	JobByIDExcludingReplicaUpdatedAts
	JobSequences
	JobUpdatedAtsUntil
)

// Flavor is how a job walks a table.
type Flavor int

const (
	// FlavorScalar compares one list of strings per table.
	FlavorScalar Flavor = iota
	// FlavorLatest compares a single newest-first window.
	FlavorLatest
	// FlavorIDDescending walks (lower, upper] id windows down to zero.
	FlavorIDDescending
	// FlavorTimestampDescending pages newest-first on a keyset boundary.
	FlavorTimestampDescending
)

const (
	ColumnUpdatedAt = "updated_at"
	ColumnCreatedAt = "created_at"
)

var jobNames = map[Job]string{
	JobCounters:                       "counters",
	JobUpdatedAts:                     "updated_ats",
	JobCreatedAts:                     "created_ats",
	JobByID:                           "by_id",
	JobByIDExcludingReplicaUpdatedAts: "by_id_excluding_replica_updated_ats",
	JobSequences:                      "sequences",
	JobUpdatedAtsUntil:                "updated_ats_until",
}

var jobAliases = map[string]Job{
	"last_updated_ats": JobUpdatedAts,
	"last_created_ats": JobCreatedAts,
	"all_columns":      JobByID,
	"all_columns_excluding_replica_updated_ats": JobByIDExcludingReplicaUpdatedAts,
}

func (j Job) String() string {
	if name, ok := jobNames[j]; ok {
		return name
	}
	return fmt.Sprintf("job(%d)", int(j))
}

// Flavor returns the cursor flavor of the job.
func (j Job) Flavor() Flavor {
	switch j {
	case JobUpdatedAts, JobCreatedAts:
		return FlavorLatest
	case JobByID, JobByIDExcludingReplicaUpdatedAts:
		return FlavorIDDescending
	case JobUpdatedAtsUntil:
		return FlavorTimestampDescending
	default:
		return FlavorScalar
	}
}

// Columns returns the columns a table must have to be visited by the job.
func (j Job) Columns() []string {
	switch j {
	case JobUpdatedAts, JobUpdatedAtsUntil:
		return []string{ColumnUpdatedAt}
	case JobCreatedAts:
		return []string{ColumnCreatedAt}
	case JobByID:
		return []string{DefaultKeyColumn}
	case JobByIDExcludingReplicaUpdatedAts:
		return []string{DefaultKeyColumn, ColumnUpdatedAt}
	default:
		return nil
	}
}

// OrderColumn returns the timestamp column the job orders by, if any.
func (j Job) OrderColumn() string {
	switch j {
	case JobUpdatedAts, JobUpdatedAtsUntil:
		return ColumnUpdatedAt
	case JobCreatedAts:
		return ColumnCreatedAt
	default:
		return ""
	}
}

// Table builds the TableSpec job uses for the named table.
func (j Job) Table(name string, cutoff time.Time) TableSpec {
	return TableSpec{
		Name:        name,
		KeyColumn:   DefaultKeyColumn,
		OrderColumn: j.OrderColumn(),
		Cutoff:      cutoff,
	}
}

// ParseJob resolves a job name or one of its aliases.
func ParseJob(name string) (Job, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for j, n := range jobNames {
		if n == name {
			return j, nil
		}
	}
	if j, ok := jobAliases[name]; ok {
		return j, nil
	}
	return 0, fmt.Errorf("unknown job: %q", name)
}

// ParseJobs resolves names in order, dropping duplicates.
// An empty list yields DefaultJobs.
func ParseJobs(names []string) ([]Job, error) {
	var out []Job
	seen := make(map[Job]bool)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		j, err := ParseJob(n)
		if err != nil {
			return nil, err
		}
		if !seen[j] {
			seen[j] = true
			out = append(out, j)
		}
	}
	if len(out) == 0 {
		return DefaultJobs(), nil
	}
	return out, nil
}

// DefaultJobs is the job list used when none is configured.
func DefaultJobs() []Job {
	return []Job{JobCounters, JobUpdatedAts, JobCreatedAts, JobByID, JobSequences}
}

// JobNames lists the canonical job names.
func JobNames() []string {
	return []string{
		JobCounters.String(),
		JobUpdatedAts.String(),
		JobCreatedAts.String(),
		JobByID.String(),
		JobByIDExcludingReplicaUpdatedAts.String(),
		JobSequences.String(),
		JobUpdatedAtsUntil.String(),
	}
}
