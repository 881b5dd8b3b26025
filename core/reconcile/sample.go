package reconcile

import "db-compare/core/utils"

// ShouldStop reports whether a scan has reached its sample cap.
// A cap of zero or less means unlimited.
func ShouldStop(c Counters, sampleCap int64) bool {
	return sampleCap > 0 && c.Rows >= sampleCap
}

// ApplyExclusion drops excluded keys from Matched and Missing.
// Extra rows are never excluded.
func ApplyExclusion(result ReconciliationResult, key string, excluded map[string]struct{}) ReconciliationResult {
	if len(excluded) == 0 {
		return result
	}

	out := ReconciliationResult{Extra: result.Extra}
	for _, p := range result.Matched {
		if _, skip := excluded[utils.ToString(p.A[key])]; skip {
			continue
		}
		out.Matched = append(out.Matched, p)
	}
	for _, row := range result.Missing {
		if _, skip := excluded[utils.ToString(row[key])]; skip {
			continue
		}
		out.Missing = append(out.Missing, row)
	}
	return out
}

// KeySet builds a lookup set from keys.
func KeySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
