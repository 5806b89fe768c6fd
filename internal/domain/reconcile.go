package domain

import (
	"slices"
	"strings"
)

// Policy selects how a remote record set is applied to the local store.
type Policy string

const (
	// PolicyMerge matches records by (text, category), each local record
	// at most once per pass. Unmatched remote records are appended,
	// matched ones overwrite the local fields, and local-only records are
	// preserved.
	PolicyMerge Policy = "merge"

	// PolicyReplace discards the local store in favour of the remote set.
	// Local additions that were never pushed are lost.
	PolicyReplace Policy = "replace"
)

// ParsePolicy converts a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(s)) {
	case PolicyMerge, "":
		return PolicyMerge, nil
	case PolicyReplace:
		return PolicyReplace, nil
	default:
		return "", NewValidationErrorWithValue("policy", "must be one of: merge replace", s)
	}
}

// Outcome summarizes what a reconciliation did.
type Outcome struct {
	Policy  Policy `json:"policy"`
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
	Removed int    `json:"removed"`
	Changed bool   `json:"changed"`
}

// Reconcile applies remote to local under policy and returns the resulting
// collection. local is never modified.
func Reconcile(local, remote []Quote, policy Policy) ([]Quote, Outcome) {
	if policy == PolicyReplace {
		return replaceAll(local, remote)
	}

	return mergeByKey(local, remote)
}

func mergeByKey(local, remote []Quote) ([]Quote, Outcome) {
	merged := Clone(local)
	matched := make([]bool, len(local))
	outcome := Outcome{Policy: PolicyMerge}

	for _, rq := range remote {
		idx := firstUnmatched(local, matched, rq.Key())
		if idx == -1 {
			merged = append(merged, rq)
			outcome.Added++

			continue
		}

		matched[idx] = true

		if merged[idx] != rq {
			merged[idx] = rq
			outcome.Updated++
		}
	}

	outcome.Changed = !slices.Equal(local, merged)

	return merged, outcome
}

// firstUnmatched returns the index of the first local record with key that
// no earlier remote record claimed, or -1.
func firstUnmatched(local []Quote, matched []bool, key Key) int {
	for i, q := range local {
		if !matched[i] && q.Key() == key {
			return i
		}
	}

	return -1
}

// replaceAll pairs remote records with local ones of the same key in
// order. Paired records with different fields count as updated.
func replaceAll(local, remote []Quote) ([]Quote, Outcome) {
	outcome := Outcome{
		Policy:  PolicyReplace,
		Changed: !slices.Equal(local, remote),
	}

	if !outcome.Changed {
		return Clone(remote), outcome
	}

	pending := make(map[Key][]int, len(local))
	for i, q := range local {
		pending[q.Key()] = append(pending[q.Key()], i)
	}

	for _, rq := range remote {
		slots := pending[rq.Key()]
		if len(slots) == 0 {
			outcome.Added++
			continue
		}

		if local[slots[0]] != rq {
			outcome.Updated++
		}

		pending[rq.Key()] = slots[1:]
	}

	for _, slots := range pending {
		outcome.Removed += len(slots)
	}

	return Clone(remote), outcome
}
