// internal/grouping/grouping.go
// Package grouping clusters flat collaboration records into entity
// groups keyed by derived identity. Grouping is a pure function of
// the input list: identical input yields identical groups and
// ordering regardless of call history or input order.
package grouping

import (
	"sort"

	"github.com/botuai88-lab/Sohaco-KOC/internal/dates"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

// Group clusters records by identity key. Records with an empty
// derived key are orphaned and excluded. Within a group the history
// is ordered newest-first by cooperation date; records whose date
// does not parse sort as oldest. The representative (MainInfo) is the
// head of the sorted history. Groups are returned ordered by
// identity key so output does not depend on map iteration.
func Group(records []domain.KOC) []domain.EntityGroup {
	byKey := make(map[string][]domain.KOC)
	keys := make([]string, 0)
	for _, r := range records {
		key := r.IdentityKey()
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], r)
	}
	sort.Strings(keys)

	groups := make([]domain.EntityGroup, 0, len(keys))
	for _, key := range keys {
		members := append([]domain.KOC(nil), byKey[key]...)
		sortNewestFirst(members)
		groups = append(groups, domain.EntityGroup{
			Identifier:     key,
			MainInfo:       members[0],
			Collaborations: members,
		})
	}
	return groups
}

func sortNewestFirst(members []domain.KOC) {
	sort.SliceStable(members, func(i, j int) bool {
		ti, iok := dates.ParseCanonical(members[i].CooperationDate)
		tj, jok := dates.ParseCanonical(members[j].CooperationDate)
		if iok != jok {
			return iok // parseable dates come before unparseable ones
		}
		return ti.After(tj)
	})
}

// UniqueEntityCount counts distinct identity keys across the records,
// with the same orphan exclusion as Group.
func UniqueEntityCount(records []domain.KOC) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		if key := r.IdentityKey(); key != "" {
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}
