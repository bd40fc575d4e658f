package grouping

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

func TestGroupByTaxCode(t *testing.T) {
	records := []domain.KOC{
		{RowID: 2, TaxCode: "A", Name: "Ngọc Anh", CooperationDate: "2024-01-01"},
		{RowID: 3, TaxCode: "A", Name: "Ngọc Anh", CooperationDate: "2024-03-01"},
		{RowID: 4, TaxCode: "B", Name: "Minh", CooperationDate: "2024-02-01"},
	}

	groups := Group(records)
	require.Len(t, groups, 2)

	byKey := map[string]domain.EntityGroup{}
	for _, g := range groups {
		byKey[g.Identifier] = g
	}

	a := byKey["A"]
	require.Len(t, a.Collaborations, 2)
	// Representative is the most recent collaboration.
	assert.Equal(t, "2024-03-01", a.MainInfo.CooperationDate)
	assert.Equal(t, "2024-03-01", a.Collaborations[0].CooperationDate)
	assert.Equal(t, "2024-01-01", a.Collaborations[1].CooperationDate)
}

func TestGroupFallsBackToNamePhone(t *testing.T) {
	records := []domain.KOC{
		{RowID: 2, Name: " Ngọc Anh ", Phone: "0912 ", CooperationDate: "2024-01-01"},
		{RowID: 3, Name: "Ngọc Anh", Phone: "0912", CooperationDate: "2024-02-01"},
		{RowID: 4, TaxCode: "-", Name: "Ngọc Anh", Phone: "0912", CooperationDate: "2024-03-01"},
	}

	// The "-" placeholder does not count as a tax code, so all three
	// records share the name+phone key.
	groups := Group(records)
	require.Len(t, groups, 1)
	assert.Equal(t, "Ngọc Anh-0912", groups[0].Identifier)
	assert.Len(t, groups[0].Collaborations, 3)
	assert.Equal(t, 4, groups[0].MainInfo.RowID)
}

func TestGroupExcludesOrphans(t *testing.T) {
	records := []domain.KOC{
		{RowID: 2, Name: "", Phone: "", CooperationDate: "2024-01-01"},
		{RowID: 3, TaxCode: "A", Name: "Minh"},
	}

	groups := Group(records)
	require.Len(t, groups, 1)
	assert.Equal(t, "A", groups[0].Identifier)
}

func TestGroupUnparseableDatesSortOldest(t *testing.T) {
	records := []domain.KOC{
		{RowID: 2, TaxCode: "A", CooperationDate: ""},
		{RowID: 3, TaxCode: "A", CooperationDate: "2023-05-01"},
		{RowID: 4, TaxCode: "A", CooperationDate: "garbage"},
		{RowID: 5, TaxCode: "A", CooperationDate: "2024-05-01"},
	}

	groups := Group(records)
	require.Len(t, groups, 1)

	history := groups[0].Collaborations
	require.Len(t, history, 4)
	assert.Equal(t, 5, history[0].RowID)
	assert.Equal(t, 3, history[1].RowID)
	// Records without a parseable date trail the rest.
	assert.Equal(t, 2, history[2].RowID)
	assert.Equal(t, 4, history[3].RowID)
}

func TestGroupIsOrderIndependent(t *testing.T) {
	records := []domain.KOC{
		{RowID: 2, TaxCode: "A", CooperationDate: "2024-01-01"},
		{RowID: 3, TaxCode: "B", CooperationDate: "2024-02-01"},
		{RowID: 4, TaxCode: "A", CooperationDate: "2024-03-01"},
		{RowID: 5, Name: "Minh", Phone: "09", CooperationDate: "2024-01-15"},
		{RowID: 6, TaxCode: "B", CooperationDate: "2023-12-01"},
	}

	want := Group(records)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.KOC(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Group(shuffled)
		require.Len(t, got, len(want))
		for j := range want {
			assert.Equal(t, want[j].Identifier, got[j].Identifier)
			assert.Equal(t, want[j].MainInfo.RowID, got[j].MainInfo.RowID)
			assert.ElementsMatch(t, rowIDs(want[j].Collaborations), rowIDs(got[j].Collaborations))
		}
	}
}

func TestGroupIsIdempotent(t *testing.T) {
	records := []domain.KOC{
		{RowID: 2, TaxCode: "A", CooperationDate: "2024-01-01"},
		{RowID: 3, TaxCode: "A", CooperationDate: "2024-03-01"},
	}

	first := Group(records)
	second := Group(records)
	assert.Equal(t, first, second)
}

func TestUniqueEntityCount(t *testing.T) {
	records := []domain.KOC{
		{TaxCode: "A"},
		{TaxCode: "A"},
		{Name: "Minh", Phone: "09"},
		{Name: "", Phone: ""}, // orphan, not counted
		{TaxCode: "-", Name: "", Phone: ""},
	}
	assert.Equal(t, 2, UniqueEntityCount(records))
}

func rowIDs(ks []domain.KOC) []int {
	out := make([]int, len(ks))
	for i, k := range ks {
		out[i] = k.RowID
	}
	return out
}
