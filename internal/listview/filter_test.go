package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	Name    string
	Phone   string
	Status  string
	Created time.Time
}

var rowSpec = Spec[row]{
	Text: []Field[row]{
		func(r row) string { return r.Name },
		func(r row) string { return r.Phone },
	},
	Categories: map[string]Field[row]{
		"status": func(r row) string { return r.Status },
	},
}

func sampleRows() []row {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return []row{
		{Name: "Aliya Nurlanova", Phone: "+77011112233", Status: "pending", Created: now.Add(-time.Hour)},
		{Name: "Marat Ospanov", Phone: "+77012223344", Status: "pending", Created: now.Add(-6 * 24 * time.Hour)},
		{Name: "Elena Petrova", Phone: "+77013334455", Status: "contacted", Created: now.Add(-8 * 24 * time.Hour)},
		{Name: "ALIYA B", Phone: "+77019999999", Status: "completed", Created: now.Add(-30 * 24 * time.Hour)},
	}
}

func names(rs []row) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	rows := sampleRows()

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query keeps all", Query{}, names(rows)},
		{"case-insensitive text", Query{Text: "aliya"}, []string{"Aliya Nurlanova", "ALIYA B"}},
		{"text on any field", Query{Text: "2223"}, []string{"Marat Ospanov"}},
		{"trimmed text", Query{Text: "  petrova "}, []string{"Elena Petrova"}},
		{"category", Query{Exact: map[string]string{"status": "pending"}}, []string{"Aliya Nurlanova", "Marat Ospanov"}},
		{"text and category", Query{Text: "aliya", Exact: map[string]string{"status": "completed"}}, []string{"ALIYA B"}},
		{"all disables category", Query{Exact: map[string]string{"status": All}}, names(rows)},
		{"unknown category ignored", Query{Exact: map[string]string{"role": "admin"}}, names(rows)},
		{"category is exact", Query{Exact: map[string]string{"status": "Pending"}}, []string{}},
		{"no match", Query{Text: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(rows, rowSpec, tt.q)))
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	rows := sampleRows()
	queries := []Query{
		{},
		{Text: "a"},
		{Text: "+7701"},
		{Exact: map[string]string{"status": "pending"}},
		{Text: "ov", Exact: map[string]string{"status": "pending"}},
		{Text: "nothing"},
	}
	for _, q := range queries {
		once := Filter(rows, rowSpec, q)
		twice := Filter(once, rowSpec, q)
		assert.Equal(t, once, twice, "query %+v", q)
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	rows := sampleRows()
	before := names(rows)

	_ = Filter(rows, rowSpec, Query{Text: "marat"})
	assert.Equal(t, before, names(rows))
}

func TestStats(t *testing.T) {
	rows := sampleRows()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	counts := CountBy(rows, func(r row) string { return r.Status })
	assert.Equal(t, map[string]int{"pending": 2, "contacted": 1, "completed": 1}, counts)

	recent := CreatedSince(rows, func(r row) time.Time { return r.Created }, now.Add(-RecentWindow))
	assert.Equal(t, 2, recent)
}
