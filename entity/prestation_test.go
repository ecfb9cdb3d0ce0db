package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rows(n int) Prestations {
	pp := make(Prestations, n)
	for i := range pp {
		pp[i] = Prestation{Title: "row", UnitPrice: 10, Quantity: 1, Vat: 20}
	}
	pp.Normalize()
	return pp
}

func TestPrestationNormalize(t *testing.T) {
	p := Prestation{Title: "dev", UnitPrice: 400, Quantity: 2.5, Total: 999}
	p.Normalize()
	assert.Equal(t, 1000.0, p.Total)
}

func TestPrestationsTotals(t *testing.T) {
	pp := Prestations{
		{Title: "dev", UnitPrice: 500, Quantity: 2, Vat: 20},
		{Title: "design", UnitPrice: 300, Quantity: 1, Vat: 10},
	}
	pp.Normalize()

	assert.Equal(t, 1300.0, pp.TotalWithoutCharge())
	assert.InDelta(t, 230.0, pp.TotalVat(), 1e-9)
	assert.InDelta(t, 1530.0, pp.Total(), 1e-9)
}

func TestPrestationsTotalsEmpty(t *testing.T) {
	var pp Prestations
	assert.Equal(t, 0.0, pp.TotalWithoutCharge())
	assert.Equal(t, 0.0, pp.TotalVat())
	assert.Equal(t, 0.0, pp.Total())
}

func TestPrestationsByVatRate(t *testing.T) {
	pp := Prestations{
		{Title: "a", UnitPrice: 100, Quantity: 1, Vat: 20},
		{Title: "b", UnitPrice: 200, Quantity: 1, Vat: 20},
		{Title: "c", UnitPrice: 100, Quantity: 1, Vat: 0},
	}
	pp.Normalize()

	byRate := pp.ByVatRate()
	assert.Len(t, byRate, 2)
	assert.InDelta(t, 60.0, byRate[20], 1e-9)
	assert.Equal(t, 0.0, byRate[0])
}

func TestPrestationsPaginate(t *testing.T) {
	cases := []struct {
		name  string
		rows  int
		pages []int
	}{
		{name: "empty", rows: 0, pages: []int{0}},
		{name: "single page", rows: 8, pages: []int{8}},
		{name: "just over one page", rows: 9, pages: []int{9, 0}},
		{name: "two short pages", rows: 12, pages: []int{10, 2}},
		{name: "two long pages", rows: 24, pages: []int{16, 8}},
		{name: "long tail", rows: 25, pages: []int{12, 13}},
		{name: "full chunks", rows: 52, pages: []int{12, 20, 20, 0}},
		{name: "chunks with remainder", rows: 60, pages: []int{12, 20, 20, 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pages := rows(tc.rows).Paginate()
			sizes := make([]int, len(pages))
			total := 0
			for i, page := range pages {
				sizes[i] = len(page)
				total += len(page)
			}
			assert.Equal(t, tc.pages, sizes)
			assert.Equal(t, tc.rows, total)
		})
	}
}
