package entity

// Prestation is one billable row on an invoice or quotation.
// Amounts are plain float64 values, no currency rounding is applied at
// this layer.
type Prestation struct {
	Title     string  `json:"title" bson:"title" validate:"required"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Quantity  float64 `json:"quantity" bson:"quantity"`
	Vat       float64 `json:"vat" bson:"vat"`
	Total     float64 `json:"total" bson:"total"`
}

// Normalize recomputes the derived total. The value received on the wire
// is never trusted.
func (p *Prestation) Normalize() {
	p.Total = p.UnitPrice * p.Quantity
}

// TotalVat is the VAT amount for this row.
func (p *Prestation) TotalVat() float64 {
	return p.UnitPrice * p.Quantity * (p.Vat / 100)
}

type Prestations []Prestation

// Normalize recomputes the derived total of every row.
func (pp Prestations) Normalize() {
	for i := range pp {
		pp[i].Normalize()
	}
}

// TotalWithoutCharge is the sum of all row totals, zero for an empty list.
func (pp Prestations) TotalWithoutCharge() float64 {
	var total float64
	for i := range pp {
		total += pp[i].Total
	}
	return total
}

// TotalVat is the sum of all row VAT amounts.
func (pp Prestations) TotalVat() float64 {
	var total float64
	for i := range pp {
		total += pp[i].TotalVat()
	}
	return total
}

// Total is the grand total, charge plus VAT.
func (pp Prestations) Total() float64 {
	return pp.TotalWithoutCharge() + pp.TotalVat()
}

// ByVatRate groups VAT amounts by the exact rates present in the list.
func (pp Prestations) ByVatRate() map[float64]float64 {
	totals := make(map[float64]float64)
	for i := range pp {
		totals[pp[i].Vat] += pp[i].TotalVat()
	}
	return totals
}

// Paginate splits the rows into print pages. The breakpoints come from
// the PDF layout: a short list fits on a single page, longer lists leave
// room for the header on the first page and the totals block on the last.
func (pp Prestations) Paginate() []Prestations {
	switch n := len(pp); {
	case n <= 8:
		return []Prestations{pp}
	case n <= 12:
		return pp.splitAt(10)
	case n <= 24:
		return pp.splitAt(16)
	default:
		pages := []Prestations{pp[:12]}
		rest := pp[12:]
		full := len(rest) / 20
		for i := 0; i < full; i++ {
			pages = append(pages, rest[i*20:(i+1)*20])
		}
		// the remainder page may be empty, the layout keeps it for
		// the totals block
		return append(pages, rest[full*20:])
	}
}

func (pp Prestations) splitAt(at int) []Prestations {
	if at > len(pp) {
		at = len(pp)
	}
	return []Prestations{pp[:at], pp[at:]}
}
