package pdf

import (
	"bytes"
	"html/template"
	"strconv"

	"facture/entity"
)

var layoutTmpl = template.Must(template.New("document").Funcs(template.FuncMap{
	"amount": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"lastPage": func(pages []entity.Prestations) int {
		return len(pages) - 1
	},
}).Parse(documentHTML))

type layoutData struct {
	Doc                *entity.DocumentRender
	Heading            string
	Pages              []entity.Prestations
	TotalWithoutCharge float64
	TotalVat           float64
	Total              float64
	ByVatRate          map[float64]float64
}

// layout renders the document snapshot into the HTML handed to Chrome.
func layout(doc *entity.DocumentRender) (string, error) {
	heading := "Facture"
	if doc.Kind == entity.KindQuotation {
		heading = "Devis"
	}
	data := layoutData{
		Doc:                doc,
		Heading:            heading,
		Pages:              doc.Prestations.Paginate(),
		TotalWithoutCharge: doc.Prestations.TotalWithoutCharge(),
		TotalVat:           doc.Prestations.TotalVat(),
		Total:              doc.Prestations.Total(),
		ByVatRate:          doc.Prestations.ByVatRate(),
	}
	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const documentHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  .page { page-break-after: always; }
  .page:last-child { page-break-after: auto; }
  h1 { font-size: 20px; margin-bottom: 0; }
  .meta { color: #666; margin-bottom: 24px; }
  .parties { display: flex; justify-content: space-between; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border-bottom: 1px solid #ddd; padding: 6px 8px; text-align: left; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; margin-left: auto; width: 40%; }
  .totals td { border: none; }
  .totals .grand { font-weight: bold; border-top: 1px solid #222; }
  .rib { margin-top: 32px; font-size: 10px; color: #666; }
</style>
</head>
<body>
{{- $doc := .Doc }}
{{- $root := . }}
{{- $last := lastPage .Pages }}
{{- range $i, $page := .Pages }}
<div class="page">
  <h1>{{ $root.Heading }} {{ $doc.Reference }}</h1>
  <div class="meta">{{ if $doc.Title }}{{ $doc.Title }} &mdash; {{ end }}Émise le {{ $doc.Emitted.Format "02/01/2006" }}</div>
  {{- if eq $i 0 }}
  <div class="parties">
    <div>
      <strong>{{ $doc.Issuer.CompanyName }}</strong><br>
      {{ $doc.Issuer.FirstName }} {{ $doc.Issuer.LastName }}<br>
      {{- with $doc.Issuer.Address }}
      {{ .Street }}<br>{{ .ZipCode }} {{ .City }}<br>
      {{- end }}
      SIRET {{ $doc.Issuer.Siret }}<br>
      TVA {{ $doc.Issuer.IntracomVat }}
    </div>
    <div>
      {{- if $doc.Customer.Company }}
      <strong>{{ $doc.Customer.Name }}</strong><br>
      {{- else }}
      <strong>{{ $doc.Customer.FirstName }} {{ $doc.Customer.LastName }}</strong><br>
      {{- end }}
      {{- with $doc.Customer.Address }}
      {{ .Street }}<br>{{ .ZipCode }} {{ .City }}<br>
      {{- end }}
      {{ $doc.Customer.Email }}
    </div>
  </div>
  {{- end }}
  <table>
    <tr><th>Prestation</th><th class="num">Prix unitaire</th><th class="num">Quantité</th><th class="num">TVA %</th><th class="num">Total HT</th></tr>
    {{- range $page }}
    <tr>
      <td>{{ .Title }}</td>
      <td class="num">{{ amount .UnitPrice }}</td>
      <td class="num">{{ amount .Quantity }}</td>
      <td class="num">{{ amount .Vat }}</td>
      <td class="num">{{ amount .Total }}</td>
    </tr>
    {{- end }}
  </table>
  {{- if eq $i $last }}
  <table class="totals">
    <tr><td>Total HT</td><td class="num">{{ amount $root.TotalWithoutCharge }}</td></tr>
    {{- range $rate, $vat := $root.ByVatRate }}
    <tr><td>TVA {{ amount $rate }}%</td><td class="num">{{ amount $vat }}</td></tr>
    {{- end }}
    <tr class="grand"><td>Total TTC</td><td class="num">{{ amount $root.Total }}</td></tr>
  </table>
  {{- with $doc.Issuer.Rib }}
  <div class="rib">{{ if .Name }}{{ .Name }} &mdash; {{ end }}IBAN {{ .Iban }} &mdash; BIC {{ .Bic }}</div>
  {{- end }}
  {{- end }}
</div>
{{- end }}
</body>
</html>`
