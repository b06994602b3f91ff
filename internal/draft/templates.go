package draft

import (
	"fmt"
	"strings"
	"text/template"

	"bollette/internal/core"
)

// vendorLabels give each vendor its service description in the itemized
// breakdown. Unlisted vendors render with the bare tag.
var vendorLabels = map[core.Vendor]string{
	core.VendorEnmax: "ENMAX (Wastewater)",
	core.VendorAtco:  "ATCO (Electricity/Natural Gas)",
}

type breakdownLine struct {
	Label  string
	Amount core.Money
}

type bodyData struct {
	RentDate    string // "November 01"
	BaseRent    int64  // whole dollars
	Percent     int
	Total       core.Money
	FinalAmount core.Money
	Breakdown   []breakdownLine
}

var dualTemplate = template.Must(template.New("dual").Parse(`Hi everyone,

Attached are last month's utility bills.

Utility breakdown:
{{range .Breakdown}}{{.Label}}: ${{.Amount}}
{{end}}Total utilities: ${{.Total}}

The {{.RentDate}} rent amount is:
${{.BaseRent}} + {{.Percent}}% * ${{.Total}} = ${{.FinalAmount}}

Thank you.`))

var singleTemplate = template.Must(template.New("single").Parse(`Hi everyone,

Attached is last month's utilities bill.

The {{.RentDate}} rent amount is:
${{.BaseRent}} + {{.Percent}}% * ${{.Total}} = ${{.FinalAmount}}

Thank you.`))

func renderBody(kind core.TemplateKind, data bodyData) (string, error) {
	tmpl := singleTemplate
	if kind == core.TemplateDual {
		tmpl = dualTemplate
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", kind, err)
	}
	return sb.String(), nil
}

func vendorLabel(v core.Vendor) string {
	if label, ok := vendorLabels[v]; ok {
		return label
	}
	return string(v)
}
