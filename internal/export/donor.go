// File path: internal/export/donor.go
package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/logicforge/logicforge/internal/store"
)

// Donor formats supported by RenderDonor.
const (
	DonorUSAID = "usaid"
	DonorGates = "gates"
	DonorFCDO  = "fcdo"
)

var donorTemplates = template.Must(template.New("donor").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"inc":   func(i int) int { return i + 1 },
}).Parse(`
{{- define "usaid" -}}
RESULTS FRAMEWORK
{{ upper .Program.Title }}
Prepared {{ .Date }}

GOAL
{{ if .ProblemStatement }}{{ with .ProblemStatement.RefinedText }}{{ . }}{{ else }}{{ .ProblemStatement.ChallengeText }}{{ end }}{{ else }}To be defined.{{ end }}

INTERMEDIATE RESULTS
{{ range $i, $o := .Outcomes }}IR {{ inc $i }}: {{ $o.Outcome.Description }}
{{ range $o.Indicators }}  Indicator: {{ .Description }}
    Baseline: {{ with .BaselineValue }}{{ . }}{{ else }}TBD{{ end }} | Target: {{ with .TargetValue }}{{ . }}{{ else }}TBD{{ end }} | Frequency: {{ with .Frequency }}{{ . }}{{ else }}TBD{{ end }}
{{ end }}{{ else }}No intermediate results defined.
{{ end }}
CRITICAL ASSUMPTIONS
{{ if .ProblemStatement }}{{ range .ProblemStatement.RootCauses }}- Addressing: {{ . }}
{{ end }}{{ end -}}
{{ end -}}

{{- define "gates" -}}
THEORY OF CHANGE
{{ .Program.Title }}
Prepared {{ .Date }}

PROBLEM
{{ if .ProblemStatement }}{{ .ProblemStatement.ChallengeText }}{{ else }}To be defined.{{ end }}

EVIDENCE-BASED STRATEGIES
{{ range .SelectedModels }}- {{ .Model.Name }}: {{ .Model.Description }}
{{ else }}No strategies selected.
{{ end }}
INTENDED OUTCOMES
{{ range .Outcomes }}- {{ .Outcome.Description }}{{ with .Outcome.Timeframe }} ({{ . }}){{ end }}
{{ else }}No outcomes defined.
{{ end }}
KEY STAKEHOLDERS
{{ range .Stakeholders }}- {{ .Name }} ({{ .Role }})
{{ else }}No stakeholders mapped.
{{ end -}}
{{ end -}}

{{- define "fcdo" -}}
LOGICAL FRAMEWORK
{{ .Program.Title }}
Prepared {{ .Date }}

IMPACT
{{ if .ProblemStatement }}{{ with .ProblemStatement.RefinedText }}{{ . }}{{ else }}{{ .ProblemStatement.ChallengeText }}{{ end }}{{ else }}To be defined.{{ end }}

{{ range $i, $o := .Outcomes }}OUTCOME {{ inc $i }}
{{ $o.Outcome.Description }}
{{ range $o.Indicators }}  {{ upper .Type }} INDICATOR: {{ .Description }}
    Baseline: {{ with .BaselineValue }}{{ . }}{{ else }}TBD{{ end }}
    Milestone/Target: {{ with .TargetValue }}{{ . }}{{ else }}TBD{{ end }}
    Source: {{ with .DataSource }}{{ . }}{{ else }}TBD{{ end }}
{{ end }}
{{ else }}No outcomes defined.
{{ end -}}
{{ end -}}
`))

type donorContext struct {
	*store.ProgramRecord
	Date string
}

// RenderDonor renders the record into one of the supported donor formats.
func RenderDonor(record *store.ProgramRecord, format string, now time.Time) ([]byte, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case DonorUSAID, DonorGates, DonorFCDO:
	default:
		return nil, fmt.Errorf("unsupported donor format %q", format)
	}
	var buf bytes.Buffer
	ctx := donorContext{ProgramRecord: record, Date: now.Format("2 January 2006")}
	if err := donorTemplates.ExecuteTemplate(&buf, format, ctx); err != nil {
		return nil, fmt.Errorf("render donor template: %w", err)
	}
	return buf.Bytes(), nil
}
