// File path: internal/export/xlsform.go
package export

import (
	"fmt"
	"strings"

	"github.com/logicforge/logicforge/internal/store"
)

// FormField is one question in a generated data-collection form.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Hint     string   `json:"hint,omitempty"`
	Target   string   `json:"target,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

// GeneratedForm is a data-collection form derived from program indicators.
type GeneratedForm struct {
	FormTitle   string      `json:"form_title"`
	ProgramID   string      `json:"program_id"`
	Fields      []FormField `json:"fields"`
	TotalFields int         `json:"total_fields"`
}

// BuildForm converts indicators into form fields with standard metadata
// questions up front. Field types are inferred from the indicator wording.
func BuildForm(programID, title string, indicators []store.Indicator) *GeneratedForm {
	fields := []FormField{
		{Name: "school_name", Label: "School/Center Name", Type: "text", Required: true},
		{Name: "data_collector", Label: "Data Collector Name", Type: "text", Required: true},
		{Name: "collection_date", Label: "Collection Date", Type: "date", Required: true},
	}
	for i, ind := range indicators {
		fields = append(fields, FormField{
			Name:     fmt.Sprintf("indicator_%d", i+1),
			Label:    ind.Description,
			Type:     inferFieldType(ind.Description, "number", "select"),
			Required: true,
			Hint:     ind.MeasurementMethod,
			Target:   ind.TargetValue,
		})
	}
	return &GeneratedForm{
		FormTitle:   title,
		ProgramID:   programID,
		Fields:      fields,
		TotalFields: len(fields),
	}
}

// RenderXLSForm produces the tab-separated XLSForm sheets (survey, choices,
// settings) importable into ODK or KoboToolbox.
func RenderXLSForm(title string, indicators []store.Indicator) []byte {
	var b strings.Builder
	b.WriteString("=== SURVEY SHEET ===\n")
	b.WriteString("type\tname\tlabel\trequired\thint\n")
	b.WriteString("start\tstart\t\t\t\n")
	b.WriteString("end\tend\t\t\t\n")
	b.WriteString("today\ttoday\t\t\t\n")
	b.WriteString("text\tschool_name\tSchool/Center Name\tyes\tEnter the name of the school or center\n")
	b.WriteString("text\tdata_collector\tData Collector Name\tyes\tYour name\n")
	b.WriteString("date\tcollection_date\tData Collection Date\tyes\t\n")

	for i, ind := range indicators {
		fieldName := fmt.Sprintf("indicator_%d", i+1)
		fieldType := inferFieldType(ind.Description, "integer", "select_one yes_no")
		fmt.Fprintf(&b, "%s\t%s\t%s\tyes\t%s\n", fieldType, fieldName, ind.Description, ind.MeasurementMethod)
		if ind.TargetValue != "" {
			fmt.Fprintf(&b, "note\t%s_target\tTarget: %s\t\t\n", fieldName, ind.TargetValue)
		}
	}
	b.WriteString("text\tobservations\tAdditional Observations\tno\tAny other relevant information\n")

	b.WriteString("\n=== CHOICES SHEET ===\n")
	b.WriteString("list_name\tname\tlabel\n")
	b.WriteString("yes_no\tyes\tYes\n")
	b.WriteString("yes_no\tno\tNo\n")

	b.WriteString("\n=== SETTINGS SHEET ===\n")
	b.WriteString("form_title\tform_id\n")
	fmt.Fprintf(&b, "%s\t%s\n", title, strings.ReplaceAll(strings.ToLower(title), " ", "_"))

	return []byte(b.String())
}

func inferFieldType(description, numericType, selectType string) string {
	lower := strings.ToLower(description)
	for _, word := range []string{"percentage", "rate", "score", "number", "count"} {
		if strings.Contains(lower, word) {
			return numericType
		}
	}
	for _, word := range []string{"yes/no", "completed", "achieved"} {
		if strings.Contains(lower, word) {
			return selectType
		}
	}
	return "text"
}
