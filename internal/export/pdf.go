// File path: internal/export/pdf.go
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/logicforge/logicforge/internal/store"
)

// RenderPDF builds the program design document: title page, table of
// contents, then one section per design step.
func RenderPDF(record *store.ProgramRecord, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(19, 19, 19)
	pdf.SetAutoPageBreak(true, 19)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Title page.
	pdf.AddPage()
	pdf.Ln(60)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0x1a, 0x36, 0x5d)
	pdf.CellFormat(0, 12, tr("Program Design Document"), "", 1, "C", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0x2d, 0x37, 0x48)
	pdf.CellFormat(0, 10, tr(record.Program.Title), "", 1, "C", false, 0, "")
	pdf.Ln(20)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr("Generated on "+now.Format("January 2, 2006")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, tr("Created with LogicForge"), "", 1, "C", false, 0, "")

	// Table of contents.
	pdf.AddPage()
	sectionHeader(pdf, tr, "Table of Contents")
	for _, item := range []string{
		"1. Challenge Statement & Root Cause Analysis",
		"2. Stakeholder Mapping",
		"3. Evidence-Based Interventions",
		"4. Outcomes & Indicators",
		"5. Monitoring Framework",
	} {
		bodyText(pdf, tr, item)
	}

	// Section 1: problem statement.
	pdf.AddPage()
	sectionHeader(pdf, tr, "1. Challenge Statement & Root Cause Analysis")
	if ps := record.ProblemStatement; ps != nil {
		subHeader(pdf, tr, "Challenge Statement")
		bodyText(pdf, tr, ps.ChallengeText)
		if ps.RefinedText != "" {
			subHeader(pdf, tr, "Refined Problem Statement")
			bodyText(pdf, tr, ps.RefinedText)
		}
		if len(ps.RootCauses) > 0 {
			subHeader(pdf, tr, "Root Causes")
			for i, cause := range ps.RootCauses {
				bodyText(pdf, tr, fmt.Sprintf("%d. %s", i+1, cause))
			}
		}
		if ps.Theme != "" {
			pdf.Ln(2)
			bodyText(pdf, tr, "Theme: "+ps.Theme)
		}
	} else {
		bodyText(pdf, tr, "No problem statement defined.")
	}

	// Section 2: stakeholders.
	pdf.Ln(8)
	sectionHeader(pdf, tr, "2. Stakeholder Mapping")
	if len(record.Stakeholders) > 0 {
		widths := []float64{38, 38, 68, 22}
		tableHeader(pdf, tr, widths, []string{"Stakeholder", "Role", "Engagement Strategy", "Priority"})
		for _, sh := range record.Stakeholders {
			tableRow(pdf, tr, widths, []string{
				truncate(sh.Name, 40),
				truncate(sh.Role, 40),
				truncate(sh.EngagementStrategy, 50),
				capitalize(sh.Priority),
			})
		}
	} else {
		bodyText(pdf, tr, "No stakeholders defined.")
	}

	// Section 3: proven models.
	pdf.Ln(8)
	sectionHeader(pdf, tr, "3. Evidence-Based Interventions")
	if len(record.SelectedModels) > 0 {
		for _, selected := range record.SelectedModels {
			subHeader(pdf, tr, selected.Model.Name)
			bodyText(pdf, tr, selected.Model.Description)
			if selected.Model.EvidenceBase != "" {
				italicText(pdf, tr, "Evidence Base: "+selected.Model.EvidenceBase)
			}
			if selected.Notes != "" {
				italicText(pdf, tr, "Adoption Notes: "+selected.Notes)
			}
			pdf.Ln(4)
		}
	} else {
		bodyText(pdf, tr, "No proven models selected.")
	}

	// Section 4: outcomes and indicators.
	pdf.AddPage()
	sectionHeader(pdf, tr, "4. Outcomes & Indicators")
	if len(record.Outcomes) > 0 {
		for _, entry := range record.Outcomes {
			subHeader(pdf, tr, "Outcome: "+entry.Outcome.Description)
			if len(entry.Indicators) > 0 {
				widths := []float64{20, 90, 34, 22}
				tableHeader(pdf, tr, widths, []string{"Type", "Indicator", "Target", "Frequency"})
				for _, ind := range entry.Indicators {
					tableRow(pdf, tr, widths, []string{
						capitalize(ind.Type),
						truncate(ind.Description, 60),
						truncate(ind.TargetValue, 30),
						truncate(ind.Frequency, 18),
					})
				}
			}
			pdf.Ln(6)
		}
	} else {
		bodyText(pdf, tr, "No outcomes defined.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0x2d, 0x37, 0x48)
	pdf.CellFormat(0, 10, tr(text), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func subHeader(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0x4a, 0x55, 0x68)
	pdf.MultiCell(0, 7, tr(text), "", "L", false)
	pdf.Ln(1)
}

func bodyText(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 6, tr(text), "", "L", false)
}

func italicText(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(0x4a, 0x55, 0x68)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
}

func tableHeader(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(0x2d, 0x37, 0x48)
	pdf.SetTextColor(0xf5, 0xf5, 0xf5)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 8, tr(label), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func tableRow(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cells []string) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetFillColor(0xf7, 0xfa, 0xfc)
	pdf.SetTextColor(0, 0, 0)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}
