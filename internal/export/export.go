// File path: internal/export/export.go
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/logicforge/logicforge/internal/store"
)

// Document formats produced by the exporter.
const (
	FormatPDF     = "pdf"
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatDonor   = "donor"
	FormatXLSForm = "xlsform"
)

// Service assembles program records and renders them into downloadable
// documents. Rendering itself is pure; persistence of the export event is the
// workflow manager's job.
type Service struct {
	store *store.Store
}

// NewService constructs an export service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Assemble loads the complete design record for a program.
func (s *Service) Assemble(ctx context.Context, programID string) (*store.ProgramRecord, error) {
	return s.store.FullRecord(ctx, programID)
}

// RenderJSON produces the canonical JSON dump of a design record. Documents
// are excluded so repeated exports of unchanged data stay byte-identical.
func RenderJSON(record *store.ProgramRecord) ([]byte, error) {
	snapshot := *record
	snapshot.Documents = nil
	data, err := json.MarshalIndent(&snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal program record: %w", err)
	}
	return data, nil
}

// FileName builds a download file name from the program title, mirroring the
// "Title_With_Underscores_Program_Design.ext" convention.
func FileName(title, suffix, ext string) string {
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if name == "" {
		name = "Program"
	}
	return fmt.Sprintf("%s_%s.%s", name, suffix, ext)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
