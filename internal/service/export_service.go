package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arkiva/doc-registry/internal/dto"
	appErrors "github.com/arkiva/doc-registry/pkg/errors"
	"github.com/arkiva/doc-registry/pkg/export"
	"github.com/arkiva/doc-registry/pkg/storage"
)

// ExportFormat selects the rendered output.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

var exportColumns = []string{"Ref No", "Title", "Created By", "Created Date", "Status"}

// ExportAPI is the slice of the remote service feeding exports.
type ExportAPI interface {
	ListAllDocuments(ctx context.Context) ([]dto.APIDocument, error)
}

// ExportService renders a department's documents to CSV or PDF files. It
// fetches the whole collection and filters client-side, since the export
// endpoint of the registry is not paginated.
type ExportService struct {
	remote ExportAPI
	files  *storage.Local
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs the export service writing into dir.
func NewExportService(remote ExportAPI, dir string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{remote: remote, files: storage.NewLocal(dir), logger: logger, now: time.Now}
}

// Export fetches the collection, keeps the documents of the given department
// (and document type, when set) and writes the rendered file. It returns the
// path of the written file.
func (s *ExportService) Export(ctx context.Context, departmentID, documentTypeID string, format ExportFormat) (string, error) {
	if departmentID == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "department id is required")
	}
	if format != ExportCSV && format != ExportPDF {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown export format %q", format))
	}

	docs, err := s.remote.ListAllDocuments(ctx)
	if err != nil {
		s.logger.Error("fetch documents for export failed", zap.Error(err))
		return "", appErrors.FromError(err)
	}

	table := export.Table{Columns: exportColumns}
	for _, doc := range docs {
		if doc.DepartmentID != departmentID {
			continue
		}
		if documentTypeID != "" && doc.DocumentTypeID != documentTypeID {
			continue
		}
		table.Rows = append(table.Rows, map[string]string{
			"Ref No":       doc.RefNo,
			"Title":        doc.Title,
			"Created By":   doc.CreatedBy,
			"Created Date": doc.CreatedDate,
			"Status":       doc.Status,
		})
	}

	var content []byte
	switch format {
	case ExportCSV:
		content, err = export.RenderCSV(table)
	case ExportPDF:
		content, err = export.RenderPDF(table, "Documents")
	}
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}

	name := fmt.Sprintf("documents_%s.%s", s.now().Format("20060102_150405"), format)
	path, err := s.files.Save(name, content)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write export file")
	}

	s.logger.Info("export written", zap.String("path", path), zap.Int("rows", len(table.Rows)))
	return path, nil
}
