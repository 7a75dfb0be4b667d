package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arkiva/doc-registry/internal/dto"
	"github.com/arkiva/doc-registry/internal/models"
	appErrors "github.com/arkiva/doc-registry/pkg/errors"
	"github.com/arkiva/doc-registry/pkg/storage"
)

// BulkActionDelete selects the bulk-delete path; any other action is treated
// as a target status for a bulk status update.
const BulkActionDelete = "Delete"

// DocumentAPI is the slice of the remote Document Service the controller
// needs.
type DocumentAPI interface {
	ListDocuments(ctx context.Context, q models.Query) (dto.PaginatedDocuments, error)
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (dto.CreateDocumentResponse, error)
	UpdateDocument(ctx context.Context, update models.DocumentUpdate) error
	DeleteDocument(ctx context.Context, id string) error
	BulkUpdateStatus(ctx context.Context, status string, ids []string) error
	BulkDelete(ctx context.Context, ids []string) error
	CountStatus(ctx context.Context, departmentID string) (models.StatusCounts, error)
	DownloadAttachment(ctx context.Context, id string) (models.Attachment, error)
}

// DocumentOptions tunes a DocumentService instance.
type DocumentOptions struct {
	// Identity supplies the created_by value for new documents.
	Identity func() string
	// DownloadDir receives saved attachments.
	DownloadDir string
	// PageSize is the initial page size; defaults to 10.
	PageSize int
	// RecencyTTL overrides DefaultRecencyTTL.
	RecencyTTL time.Duration
	// Now injects a clock for recency deadlines; nil uses the wall clock.
	Now func() time.Time
}

// DocumentService owns the paginated view over the remote document
// collection for one listing session: query state, the current page result,
// the bulk-action selection, the recently-added highlight set and the
// per-department status counts. The remote service is the single source of
// truth; every mutation ends with a fresh authoritative fetch.
type DocumentService struct {
	remote     DocumentAPI
	validator  *validator.Validate
	logger     *zap.Logger
	identity   func() string
	downloads  *storage.Local
	recencyTTL time.Duration

	mu        sync.Mutex
	query     models.Query
	page      models.PageResult
	counts    models.StatusCounts
	selection *Selection
	recency   *RecencySet
	busy      bool
	fetchSeq  uint64
	closed    bool
}

// NewDocumentService constructs the collection controller. One instance
// backs one listing view; call Close when the view goes away.
func NewDocumentService(remote DocumentAPI, validate *validator.Validate, logger *zap.Logger, opts DocumentOptions) *DocumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := opts.RecencyTTL
	if ttl <= 0 {
		ttl = DefaultRecencyTTL
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	identity := opts.Identity
	if identity == nil {
		identity = func() string { return "" }
	}
	q := models.DefaultQuery(pageSize)
	return &DocumentService{
		remote:     remote,
		validator:  validate,
		logger:     logger,
		identity:   identity,
		downloads:  storage.NewLocal(opts.DownloadDir),
		recencyTTL: ttl,
		query:      q,
		page:       models.EmptyPageResult(q.Limit),
		counts:     models.StatusCounts{},
		selection:  NewSelection(),
		recency:    NewRecencySet(opts.Now),
	}
}

// Close tears the controller down: in-flight responses are no longer
// honored and all transient state is dropped.
func (s *DocumentService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.fetchSeq++
	s.selection.Clear()
	s.recency.Clear()
	s.busy = false
}

// FetchPage requests the page described by the current query state and, on
// success, replaces the page result wholesale. Responses that lost a race
// against a later fetch are discarded. A failed list fetch zeroes the page
// result so stale rows are never shown as current.
func (s *DocumentService) FetchPage(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.busy = true
	s.fetchSeq++
	seq := s.fetchSeq
	q := s.query
	s.mu.Unlock()

	page, err := s.remote.ListDocuments(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq || s.closed {
		s.logger.Debug("stale page response discarded", zap.Uint64("seq", seq))
		return nil
	}
	s.busy = false

	if err != nil {
		s.page = models.EmptyPageResult(q.Limit)
		s.selection.PruneTo(nil)
		s.logger.Error("list documents failed", zap.Error(err))
		return appErrors.FromError(err)
	}

	s.applyPage(page, q)
	return nil
}

// applyPage maps the wire page onto display documents and restores the
// selection invariant. Callers hold the lock.
func (s *DocumentService) applyPage(page dto.PaginatedDocuments, q models.Query) {
	docs := make([]models.Document, 0, len(page.Documents))
	ids := make([]string, 0, len(page.Documents))
	for _, doc := range page.Documents {
		mapped := mapDocument(doc)
		docs = append(docs, mapped)
		ids = append(ids, mapped.ID)
	}

	result := models.PageResult{
		Documents:  docs,
		Total:      page.Total,
		TotalPages: page.Pages,
		Page:       page.Page,
		Limit:      page.Limit,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	}
	if result.TotalPages <= 0 {
		result.TotalPages = 1
	}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.Limit <= 0 {
		result.Limit = q.Limit
	}

	s.page = result
	// The server echoes the page/size it actually served.
	s.query.Page = result.Page
	s.query.Limit = result.Limit
	s.selection.PruneTo(ids)
}

func mapDocument(doc dto.APIDocument) models.Document {
	prefix, sequence := models.SplitRefNo(doc.RefNo)
	return models.Document{
		ID:             doc.ID,
		RefNo:          doc.RefNo,
		RefPrefix:      prefix,
		RefSequence:    sequence,
		Title:          doc.Title,
		CreatedBy:      doc.CreatedBy,
		CreatedDate:    doc.CreatedDate,
		Status:         models.DocumentStatus(doc.Status),
		DocumentTypeID: doc.DocumentTypeID,
		DepartmentID:   doc.DepartmentID,
		FileID:         doc.FileID,
		FiledBy:        doc.FiledBy,
		FiledDate:      doc.FiledDate,
	}
}

// FetchStatusCounts refreshes the per-status aggregate for a department.
// Failure leaves the previously displayed counts untouched.
func (s *DocumentService) FetchStatusCounts(ctx context.Context, departmentID string) error {
	counts, err := s.remote.CountStatus(ctx, departmentID)
	if err != nil {
		s.logger.Error("count status failed", zap.String("department_id", departmentID), zap.Error(err))
		return appErrors.FromError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.counts = counts
	return nil
}

// CreateDocument registers a new document, marks it as recently added and
// resynchronizes the page.
func (s *DocumentService) CreateDocument(ctx context.Context, input models.NewDocument) error {
	if err := s.validator.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document payload")
	}

	s.setBusy(true)
	defer s.setBusy(false)

	req := dto.CreateDocumentRequest{
		DocumentTypeID: input.DocumentTypeID,
		Title:          input.Title,
		DepartmentID:   input.DepartmentID,
		CreatedBy:      s.identity(),
	}
	resp, err := s.remote.CreateDocument(ctx, req)
	if err != nil {
		s.logger.Error("create document failed", zap.Error(err))
		return appErrors.FromError(err)
	}

	if id := resp.DocumentID(); id != "" {
		s.mu.Lock()
		s.recency.Mark(id, s.recencyTTL)
		s.mu.Unlock()
	}

	return s.FetchPage(ctx)
}

// UpdateDocument submits a partial update and resynchronizes the page.
func (s *DocumentService) UpdateDocument(ctx context.Context, update models.DocumentUpdate) error {
	if err := s.validator.Struct(update); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	s.setBusy(true)
	defer s.setBusy(false)

	if err := s.remote.UpdateDocument(ctx, update); err != nil {
		s.logger.Error("update document failed", zap.String("id", update.ID), zap.Error(err))
		return appErrors.FromError(err)
	}

	return s.FetchPage(ctx)
}

// DeleteDocument removes a document, prunes it from the selection and
// recency sets and resynchronizes the page.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "document id is required")
	}

	s.setBusy(true)
	defer s.setBusy(false)

	if err := s.remote.DeleteDocument(ctx, id); err != nil {
		s.logger.Error("delete document failed", zap.String("id", id), zap.Error(err))
		return appErrors.FromError(err)
	}

	s.mu.Lock()
	s.selection.Remove(id)
	s.recency.Unmark(id)
	s.mu.Unlock()

	return s.FetchPage(ctx)
}

// ApplyBulkAction applies a status change or deletion to the target
// documents. A nil target list means the current selection snapshot; the
// snapshot is taken before anything mutates, so a bulk delete never iterates
// a set it is pruning.
func (s *DocumentService) ApplyBulkAction(ctx context.Context, action string, targetIDs []string) error {
	if targetIDs == nil {
		targetIDs = s.SelectedIDs()
	}
	if len(targetIDs) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no target documents")
	}
	if action != BulkActionDelete && !models.DocumentStatus(action).Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown bulk action %q", action))
	}

	s.setBusy(true)
	defer s.setBusy(false)

	if action == BulkActionDelete {
		if err := s.remote.BulkDelete(ctx, targetIDs); err != nil {
			s.logger.Error("bulk delete failed", zap.Int("count", len(targetIDs)), zap.Error(err))
			return appErrors.FromError(err)
		}
		s.mu.Lock()
		s.selection.Remove(targetIDs...)
		for _, id := range targetIDs {
			s.recency.Unmark(id)
		}
		s.mu.Unlock()
	} else {
		if err := s.remote.BulkUpdateStatus(ctx, action, targetIDs); err != nil {
			s.logger.Error("bulk status update failed", zap.String("status", action), zap.Error(err))
			return appErrors.FromError(err)
		}
	}

	return s.FetchPage(ctx)
}

// DownloadAttachment fetches a document's attachment and saves it under the
// download directory. Downloads are best effort: failures are logged and an
// empty path is returned, never an error.
func (s *DocumentService) DownloadAttachment(ctx context.Context, id string) string {
	attachment, err := s.remote.DownloadAttachment(ctx, id)
	if err != nil {
		s.logger.Warn("download attachment failed", zap.String("id", id), zap.Error(err))
		return ""
	}

	path, err := s.downloads.Save(attachment.Filename, attachment.Content)
	if err != nil {
		s.logger.Warn("save attachment failed", zap.String("id", id), zap.Error(err))
		return ""
	}
	return path
}

// SetSort changes or toggles the sort field, resets to the first page and
// refetches.
func (s *DocumentService) SetSort(ctx context.Context, field string) error {
	s.mu.Lock()
	if err := s.query.SetSort(field); err != nil {
		s.mu.Unlock()
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sort field")
	}
	s.mu.Unlock()
	return s.FetchPage(ctx)
}

// Filter replaces the named filter values, resets to the first page when
// anything changed and refetches.
func (s *DocumentService) Filter(ctx context.Context, update models.FilterUpdate) error {
	s.mu.Lock()
	s.query.ApplyFilter(update)
	s.mu.Unlock()
	return s.FetchPage(ctx)
}

// NextPage advances one page when one is available.
func (s *DocumentService) NextPage(ctx context.Context) error {
	s.mu.Lock()
	hasNext := s.page.HasNext
	s.query.NextPage(hasNext)
	s.mu.Unlock()
	if !hasNext {
		return nil
	}
	return s.FetchPage(ctx)
}

// PreviousPage steps back one page when one is available.
func (s *DocumentService) PreviousPage(ctx context.Context) error {
	s.mu.Lock()
	hasPrev := s.page.HasPrev
	s.query.PreviousPage(hasPrev)
	s.mu.Unlock()
	if !hasPrev {
		return nil
	}
	return s.FetchPage(ctx)
}

// ToggleSelect flips selection of one document.
func (s *DocumentService) ToggleSelect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Toggle(id)
}

// ToggleSelectAll selects or clears the visible page.
func (s *DocumentService) ToggleSelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ToggleAll(s.pageIDs())
}

// ClearSelection empties the selection.
func (s *DocumentService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// ClearRecencyMarks drops every "just added" highlight.
func (s *DocumentService) ClearRecencyMarks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recency.Clear()
}

func (s *DocumentService) pageIDs() []string {
	ids := make([]string, 0, len(s.page.Documents))
	for _, doc := range s.page.Documents {
		ids = append(ids, doc.ID)
	}
	return ids
}

func (s *DocumentService) setBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = busy
}

// Query returns a copy of the current query state.
func (s *DocumentService) Query() models.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Page returns the current page result.
func (s *DocumentService) Page() models.PageResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// StatusCounts returns the last fetched per-status aggregate.
func (s *DocumentService) StatusCounts() models.StatusCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(models.StatusCounts, len(s.counts))
	for status, n := range s.counts {
		counts[status] = n
	}
	return counts
}

// Busy reports whether a remote-touching operation is in flight.
func (s *DocumentService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// IsSelected reports selection of one document.
func (s *DocumentService) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IsSelected(id)
}

// IsAllSelected reports whether the non-empty visible page is fully selected.
func (s *DocumentService) IsAllSelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IsAllSelected(s.pageIDs())
}

// IsIndeterminate reports a partial selection of the visible page.
func (s *DocumentService) IsIndeterminate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IsIndeterminate(len(s.page.Documents))
}

// SelectedCount returns the size of the selection.
func (s *DocumentService) SelectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Count()
}

// SelectedIDs returns a snapshot of the selection in stable order.
func (s *DocumentService) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Snapshot()
}

// IsRecent reports whether a document is still inside its "just added"
// highlight window. Membership is time-driven and survives intervening
// fetches.
func (s *DocumentService) IsRecent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recency.IsMarked(id)
}

// PaginationText renders the listing summary line.
func (s *DocumentService) PaginationText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit := s.page.Limit
	if limit <= 0 {
		limit = 1
	}
	totalPages := (s.page.Total + limit - 1) / limit
	if totalPages <= 0 {
		totalPages = 1
	}
	return fmt.Sprintf("Page %d of %d — Total %d records", s.query.Page, totalPages, s.page.Total)
}
