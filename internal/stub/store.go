package stub

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arkiva/doc-registry/internal/dto"
	"github.com/arkiva/doc-registry/internal/models"
)

// ListParams mirrors the query parameters of the paginated listing endpoint.
type ListParams struct {
	Page           int
	Limit          int
	Search         string
	Status         string
	DepartmentID   string
	DocumentTypeID string
	SortField      string
	SortOrder      int
}

type record struct {
	doc      dto.APIDocument
	filename string
	file     []byte
}

// Store is the in-memory document collection behind the stub service.
type Store struct {
	mu          sync.RWMutex
	docs        map[string]*record
	order       []string
	seq         map[string]int
	departments []dto.APIDepartment
	admins      map[string]bool
	now         func() time.Time
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		docs:   make(map[string]*record),
		seq:    make(map[string]int),
		admins: make(map[string]bool),
		now:    time.Now,
	}
}

// SeedDepartments installs the department/document-type directory.
func (s *Store) SeedDepartments(departments []dto.APIDepartment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments = departments
}

// SeedAdmin marks a username as admin.
func (s *Store) SeedAdmin(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[username] = true
}

// Departments returns the directory.
func (s *Store) Departments() []dto.APIDepartment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dto.APIDepartment(nil), s.departments...)
}

// DocumentTypes returns the document types of one department, or false when
// the department is unknown.
func (s *Store) DocumentTypes(departmentID string) ([]dto.APIDocumentType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dept := range s.departments {
		if dept.ID == departmentID {
			return append([]dto.APIDocumentType(nil), dept.DocumentTypes...), true
		}
	}
	return nil, false
}

// IsAdmin reports whether the username was seeded as admin.
func (s *Store) IsAdmin(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admins[username]
}

func (s *Store) documentType(id string) (dto.APIDocumentType, string, bool) {
	for _, dept := range s.departments {
		for _, t := range dept.DocumentTypes {
			if t.ID == id {
				return t, dept.ID, true
			}
		}
	}
	return dto.APIDocumentType{}, "", false
}

// Create registers a document, assigning an identifier and the next
// reference number of its document-type series.
func (s *Store) Create(req dto.CreateDocumentRequest) dto.APIDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := dto.APIDocument{
		ID:             uuid.NewString(),
		Title:          req.Title,
		CreatedBy:      req.CreatedBy,
		CreatedDate:    s.now().UTC().Format(time.RFC3339),
		Status:         string(models.StatusNotFiled),
		DocumentTypeID: req.DocumentTypeID,
		DepartmentID:   req.DepartmentID,
	}

	prefix := "DOC"
	padding := 4
	if t, deptID, ok := s.documentType(req.DocumentTypeID); ok {
		prefix = t.Prefix
		if t.Padding > 0 {
			padding = t.Padding
		}
		if doc.DepartmentID == "" {
			doc.DepartmentID = deptID
		}
	}
	s.seq[req.DocumentTypeID]++
	doc.RefNo = fmt.Sprintf("%s/%0*d", prefix, padding, s.seq[req.DocumentTypeID])

	s.docs[doc.ID] = &record{doc: doc}
	s.order = append(s.order, doc.ID)
	return doc
}

// Update applies the present multipart fields to a document.
func (s *Store) Update(id string, fields map[string]string, filename string, file []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.docs[id]
	if !ok {
		return false
	}
	if v, ok := fields["title"]; ok {
		rec.doc.Title = v
	}
	if v, ok := fields["document_type_id"]; ok {
		rec.doc.DocumentTypeID = v
	}
	if v, ok := fields["department_id"]; ok {
		rec.doc.DepartmentID = v
	}
	if v, ok := fields["doc_status"]; ok {
		rec.doc.Status = v
	}
	if v, ok := fields["filed_by"]; ok {
		rec.doc.FiledBy = v
	}
	if v, ok := fields["filed_date"]; ok {
		rec.doc.FiledDate = v
	}
	if file != nil {
		rec.doc.FileID = uuid.NewString()
		rec.filename = filename
		rec.file = file
	}
	return true
}

// Delete removes one document.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Store) deleteLocked(id string) bool {
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// BulkDelete removes every listed document; unknown ids are skipped.
func (s *Store) BulkDelete(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.deleteLocked(id)
	}
}

// BulkStatus applies one status to every listed document.
func (s *Store) BulkStatus(status string, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if rec, ok := s.docs[id]; ok {
			rec.doc.Status = status
		}
	}
}

// Attachment returns the stored file of a document.
func (s *Store) Attachment(id string) (string, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.docs[id]
	if !ok || rec.file == nil {
		return "", nil, false
	}
	return rec.filename, rec.file, true
}

// CountStatus aggregates the documents of one department by status.
func (s *Store) CountStatus(departmentID string) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, id := range s.order {
		doc := s.docs[id].doc
		if doc.DepartmentID == departmentID {
			counts[doc.Status]++
		}
	}
	return counts
}

// All returns every document in insertion order.
func (s *Store) All() []dto.APIDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]dto.APIDocument, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.docs[id].doc)
	}
	return docs
}

// List filters, sorts and paginates the collection.
func (s *Store) List(params ListParams) dto.PaginatedDocuments {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	matched := make([]dto.APIDocument, 0)
	for _, doc := range s.All() {
		if params.Status != "" && doc.Status != params.Status {
			continue
		}
		if params.DepartmentID != "" && doc.DepartmentID != params.DepartmentID {
			continue
		}
		if params.DocumentTypeID != "" && doc.DocumentTypeID != params.DocumentTypeID {
			continue
		}
		if params.Search != "" && !matchesSearch(doc, params.Search) {
			continue
		}
		matched = append(matched, doc)
	}

	sortDocuments(matched, params.SortField, params.SortOrder)

	total := len(matched)
	pages := (total + params.Limit - 1) / params.Limit
	if pages < 1 {
		pages = 1
	}
	start := (params.Page - 1) * params.Limit
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	return dto.PaginatedDocuments{
		Documents: matched[start:end],
		Total:     total,
		Pages:     pages,
		Page:      params.Page,
		Limit:     params.Limit,
		HasNext:   params.Page < pages,
		HasPrev:   params.Page > 1 && params.Page <= pages+1,
	}
}

func matchesSearch(doc dto.APIDocument, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(doc.Title), search) ||
		strings.Contains(strings.ToLower(doc.RefNo), search) ||
		strings.Contains(strings.ToLower(doc.CreatedBy), search)
}

func sortDocuments(docs []dto.APIDocument, field string, order int) {
	key := func(doc dto.APIDocument) string {
		switch field {
		case "ref_no":
			return doc.RefNo
		case "title":
			return doc.Title
		case "created_by":
			return doc.CreatedBy
		case "status":
			return doc.Status
		default:
			return doc.CreatedDate
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if order < 0 {
			return key(docs[i]) > key(docs[j])
		}
		return key(docs[i]) < key(docs[j])
	})
}
