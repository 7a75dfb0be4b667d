package dto

// APIDocument is a document as serialized by the remote Document Service.
type APIDocument struct {
	ID             string `json:"_id"`
	RefNo          string `json:"ref_no"`
	Title          string `json:"title"`
	CreatedBy      string `json:"created_by"`
	CreatedDate    string `json:"created_date"`
	Status         string `json:"status"`
	DocumentTypeID string `json:"document_type_id"`
	DepartmentID   string `json:"department_id"`
	FileID         string `json:"file_id,omitempty"`
	FiledBy        string `json:"filed_by,omitempty"`
	FiledDate      string `json:"filed_date,omitempty"`
}

// PaginatedDocuments is the body of GET /document/paginated.
type PaginatedDocuments struct {
	Documents []APIDocument `json:"documents"`
	Total     int           `json:"total"`
	Pages     int           `json:"pages"`
	Page      int           `json:"page"`
	Limit     int           `json:"limit"`
	HasNext   bool          `json:"has_next"`
	HasPrev   bool          `json:"has_prev"`
}

// CreateDocumentRequest is the body of POST /document/.
type CreateDocumentRequest struct {
	DocumentTypeID string `json:"document_type_id" validate:"required"`
	Title          string `json:"title" validate:"required"`
	DepartmentID   string `json:"department_id,omitempty"`
	CreatedBy      string `json:"created_by,omitempty"`
}

// CreateDocumentResponse carries the new identifier; some registry versions
// answer with "id", older ones with "_id".
type CreateDocumentResponse struct {
	ID    string `json:"id"`
	AltID string `json:"_id"`
}

// DocumentID returns whichever identifier field the service populated.
func (r CreateDocumentResponse) DocumentID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.AltID
}

// BulkStatusRequest is the body of POST /document/bulk-update-status.
type BulkStatusRequest struct {
	Status      string   `json:"status"`
	DocumentIDs []string `json:"document_ids"`
}

// BulkDeleteRequest is the body of POST /document/bulk-delete.
type BulkDeleteRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

// APIDocumentType is a document type as serialized by the remote service.
type APIDocumentType struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Prefix      string `json:"prefix"`
	Padding     int    `json:"padding"`
	CreatedDate string `json:"created_date"`
}

// APIDepartment is a department with its nested document types.
type APIDepartment struct {
	ID            string            `json:"_id"`
	Name          string            `json:"name"`
	CreatedDate   string            `json:"created_date"`
	DocumentTypes []APIDocumentType `json:"document_types"`
}
