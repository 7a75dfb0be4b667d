package models

// NewDocument is the input for registering a document.
type NewDocument struct {
	DocumentTypeID string `validate:"required"`
	Title          string `validate:"required"`
	DepartmentID   string
}

// Attachment is the downloaded binary content of a document's attached file.
type Attachment struct {
	Filename string
	Content  []byte
}

// FileUpload is an attachment submitted alongside a document update.
type FileUpload struct {
	Name    string
	Content []byte
}

// DocumentUpdate is a partial update; nil fields are omitted from the
// outgoing payload entirely.
type DocumentUpdate struct {
	ID             string `validate:"required"`
	Title          *string
	DocumentTypeID *string
	Status         *DocumentStatus
	DepartmentID   *string
	FiledBy        *string
	FiledDate      *string
	File           *FileUpload
}
