package stub

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/arkiva/doc-registry/internal/dto"
	"github.com/arkiva/doc-registry/internal/models"
)

// Handler exposes the stub rendition of the Document Service contract.
type Handler struct {
	store     *Store
	validator *validator.Validate
}

// NewHandler constructs the stub handler.
func NewHandler(store *Store, validate *validator.Validate) *Handler {
	if validate == nil {
		validate = validator.New()
	}
	return &Handler{store: store, validator: validate}
}

// ListPaginated serves GET /document/paginated.
func (h *Handler) ListPaginated(c *gin.Context) {
	params := ListParams{
		Search:         strings.TrimSpace(c.Query("search")),
		Status:         c.Query("status"),
		DepartmentID:   c.Query("department_id"),
		DocumentTypeID: c.Query("document_type_id"),
		SortField:      c.DefaultQuery("sort_field", "created_date"),
		SortOrder:      -1,
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		params.Limit = limit
	}
	if order, err := strconv.Atoi(c.DefaultQuery("sort_order", "-1")); err == nil {
		params.SortOrder = order
	}

	c.JSON(http.StatusOK, h.store.List(params))
}

// ListAll serves GET /document.
func (h *Handler) ListAll(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.All())
}

// Create serves POST /document/.
func (h *Handler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := h.store.Create(req)
	c.JSON(http.StatusCreated, gin.H{"id": doc.ID, "ref_no": doc.RefNo})
}

// Update serves PUT /document/{id} with a multipart body of present fields.
func (h *Handler) Update(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart body"})
		return
	}

	fields := make(map[string]string)
	for _, key := range []string{"title", "document_type_id", "department_id", "doc_status", "filed_by", "filed_date"} {
		if values, ok := c.Request.MultipartForm.Value[key]; ok && len(values) > 0 {
			fields[key] = values[0]
		}
	}
	if status, ok := fields["doc_status"]; ok && !models.DocumentStatus(status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document status"})
		return
	}

	var filename string
	var content []byte
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file part"})
			return
		}
		defer file.Close()
		content, err = io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file part"})
			return
		}
		filename = fileHeader.Filename
	}

	if !h.store.Update(c.Param("id"), fields, filename, content) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Delete serves DELETE /document/{id}.
func (h *Handler) Delete(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// BulkUpdateStatus serves POST /document/bulk-update-status.
func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !models.DocumentStatus(req.Status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document status"})
		return
	}
	h.store.BulkStatus(req.Status, req.DocumentIDs)
	c.JSON(http.StatusOK, gin.H{"updated": len(req.DocumentIDs)})
}

// BulkDelete serves POST /document/bulk-delete.
func (h *Handler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.store.BulkDelete(req.DocumentIDs)
	c.JSON(http.StatusOK, gin.H{"deleted": len(req.DocumentIDs)})
}

// CountStatus serves GET /document/count_status/{departmentId}.
func (h *Handler) CountStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.CountStatus(c.Param("departmentId")))
}

// Download serves GET /document/download/{id}.
func (h *Handler) Download(c *gin.Context) {
	filename, content, ok := h.store.Attachment(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}
	if filename != "" {
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// Departments serves GET /department.
func (h *Handler) Departments(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Departments())
}

// DocumentTypes serves GET /department/{id}/document-types.
func (h *Handler) DocumentTypes(c *gin.Context) {
	types, ok := h.store.DocumentTypes(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
		return
	}
	c.JSON(http.StatusOK, types)
}

// AdminCheck serves GET /users/admin/{username}.
func (h *Handler) AdminCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isAdmin": h.store.IsAdmin(c.Param("username"))})
}
