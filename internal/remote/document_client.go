package remote

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/arkiva/doc-registry/internal/dto"
	"github.com/arkiva/doc-registry/internal/models"
	appErrors "github.com/arkiva/doc-registry/pkg/errors"
)

// DefaultDownloadName is used when the remote service sends no filename.
const DefaultDownloadName = "downloaded_file"

var dispositionFilename = regexp.MustCompile(`filename="(.+)"`)

// ListDocuments fetches the page of documents described by the query.
func (c *Client) ListDocuments(ctx context.Context, q models.Query) (dto.PaginatedDocuments, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.DepartmentID != "" {
		params.Set("department_id", q.DepartmentID)
	}
	if q.DocumentTypeID != "" {
		params.Set("document_type_id", q.DocumentTypeID)
	}
	params.Set("sort_field", q.APISortField())
	params.Set("sort_order", strconv.Itoa(q.SortOrder()))

	var page dto.PaginatedDocuments
	if err := c.getJSON(ctx, "/document/paginated", params, &page); err != nil {
		return dto.PaginatedDocuments{}, err
	}
	return page, nil
}

// ListAllDocuments fetches the whole collection, used for exports.
func (c *Client) ListAllDocuments(ctx context.Context) ([]dto.APIDocument, error) {
	var docs []dto.APIDocument
	if err := c.getJSON(ctx, "/document", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateDocument registers a new document. Anything but a created status is
// a failure.
func (c *Client) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (dto.CreateDocumentResponse, error) {
	var resp dto.CreateDocumentResponse
	if err := c.postJSON(ctx, "/document/", req, http.StatusCreated, &resp); err != nil {
		return dto.CreateDocumentResponse{}, err
	}
	return resp, nil
}

// UpdateDocument submits a partial update as a multipart body holding only
// the present fields. The status field travels under the doc_status key.
func (c *Client) UpdateDocument(ctx context.Context, update models.DocumentUpdate) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]*string{
		"title":            update.Title,
		"document_type_id": update.DocumentTypeID,
		"department_id":    update.DepartmentID,
		"filed_by":         update.FiledBy,
		"filed_date":       update.FiledDate,
	}
	for key, value := range fields {
		if value == nil {
			continue
		}
		if err := writer.WriteField(key, *value); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode update field")
		}
	}
	if update.Status != nil {
		if err := writer.WriteField("doc_status", string(*update.Status)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode update field")
		}
	}
	if update.File != nil {
		part, err := writer.CreateFormFile("file", update.File.Name)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode file part")
		}
		if _, err := part.Write(update.File.Content); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode file part")
		}
	}
	if err := writer.Close(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "finish multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url("/document/"+update.ID, nil), body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.doJSON(req, http.StatusOK, nil)
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url("/document/"+id, nil), nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	return c.doJSON(req, http.StatusOK, nil)
}

// BulkUpdateStatus applies one status to every listed document.
func (c *Client) BulkUpdateStatus(ctx context.Context, status string, ids []string) error {
	body := dto.BulkStatusRequest{Status: status, DocumentIDs: ids}
	return c.postJSON(ctx, "/document/bulk-update-status", body, http.StatusOK, nil)
}

// BulkDelete removes every listed document.
func (c *Client) BulkDelete(ctx context.Context, ids []string) error {
	body := dto.BulkDeleteRequest{DocumentIDs: ids}
	return c.postJSON(ctx, "/document/bulk-delete", body, http.StatusOK, nil)
}

// CountStatus fetches the per-status document counts for a department.
func (c *Client) CountStatus(ctx context.Context, departmentID string) (models.StatusCounts, error) {
	var counts models.StatusCounts
	if err := c.getJSON(ctx, "/document/count_status/"+departmentID, nil, &counts); err != nil {
		return nil, err
	}
	if counts == nil {
		counts = models.StatusCounts{}
	}
	return counts, nil
}

// DownloadAttachment fetches the binary attachment of a document. The
// filename comes from the content-disposition header when present.
func (c *Client) DownloadAttachment(ctx context.Context, id string) (models.Attachment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/document/download/"+id, nil), nil)
	if err != nil {
		return models.Attachment{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Attachment{}, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "remote service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Attachment{}, statusError(resp)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Attachment{}, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "read attachment body")
	}

	filename := DefaultDownloadName
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if match := dispositionFilename.FindStringSubmatch(disposition); match != nil {
			filename = match[1]
		}
	}

	return models.Attachment{Filename: filename, Content: content}, nil
}
