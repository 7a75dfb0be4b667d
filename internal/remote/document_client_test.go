package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiva/doc-registry/internal/dto"
	"github.com/arkiva/doc-registry/internal/models"
	appErrors "github.com/arkiva/doc-registry/pkg/errors"
)

func TestListDocumentsQueryParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(dto.PaginatedDocuments{Page: 2, Limit: 10, Pages: 3, Total: 23})
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	q := models.DefaultQuery(10)
	q.Page = 2
	q.Search = "memo"
	q.Status = "Filed"
	q.DepartmentID = "dept-1"

	page, err := client.ListDocuments(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/document/paginated", gotPath)
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.Equal(t, []string{"memo"}, gotQuery["search"])
	assert.Equal(t, []string{"Filed"}, gotQuery["status"])
	assert.Equal(t, []string{"dept-1"}, gotQuery["department_id"])
	assert.Equal(t, []string{"created_date"}, gotQuery["sort_field"])
	assert.Equal(t, []string{"-1"}, gotQuery["sort_order"])
	assert.NotContains(t, gotQuery, "document_type_id")
	assert.Equal(t, 23, page.Total)
}

func TestListDocumentsAscendingSortOrder(t *testing.T) {
	var gotOrder string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrder = r.URL.Query().Get("sort_order")
		_ = json.NewEncoder(w).Encode(dto.PaginatedDocuments{})
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	q := models.DefaultQuery(10)
	require.NoError(t, q.SetSort(models.SortByTitle))

	_, err := client.ListDocuments(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "1", gotOrder)
}

func TestListDocumentsRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	_, err := client.ListDocuments(context.Background(), models.DefaultQuery(10))
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRemote.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "500")
}

func TestCreateDocumentExpectsCreated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateDocumentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Quarterly report", req.Title)
		assert.Equal(t, "registrar", req.CreatedBy)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "doc-1"})
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	resp, err := client.CreateDocument(context.Background(), dto.CreateDocumentRequest{
		DocumentTypeID: "type-memo",
		Title:          "Quarterly report",
		CreatedBy:      "registrar",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", resp.DocumentID())
}

func TestCreateDocumentRejectsOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "doc-1"})
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	_, err := client.CreateDocument(context.Background(), dto.CreateDocumentRequest{DocumentTypeID: "t", Title: "x"})
	require.Error(t, err)
}

func TestUpdateDocumentMultipartBody(t *testing.T) {
	var form map[string][]string
	var fileName string
	var fileContent []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/document/doc-1", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		form = r.MultipartForm.Value
		if headers := r.MultipartForm.File["file"]; len(headers) > 0 {
			fileName = headers[0].Filename
			f, err := headers[0].Open()
			require.NoError(t, err)
			defer f.Close()
			buf := make([]byte, headers[0].Size)
			_, _ = f.Read(buf)
			fileContent = buf
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	title := "Renamed"
	status := models.StatusFiled
	err := client.UpdateDocument(context.Background(), models.DocumentUpdate{
		ID:     "doc-1",
		Title:  &title,
		Status: &status,
		File:   &models.FileUpload{Name: "scan.pdf", Content: []byte("pdf")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Renamed"}, form["title"])
	// The status field travels under doc_status, never status.
	assert.Equal(t, []string{"Filed"}, form["doc_status"])
	assert.NotContains(t, form, "status")
	assert.NotContains(t, form, "document_type_id")
	assert.Equal(t, "scan.pdf", fileName)
	assert.Equal(t, []byte("pdf"), fileContent)
}

func TestBulkRequests(t *testing.T) {
	var bodies = map[string]map[string]interface{}{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	require.NoError(t, client.BulkUpdateStatus(context.Background(), "Filed", []string{"a", "b"}))
	require.NoError(t, client.BulkDelete(context.Background(), []string{"c"}))

	statusBody := bodies["/document/bulk-update-status"]
	assert.Equal(t, "Filed", statusBody["status"])
	assert.Equal(t, []interface{}{"a", "b"}, statusBody["document_ids"])

	deleteBody := bodies["/document/bulk-delete"]
	assert.Equal(t, []interface{}{"c"}, deleteBody["document_ids"])
}

func TestCountStatusNullBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	counts, err := client.CountStatus(context.Background(), "dept-1")
	require.NoError(t, err)
	require.NotNil(t, counts)
	assert.Equal(t, 0, counts.NotFiled())
}

func TestDownloadAttachmentFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		_, _ = w.Write([]byte("pdf-bytes"))
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	attachment, err := client.DownloadAttachment(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", attachment.Filename)
	assert.Equal(t, []byte("pdf-bytes"), attachment.Content)
}

func TestDownloadAttachmentDefaultFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw"))
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	attachment, err := client.DownloadAttachment(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultDownloadName, attachment.Filename)
}

func TestDownloadAttachmentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	_, err := client.DownloadAttachment(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestIdentityAndRequestIDHeaders(t *testing.T) {
	var userHeader, requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userHeader = r.Header.Get("X-User-Name")
		requestID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode([]dto.APIDocument{})
	}))
	defer server.Close()

	client := New(server.URL, Options{Identity: func() string { return "registrar" }})
	_, err := client.ListAllDocuments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "registrar", userHeader)
	assert.NotEmpty(t, requestID)
}

func TestEmptyIdentityOmitsHeader(t *testing.T) {
	headerPresent := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, headerPresent = r.Header["X-User-Name"]
		_ = json.NewEncoder(w).Encode([]dto.APIDocument{})
	}))
	defer server.Close()

	client := New(server.URL, Options{Identity: func() string { return "" }})
	_, err := client.ListAllDocuments(context.Background())
	require.NoError(t, err)
	assert.False(t, headerPresent)
}

func TestDirectoryEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/department":
			_ = json.NewEncoder(w).Encode([]dto.APIDepartment{{ID: "dept-1", Name: "Administration"}})
		case "/department/dept-1/document-types":
			_ = json.NewEncoder(w).Encode([]dto.APIDocumentType{{ID: "type-memo", Prefix: "ADM/MEM"}})
		case "/users/admin/registrar":
			_ = json.NewEncoder(w).Encode(map[string]bool{"isAdmin": true})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, Options{})

	departments, err := client.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "Administration", departments[0].Name)

	types, err := client.ListDocumentTypes(context.Background(), "dept-1")
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "ADM/MEM", types[0].Prefix)

	isAdmin, err := client.IsAdmin(context.Background(), "registrar")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	_, err := client.ListDocuments(context.Background(), models.DefaultQuery(10))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformed.Code, appErrors.FromError(err).Code)
}
