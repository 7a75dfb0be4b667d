package remote

import (
	"context"

	"github.com/arkiva/doc-registry/internal/dto"
)

// ListDepartments fetches all departments with their nested document types.
func (c *Client) ListDepartments(ctx context.Context) ([]dto.APIDepartment, error) {
	var departments []dto.APIDepartment
	if err := c.getJSON(ctx, "/department", nil, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// ListDocumentTypes fetches the document types registered in a department.
func (c *Client) ListDocumentTypes(ctx context.Context, departmentID string) ([]dto.APIDocumentType, error) {
	var types []dto.APIDocumentType
	if err := c.getJSON(ctx, "/department/"+departmentID+"/document-types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

type adminCheckResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// IsAdmin asks the registry whether the named user has admin rights.
func (c *Client) IsAdmin(ctx context.Context, username string) (bool, error) {
	var resp adminCheckResponse
	if err := c.getJSON(ctx, "/users/admin/"+username, nil, &resp); err != nil {
		return false, err
	}
	return resp.IsAdmin, nil
}
