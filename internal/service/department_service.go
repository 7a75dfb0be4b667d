package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/arkiva/doc-registry/internal/dto"
	"github.com/arkiva/doc-registry/internal/models"
	appErrors "github.com/arkiva/doc-registry/pkg/errors"
)

const (
	cacheKeyDepartments   = "departments"
	cacheKeyDocumentTypes = "document-types:"
)

// DirectoryAPI is the slice of the remote service serving reference data.
type DirectoryAPI interface {
	ListDepartments(ctx context.Context) ([]dto.APIDepartment, error)
	ListDocumentTypes(ctx context.Context, departmentID string) ([]dto.APIDocumentType, error)
}

// DepartmentService serves departments and their document types, with a TTL
// reference cache in front of the remote service.
type DepartmentService struct {
	remote DirectoryAPI
	cache  *CacheService
	logger *zap.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(remote DirectoryAPI, cache *CacheService, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{remote: remote, cache: cache, logger: logger}
}

// Departments lists every department with its nested document types.
func (s *DepartmentService) Departments(ctx context.Context) ([]models.Department, error) {
	var cached []models.Department
	if hit, _ := s.cache.Get(ctx, cacheKeyDepartments, &cached); hit {
		return cached, nil
	}

	raw, err := s.remote.ListDepartments(ctx)
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, appErrors.FromError(err)
	}

	departments := make([]models.Department, 0, len(raw))
	for _, dept := range raw {
		departments = append(departments, mapDepartment(dept))
	}

	_ = s.cache.Set(ctx, cacheKeyDepartments, departments, 0)
	return departments, nil
}

// DocumentTypes lists the document types registered in one department.
func (s *DepartmentService) DocumentTypes(ctx context.Context, departmentID string) ([]models.DocumentType, error) {
	if departmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department id is required")
	}

	key := cacheKeyDocumentTypes + departmentID
	var cached []models.DocumentType
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	raw, err := s.remote.ListDocumentTypes(ctx, departmentID)
	if err != nil {
		s.logger.Error("list document types failed", zap.String("department_id", departmentID), zap.Error(err))
		return nil, appErrors.FromError(err)
	}

	types := make([]models.DocumentType, 0, len(raw))
	for _, t := range raw {
		types = append(types, mapDocumentType(t))
	}

	_ = s.cache.Set(ctx, key, types, 0)
	return types, nil
}

func mapDepartment(dept dto.APIDepartment) models.Department {
	types := make([]models.DocumentType, 0, len(dept.DocumentTypes))
	for _, t := range dept.DocumentTypes {
		types = append(types, mapDocumentType(t))
	}
	return models.Department{
		ID:            dept.ID,
		Name:          dept.Name,
		CreatedDate:   dept.CreatedDate,
		DocumentTypes: types,
	}
}

func mapDocumentType(t dto.APIDocumentType) models.DocumentType {
	return models.DocumentType{
		ID:          t.ID,
		Name:        t.Name,
		Prefix:      t.Prefix,
		Padding:     t.Padding,
		CreatedDate: t.CreatedDate,
	}
}
