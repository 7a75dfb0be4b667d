package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiva/doc-registry/internal/dto"
	appErrors "github.com/arkiva/doc-registry/pkg/errors"
)

type mockDirectoryAPI struct {
	departments     []dto.APIDepartment
	departmentCalls int
	types           map[string][]dto.APIDocumentType
	typeCalls       int
	err             error
}

func (m *mockDirectoryAPI) ListDepartments(ctx context.Context) ([]dto.APIDepartment, error) {
	m.departmentCalls++
	return m.departments, m.err
}

func (m *mockDirectoryAPI) ListDocumentTypes(ctx context.Context, departmentID string) ([]dto.APIDocumentType, error) {
	m.typeCalls++
	return m.types[departmentID], m.err
}

// memoryCacheRepo is a CacheRepository backed by a plain map, round-tripping
// values through JSON the way the Redis repository does.
type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func directoryFixture() *mockDirectoryAPI {
	return &mockDirectoryAPI{
		departments: []dto.APIDepartment{
			{
				ID:   "dept-1",
				Name: "Administration",
				DocumentTypes: []dto.APIDocumentType{
					{ID: "type-memo", Name: "Memorandum", Prefix: "ADM/MEM", Padding: 4},
				},
			},
		},
		types: map[string][]dto.APIDocumentType{
			"dept-1": {{ID: "type-memo", Name: "Memorandum", Prefix: "ADM/MEM", Padding: 4}},
		},
	}
}

func TestDepartmentsMapsWireData(t *testing.T) {
	remote := directoryFixture()
	svc := NewDepartmentService(remote, nil, nil)

	departments, err := svc.Departments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "Administration", departments[0].Name)
	require.Len(t, departments[0].DocumentTypes, 1)
	assert.Equal(t, "ADM/MEM", departments[0].DocumentTypes[0].Prefix)
}

func TestDepartmentsServedFromCache(t *testing.T) {
	remote := directoryFixture()
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDepartmentService(remote, cacheSvc, nil)

	_, err := svc.Departments(context.Background())
	require.NoError(t, err)
	departments, err := svc.Departments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, remote.departmentCalls)
	require.Len(t, departments, 1)
	assert.Equal(t, "Administration", departments[0].Name)
}

func TestDocumentTypesCachedPerDepartment(t *testing.T) {
	remote := directoryFixture()
	remote.types["dept-2"] = []dto.APIDocumentType{{ID: "type-invoice", Prefix: "FIN/INV"}}
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDepartmentService(remote, cacheSvc, nil)

	_, err := svc.DocumentTypes(context.Background(), "dept-1")
	require.NoError(t, err)
	_, err = svc.DocumentTypes(context.Background(), "dept-1")
	require.NoError(t, err)
	types, err := svc.DocumentTypes(context.Background(), "dept-2")
	require.NoError(t, err)

	assert.Equal(t, 2, remote.typeCalls)
	require.Len(t, types, 1)
	assert.Equal(t, "FIN/INV", types[0].Prefix)
}

func TestDocumentTypesRequiresDepartment(t *testing.T) {
	svc := NewDepartmentService(directoryFixture(), nil, nil)

	_, err := svc.DocumentTypes(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDepartmentsRemoteFailure(t *testing.T) {
	remote := &mockDirectoryAPI{err: errors.New("boom")}
	svc := NewDepartmentService(remote, nil, nil)

	_, err := svc.Departments(context.Background())
	require.Error(t, err)
}
