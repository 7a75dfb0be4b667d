package models

import (
	"fmt"
)

// SortDirection orders a listing ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sortable fields of the document listing.
const (
	SortByRefNo       = "ref_no"
	SortByTitle       = "title"
	SortByCreatedBy   = "created_by"
	SortByCreatedDate = "created_date"
	SortByStatus      = "status"
)

var sortFields = map[string]struct{}{
	SortByRefNo:       {},
	SortByTitle:       {},
	SortByCreatedBy:   {},
	SortByCreatedDate: {},
	SortByStatus:      {},
}

// apiSortFields maps local sort fields onto the names the remote service
// accepts. An unknown field maps to itself verbatim; the remote service is
// the final arbiter of validity.
var apiSortFields = map[string]string{
	SortByRefNo:       "ref_no",
	SortByTitle:       "title",
	SortByCreatedBy:   "created_by",
	SortByCreatedDate: "created_date",
	SortByStatus:      "status",
}

// Query holds the parameters that determine which page of the collection is
// requested. It is a pure value object; refetching belongs to its owner.
type Query struct {
	Page           int
	Limit          int
	Search         string
	Status         string
	DepartmentID   string
	DocumentTypeID string
	SortField      string
	SortDirection  SortDirection
}

// DefaultQuery returns the initial listing state: newest documents first.
func DefaultQuery(pageSize int) Query {
	if pageSize <= 0 {
		pageSize = 10
	}
	return Query{
		Page:          1,
		Limit:         pageSize,
		SortField:     SortByCreatedDate,
		SortDirection: SortDesc,
	}
}

// FilterUpdate names the filter values to replace. Nil fields are left
// untouched.
type FilterUpdate struct {
	Search         *string
	Status         *string
	DepartmentID   *string
	DocumentTypeID *string
}

// SetSort toggles the direction when field is already the active sort field,
// otherwise switches to field ascending. The page resets to 1 either way.
// Unknown fields are rejected to catch integration mistakes early.
func (q *Query) SetSort(field string) error {
	if _, ok := sortFields[field]; !ok {
		return fmt.Errorf("unknown sort field %q", field)
	}
	if q.SortField == field {
		if q.SortDirection == SortAsc {
			q.SortDirection = SortDesc
		} else {
			q.SortDirection = SortAsc
		}
	} else {
		q.SortField = field
		q.SortDirection = SortAsc
	}
	q.Page = 1
	return nil
}

// ApplyFilter replaces the named filter values. Any named change resets the
// page to 1 so a shrunken result set cannot leave the query out of range.
func (q *Query) ApplyFilter(update FilterUpdate) {
	changed := false
	if update.Search != nil {
		q.Search = *update.Search
		changed = true
	}
	if update.Status != nil {
		q.Status = *update.Status
		changed = true
	}
	if update.DepartmentID != nil {
		q.DepartmentID = *update.DepartmentID
		changed = true
	}
	if update.DocumentTypeID != nil {
		q.DocumentTypeID = *update.DocumentTypeID
		changed = true
	}
	if changed {
		q.Page = 1
	}
}

// NextPage advances one page when the last page result reported a next page.
func (q *Query) NextPage(hasNext bool) {
	if hasNext {
		q.Page++
	}
}

// PreviousPage steps back one page when the last page result reported a
// previous page.
func (q *Query) PreviousPage(hasPrev bool) {
	if hasPrev {
		q.Page--
	}
}

// APISortField resolves the remote name of the active sort field.
func (q Query) APISortField() string {
	if mapped, ok := apiSortFields[q.SortField]; ok {
		return mapped
	}
	return q.SortField
}

// SortOrder encodes the direction the way the remote service expects:
// ascending is 1, descending is -1.
func (q Query) SortOrder() int {
	if q.SortDirection == SortAsc {
		return 1
	}
	return -1
}
