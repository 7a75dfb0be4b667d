package models

import "strings"

// DocumentStatus is the lifecycle status of a registry document.
type DocumentStatus string

const (
	StatusNotFiled  DocumentStatus = "NotFiled"
	StatusFiled     DocumentStatus = "Filed"
	StatusSuspended DocumentStatus = "Suspended"
)

// Valid reports whether the status is one of the enumerated values.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusNotFiled, StatusFiled, StatusSuspended:
		return true
	}
	return false
}

// Document is a registry record as displayed by the client. Optional fields
// default to the empty string, never to a missing value.
type Document struct {
	ID             string
	RefNo          string
	RefPrefix      string
	RefSequence    string
	Title          string
	CreatedBy      string
	CreatedDate    string
	Status         DocumentStatus
	DocumentTypeID string
	DepartmentID   string
	FileID         string
	FiledBy        string
	FiledDate      string
}

// SplitRefNo splits a reference number on its last "/" separator into a
// prefix and a display sequence. A reference without a separator is all
// sequence.
func SplitRefNo(ref string) (prefix, sequence string) {
	idx := strings.LastIndex(ref, "/")
	if idx < 0 {
		return "", ref
	}
	return ref[:idx], ref[idx+1:]
}

// PageResult is the authoritative server-returned slice of documents plus
// pagination metadata. It is replaced wholesale on every successful fetch.
type PageResult struct {
	Documents  []Document
	Total      int
	TotalPages int
	Page       int
	Limit      int
	HasNext    bool
	HasPrev    bool
}

// EmptyPageResult is the zeroed state applied when a list fetch fails, so
// stale data is never displayed as current.
func EmptyPageResult(limit int) PageResult {
	return PageResult{Documents: []Document{}, Total: 0, TotalPages: 1, Page: 1, Limit: limit}
}

// StatusCounts maps a status name to the number of documents holding it,
// scoped to a department.
type StatusCounts map[string]int

func (c StatusCounts) NotFiled() int  { return c[string(StatusNotFiled)] }
func (c StatusCounts) Filed() int     { return c[string(StatusFiled)] }
func (c StatusCounts) Suspended() int { return c[string(StatusSuspended)] }

// DocumentType describes a reference-number series within a department.
type DocumentType struct {
	ID          string
	Name        string
	Prefix      string
	Padding     int
	CreatedDate string
}

// Department groups document types and scopes status counts.
type Department struct {
	ID            string
	Name          string
	CreatedDate   string
	DocumentTypes []DocumentType
}
