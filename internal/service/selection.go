package service

import "sort"

// Selection tracks the document identifiers marked for a bulk action. It is
// scoped to the page currently displayed; callers guard concurrent access.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips membership of id.
func (s *Selection) Toggle(id string) {
	if id == "" {
		return
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// ToggleAll clears the selection when every visible document is already
// selected, otherwise selects exactly the visible documents. Prior selection
// is replaced, not merged; selection never spans pages.
func (s *Selection) ToggleAll(pageIDs []string) {
	if s.IsAllSelected(pageIDs) {
		s.Clear()
		return
	}
	s.ids = make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// IsSelected reports membership; an empty id is never selected.
func (s *Selection) IsSelected(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// IsAllSelected reports whether the page is non-empty and every visible
// document is selected.
func (s *Selection) IsAllSelected(pageIDs []string) bool {
	if len(pageIDs) == 0 {
		return false
	}
	for _, id := range pageIDs {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// IsIndeterminate reports a partial selection against the visible page.
func (s *Selection) IsIndeterminate(pageSize int) bool {
	return len(s.ids) > 0 && len(s.ids) < pageSize
}

// Count returns the number of selected documents.
func (s *Selection) Count() int {
	return len(s.ids)
}

// Snapshot returns the selected identifiers in stable order.
func (s *Selection) Snapshot() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Remove drops the given identifiers from the selection.
func (s *Selection) Remove(ids ...string) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// PruneTo drops every identifier not present in the given page, restoring
// the invariant that selection only references visible documents.
func (s *Selection) PruneTo(pageIDs []string) {
	visible := make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		visible[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := visible[id]; !ok {
			delete(s.ids, id)
		}
	}
}
