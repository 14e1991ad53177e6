// internal/store/selection.go
package store

// SelectMode controls how Select combines ids with the current set.
type SelectMode int

const (
	// SelectReplace discards the current selection first.
	SelectReplace SelectMode = iota
	// SelectToggle flips membership of each given id.
	SelectToggle
)

// SelectionManager tracks the selected marker ids and the anchor marker
// used as the reference object for alignment-style multi-select
// operations. The anchor, when set, is always a member of the selection;
// replacing or clearing the selection without re-specifying it clears it
// too.
type SelectionManager struct {
	selected map[string]struct{}
	order    []string
	anchorID string
}

// NewSelectionManager creates an empty selection.
func NewSelectionManager() *SelectionManager {
	return &SelectionManager{
		selected: make(map[string]struct{}),
	}
}

// Select applies ids to the selection in the given mode.
func (sm *SelectionManager) Select(ids []string, mode SelectMode) {
	if mode == SelectReplace {
		sm.selected = make(map[string]struct{}, len(ids))
		sm.order = sm.order[:0]
		sm.anchorID = ""
		for _, id := range ids {
			sm.add(id)
		}
		return
	}

	for _, id := range ids {
		if _, ok := sm.selected[id]; ok {
			sm.remove(id)
		} else {
			sm.add(id)
		}
	}
	if sm.anchorID != "" {
		if _, ok := sm.selected[sm.anchorID]; !ok {
			sm.anchorID = ""
		}
	}
}

func (sm *SelectionManager) add(id string) {
	if id == "" {
		return
	}
	if _, ok := sm.selected[id]; ok {
		return
	}
	sm.selected[id] = struct{}{}
	sm.order = append(sm.order, id)
}

func (sm *SelectionManager) remove(id string) {
	delete(sm.selected, id)
	for i, oid := range sm.order {
		if oid == id {
			sm.order = append(sm.order[:i], sm.order[i+1:]...)
			break
		}
	}
}

// Deselect removes a single id, clearing the anchor if it was removed.
func (sm *SelectionManager) Deselect(id string) {
	sm.remove(id)
	if sm.anchorID == id {
		sm.anchorID = ""
	}
}

// Clear empties the selection and the anchor.
func (sm *SelectionManager) Clear() {
	sm.selected = make(map[string]struct{})
	sm.order = sm.order[:0]
	sm.anchorID = ""
}

// SetAnchor designates the reference marker. Ids outside the current
// selection are ignored.
func (sm *SelectionManager) SetAnchor(id string) {
	if _, ok := sm.selected[id]; ok {
		sm.anchorID = id
	}
}

// AnchorID returns the anchor id, or "" when none is set. An anchor is
// only meaningful with two or more markers selected.
func (sm *SelectionManager) AnchorID() string {
	if len(sm.selected) < 2 {
		return ""
	}
	return sm.anchorID
}

// IsSelected reports membership.
func (sm *SelectionManager) IsSelected(id string) bool {
	_, ok := sm.selected[id]
	return ok
}

// Selected returns the selected ids in selection order.
func (sm *SelectionManager) Selected() []string {
	return append([]string(nil), sm.order...)
}

// Count returns the number of selected markers.
func (sm *SelectionManager) Count() int {
	return len(sm.selected)
}
