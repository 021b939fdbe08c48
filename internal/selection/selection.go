// Package selection implements the ordered multi-selection over task ids:
// anchor/cursor range state, visible-order reconciliation, and shift-drag
// resolution. It owns no tree state; callers supply the current visible order
// (from the engine's flattened list) at call time.
package selection

// Manager is a single selection instance. Selection order is meaningful: it
// is what range-move operations preserve.
type Manager struct {
	selected []string
	anchor   string
	cursor   string
	dragging bool
}

func New() *Manager {
	return &Manager{}
}

// Selected returns the ordered selection. The returned slice is a copy.
func (m *Manager) Selected() []string {
	return append([]string(nil), m.selected...)
}

func (m *Manager) IsSelected(id string) bool {
	for _, s := range m.selected {
		if s == id {
			return true
		}
	}
	return false
}

func (m *Manager) Len() int       { return len(m.selected) }
func (m *Manager) Anchor() string { return m.anchor }
func (m *Manager) Cursor() string { return m.cursor }
func (m *Manager) Dragging() bool { return m.dragging }

func (m *Manager) Clear() {
	m.selected = nil
	m.anchor = ""
	m.cursor = ""
}

// Replace makes id the sole selection and both range endpoints.
func (m *Manager) Replace(id string) {
	m.selected = []string{id}
	m.anchor = id
	m.cursor = id
}

// Toggle adds or removes id, then reconciles the selection's order against
// the visible list: visible candidates first, in visible order, followed by
// any off-screen candidates in their prior relative order. Toggling the same
// id twice restores the selection exactly.
func (m *Manager) Toggle(id string, visibleOrder []string) {
	adding := !m.IsSelected(id)

	candidates := make([]string, 0, len(m.selected)+1)
	if adding {
		candidates = append(candidates, m.selected...)
		candidates = append(candidates, id)
	} else {
		for _, s := range m.selected {
			if s != id {
				candidates = append(candidates, s)
			}
		}
	}

	m.selected = reconcileOrder(candidates, visibleOrder)

	if adding {
		m.anchor = id
		m.cursor = id
		return
	}
	if !m.IsSelected(m.anchor) {
		m.anchor = lastOf(m.selected)
	}
	if !m.IsSelected(m.cursor) {
		m.cursor = lastOf(m.selected)
	}
}

// Extend selects the inclusive visible range between the effective anchor and
// target. The anchor stays put; the cursor moves to target. A target that is
// not currently visible degrades to Replace.
func (m *Manager) Extend(targetID string, visibleOrder []string) {
	targetIdx := indexOf(visibleOrder, targetID)
	if targetIdx < 0 {
		m.Replace(targetID)
		return
	}

	anchorIdx := m.effectiveAnchorIndex(visibleOrder, targetIdx)
	lo, hi := anchorIdx, targetIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	m.selected = append([]string(nil), visibleOrder[lo:hi+1]...)
	if m.anchor == "" {
		m.anchor = visibleOrder[anchorIdx]
	}
	m.cursor = targetID
}

// effectiveAnchorIndex resolves the fixed end of a range extension: the
// current anchor if still visible, else the cursor, else the first selected
// id that is visible, else the target itself.
func (m *Manager) effectiveAnchorIndex(visibleOrder []string, targetIdx int) int {
	if idx := indexOf(visibleOrder, m.anchor); idx >= 0 {
		return idx
	}
	if idx := indexOf(visibleOrder, m.cursor); idx >= 0 {
		return idx
	}
	for _, s := range m.selected {
		if idx := indexOf(visibleOrder, s); idx >= 0 {
			return idx
		}
	}
	return targetIdx
}

// BeginShift starts a shift-drag session from id. If id was not already
// selected, the session starts from a fresh single selection on it.
func (m *Manager) BeginShift(id string) {
	m.dragging = true
	if !m.IsSelected(id) {
		m.Replace(id)
		return
	}
	if m.anchor == "" {
		m.anchor = id
	}
}

func (m *Manager) UpdateShift(targetID string, visibleOrder []string) {
	if !m.dragging {
		return
	}
	m.Extend(targetID, visibleOrder)
}

// EndShift only clears the drag-in-progress flag; the selection itself is
// not reverted.
func (m *Manager) EndShift() {
	m.dragging = false
}

func (m *Manager) SelectAllVisible(visibleOrder []string) {
	m.selected = append([]string(nil), visibleOrder...)
	if len(m.selected) == 0 {
		m.anchor = ""
		m.cursor = ""
		return
	}
	m.anchor = m.selected[0]
	m.cursor = m.selected[len(m.selected)-1]
}

// ResolveDragTarget maps a signed vertical pixel offset from startID onto the
// visible row it lands on: a prefix-sum walk over per-row heights (default
// height when unknown) with early termination at the list bounds.
func ResolveDragTarget(startID string, offset int, visibleOrder []string, heightOf func(id string) int, defaultHeight int) string {
	start := indexOf(visibleOrder, startID)
	if start < 0 || len(visibleOrder) == 0 {
		return startID
	}
	if defaultHeight <= 0 {
		defaultHeight = 1
	}
	height := func(id string) int {
		if heightOf != nil {
			if h := heightOf(id); h > 0 {
				return h
			}
		}
		return defaultHeight
	}

	step := 1
	remaining := offset
	if offset < 0 {
		step = -1
		remaining = -offset
	}

	idx := start
	acc := height(visibleOrder[idx])
	for acc < remaining {
		next := idx + step
		if next < 0 || next >= len(visibleOrder) {
			break
		}
		idx = next
		acc += height(visibleOrder[idx])
	}
	return visibleOrder[idx]
}

func reconcileOrder(candidates, visibleOrder []string) []string {
	in := map[string]bool{}
	for _, c := range candidates {
		in[c] = true
	}
	out := make([]string, 0, len(candidates))
	seen := map[string]bool{}
	for _, id := range visibleOrder {
		if in[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, c := range candidates {
		if !seen[c] {
			out = append(out, c)
			seen[c] = true
		}
	}
	return out
}

func indexOf(xs []string, id string) int {
	if id == "" {
		return -1
	}
	for i, x := range xs {
		if x == id {
			return i
		}
	}
	return -1
}

func lastOf(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[len(xs)-1]
}
