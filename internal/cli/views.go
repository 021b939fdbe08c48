package cli

import (
	"arbor-cli/internal/forest"
	"arbor-cli/internal/format"
	"arbor-cli/internal/model"
)

type taskView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ParentID     *string  `json:"parentId,omitempty"`
	DisplayOrder int      `json:"displayOrder"`
	Kind         string   `json:"kind"`
	Completed    bool     `json:"completed"`
	Locked       bool     `json:"locked,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	TagIDs       []string `json:"tagIds,omitempty"`
}

func viewOf(t model.Task) taskView {
	return taskView{
		ID:           t.ID,
		Name:         t.Name,
		ParentID:     t.ParentID,
		DisplayOrder: t.DisplayOrder,
		Kind:         string(t.Kind),
		Completed:    t.Completed,
		Locked:       t.Locked,
		Notes:        t.Notes,
		TagIDs:       t.TagIDs,
	}
}

func viewsOf(tasks []model.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, viewOf(t))
	}
	return out
}

type rowView struct {
	taskView
	Depth     int  `json:"depth"`
	Collapsed bool `json:"collapsed,omitempty"`
}

type listPayload struct {
	Kind  string    `json:"kind"`
	Count int       `json:"count"`
	Rows  []rowView `json:"rows"`
}

func (p listPayload) OutlineRows() []format.OutlineRow {
	out := make([]format.OutlineRow, 0, len(p.Rows))
	for _, r := range p.Rows {
		out = append(out, format.OutlineRow{
			Name:      r.Name,
			Depth:     r.Depth,
			Completed: r.Completed,
			Collapsed: r.Collapsed,
		})
	}
	return out
}

func rowsPayload(s *session, kind model.Kind, rows []forest.Row) listPayload {
	p := listPayload{Kind: string(kind), Count: len(rows), Rows: make([]rowView, 0, len(rows))}
	for _, r := range rows {
		p.Rows = append(p.Rows, rowView{
			taskView:  viewOf(r.Task),
			Depth:     r.Depth,
			Collapsed: !s.engine.IsExpanded(r.Task.ID) && s.engine.HasChildren(kind, r.Task.ID),
		})
	}
	return p
}
