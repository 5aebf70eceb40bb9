// Package mouse provides hit-testing and drag tracking for terminal mouse
// events.
package mouse

import tea "github.com/charmbracelet/bubbletea"

// scrollDelta is how many lines one wheel notch scrolls.
const scrollDelta = 3

// Rect is a screen rectangle in cells. The right and bottom edges are
// exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named, clickable area. Data carries whatever the caller needs
// to act on a hit, such as an item index.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the last rendered frame.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region. Later regions sit on top of earlier ones.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

// AddRect is Add with the rectangle spelled out.
func (h *HitMap) AddRect(id string, x, y, w, hgt int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: hgt}, data)
}

// Clear drops all regions.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Regions returns a copy of the registered regions.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// ActionType classifies a mouse event after hit-testing.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionScrollUp
	ActionScrollDown
	ActionDrag
	ActionDragEnd
	ActionHover
)

// MouseAction is the interpreted form of a tea.MouseMsg.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int
	Delta  int
	DragDX int
	DragDY int
}

// Handler turns raw mouse messages into actions against a HitMap and keeps
// the state of a drag in progress.
type Handler struct {
	HitMap *HitMap

	dragging   bool
	dragRegion string
	dragStartX int
	dragStartY int
}

// NewHandler returns a Handler with an empty HitMap.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear drops all regions. Call it before registering a new frame.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// StartDrag begins a drag at (x, y) on region id.
func (h *Handler) StartDrag(x, y int, id string) {
	h.dragging = true
	h.dragRegion = id
	h.dragStartX = x
	h.dragStartY = y
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the region the drag started on.
func (h *Handler) DragRegion() string { return h.dragRegion }

// DragDelta returns the distance from the drag start to (x, y).
func (h *Handler) DragDelta(x, y int) (int, int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag finishes the drag.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
}

// HandleMouse interprets msg.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	action := MouseAction{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			action.Type = ActionScrollUp
			action.Delta = -scrollDelta
			action.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonWheelDown:
			action.Type = ActionScrollDown
			action.Delta = scrollDelta
			action.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonLeft:
			if r := h.HitMap.Test(msg.X, msg.Y); r != nil {
				action.Type = ActionClick
				action.Region = r
			}
		}
	case tea.MouseActionMotion:
		if h.dragging {
			action.Type = ActionDrag
			action.DragDX, action.DragDY = h.DragDelta(msg.X, msg.Y)
			return action
		}
		action.Type = ActionHover
		action.Region = h.HitMap.Test(msg.X, msg.Y)
	case tea.MouseActionRelease:
		if h.dragging {
			action.Type = ActionDragEnd
			action.DragDX, action.DragDY = h.DragDelta(msg.X, msg.Y)
			h.EndDrag()
		}
	}
	return action
}
