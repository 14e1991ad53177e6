// Package interaction implements the pointer-driven state machine at the
// top of the designer engine. It consumes raw pointer and keyboard
// events from the host, resolves intent through the coordinate system,
// and drives the viewport, drawing engine, marker store, and selection.
//
// All transitions are synchronous within one event callback. Every state
// returns to Idle when its gesture completes or is cancelled, and a
// cancelled gesture always restores the exact pre-gesture state.
package interaction

import (
	"math"

	"github.com/google/uuid"

	"github.com/venuekit/seatplan/internal/dispatcher"
	"github.com/venuekit/seatplan/internal/draw"
	"github.com/venuekit/seatplan/internal/geom"
	"github.com/venuekit/seatplan/internal/shape"
	"github.com/venuekit/seatplan/internal/store"
	"github.com/venuekit/seatplan/internal/viewport"
	"github.com/venuekit/seatplan/pkg/core"
)

// State is the interaction state of the machine.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateDrawingShape
	StateBuildingFreeformPath
	StateMarqueeSelecting
	StateDraggingMarker
	StateTransformingMarker
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePanning:
		return "panning"
	case StateDrawingShape:
		return "drawingShape"
	case StateBuildingFreeformPath:
		return "buildingFreeformPath"
	case StateMarqueeSelecting:
		return "marqueeSelecting"
	case StateDraggingMarker:
		return "draggingMarker"
	case StateTransformingMarker:
		return "transformingMarker"
	}
	return "unknown"
}

// Gesture thresholds in stage pixels.
const (
	// ReclassifyPixels is the movement after which an uncommitted
	// placement or drawing gesture is reinterpreted as a pan. This
	// resolves the ambiguity between "click to place" and "drag to pan"
	// without a separate mode switch.
	ReclassifyPixels = 6.0
	// MarqueeMinPixels is the marquee diagonal below which a gesture
	// counts as a plain click and deselects instead of selecting.
	MarqueeMinPixels = 4.0
)

// MutationSink receives committed marker mutations for persistence. The
// engine never waits on it; implementations are expected to queue.
type MutationSink interface {
	MarkerCreated(m *core.Marker)
	MarkerUpdated(m *core.Marker)
	MarkersDeleted(ids []string)
}

// Dependencies wires the machine to its collaborators.
type Dependencies struct {
	Store       *store.MarkerStore
	Selection   *store.SelectionManager
	View        *viewport.Controller
	Virtualizer *viewport.Virtualizer
	Canvas      *geom.Canvas
	Events      *dispatcher.Dispatcher
	Logger      dispatcher.Logger
	Sink        MutationSink // optional
}

// Machine is the interaction state machine.
type Machine struct {
	markers     *store.MarkerStore
	selection   *store.SelectionManager
	view        *viewport.Controller
	virtualizer *viewport.Virtualizer
	canvas      *geom.Canvas
	events      *dispatcher.Dispatcher
	log         dispatcher.Logger
	sink        MutationSink

	state     State
	tool      draw.Tool
	placeKind core.MarkerKind
	readOnly  bool
	spaceHeld bool

	venueID string
	frame   geom.Frame
	// Last valid raw container measurement. The frame's container can
	// lag behind it in blank-canvas mode, where the first measurement
	// stays latched, so mode switches re-derive from this instead.
	measured core.Size

	drag draw.DragGesture
	path draw.PathBuilder

	// per-gesture bookkeeping, all reset on return to Idle
	downStage  core.Position
	lastStage  core.Position
	moved      float64
	buttonDown bool

	marqueeAnchor core.Position

	hoverID          string
	dragOrigins      map[string]core.Position
	dragStartPercent core.Position
	dragMoved        bool

	transformID       string
	transformSnapshot *core.Marker

	reattach func(id string)
	pending  []func()

	lowDetail bool
}

// NewMachine creates a machine in Idle with a default-sized frame.
func NewMachine(deps Dependencies) *Machine {
	m := &Machine{
		markers:     deps.Store,
		selection:   deps.Selection,
		view:        deps.View,
		virtualizer: deps.Virtualizer,
		canvas:      deps.Canvas,
		events:      deps.Events,
		log:         deps.Logger,
		sink:        deps.Sink,
	}
	m.frame = m.canvas.Measure(core.Size{})
	m.lowDetail = m.view.LowDetail()
	return m
}

// --- Host-supplied inputs ---

// SetContainerSize records the current container measurement and
// re-derives the letterboxed frame.
func (m *Machine) SetContainerSize(sz core.Size) {
	if sz.IsValid() {
		m.measured = sz
	}
	m.frame = m.canvas.Measure(sz)
}

// Frame returns the current letterboxed content placement.
func (m *Machine) Frame() geom.Frame { return m.frame }

// SetVenue sets the venue new markers are created under.
func (m *Machine) SetVenue(id string) { m.venueID = id }

// SetTool switches the active drawing tool. Switching discards any
// in-progress draw or freeform gesture without touching the store.
func (m *Machine) SetTool(t draw.Tool) {
	if t == m.tool {
		return
	}
	m.CancelGesture()
	m.tool = t
	m.placeKind = ""
}

// Tool returns the active drawing tool.
func (m *Machine) Tool() draw.Tool { return m.tool }

// SetPlacement enables click-to-place mode for the given marker kind,
// clearing any drawing tool. An empty kind disables placement.
func (m *Machine) SetPlacement(kind core.MarkerKind) {
	m.CancelGesture()
	m.tool = draw.ToolNone
	m.placeKind = kind
}

// SetReadOnly toggles the read-only flag. Read-only suppresses every
// mutating gesture; selection and panning still work.
func (m *Machine) SetReadOnly(ro bool) {
	if ro {
		m.CancelGesture()
	}
	m.readOnly = ro
}

// SetReattachFunc registers the host callback that re-attaches the
// selection/transform affordance to a marker after its geometry changed.
// It is invoked from AfterRender, one render pass after transform end.
func (m *Machine) SetReattachFunc(fn func(id string)) { m.reattach = fn }

// State returns the current interaction state.
func (m *Machine) State() State { return m.state }

// HoverID returns the marker currently under the pointer, if any.
func (m *Machine) HoverID() string { return m.hoverID }

// --- Lifecycle ---

// Hydrate loads persisted markers into the store. Malformed shapes are
// kept as stored and logged; they degrade to the fallback circle at
// hit-test and render time instead of failing the load.
func (m *Machine) Hydrate(markers []*core.Marker) {
	for _, mk := range markers {
		if mk.Shape != nil {
			if _, err := shape.Normalize(mk.Shape); err != nil {
				m.log.Warn("marker has malformed shape, will render fallback",
					"marker", mk.ID, "error", err)
			}
		}
		if err := m.markers.Add(mk); err != nil {
			m.log.Warn("skipping marker during hydrate", "marker", mk.ID, "error", err)
		}
	}
}

// SetBackgroundImage switches the coordinate system to the loaded
// image's aspect ratio and re-derives the frame once.
func (m *Machine) SetBackgroundImage(width, height float64) {
	m.canvas.SetImage(width, height)
	m.frame = m.canvas.Measure(m.lastMeasured())
}

// BackgroundImageFailed switches to blank-canvas mode. An image that
// fails to load is not an error state.
func (m *Machine) BackgroundImageFailed() {
	m.canvas.ClearImage()
	m.frame = m.canvas.Measure(m.lastMeasured())
}

func (m *Machine) lastMeasured() core.Size {
	if m.measured.IsValid() {
		return m.measured
	}
	return m.frame.Container
}

// --- Pointer events ---

// PointerDown dispatches a pointer press. First matching rule wins:
// pan modifier, existing marker, drag tool, freeform tool, marquee.
func (m *Machine) PointerDown(ev PointerEvent) {
	if m.state == StateTransformingMarker {
		// Transform handles own the pointer until EndTransform.
		return
	}

	m.downStage = ev.Position
	m.lastStage = ev.Position
	m.moved = 0
	m.buttonDown = true

	// Mid-path freeform clicks resolve on pointer up.
	if m.state == StateBuildingFreeformPath {
		return
	}

	percent := m.pointerPercent(ev.Position)

	if m.isPanTrigger(ev) {
		m.state = StatePanning
		return
	}

	if id, ok := m.markers.FindAt(percent); ok {
		m.markerDown(id, ev, percent)
		return
	}

	if !m.readOnly && m.tool.IsDragTool() {
		m.state = StateDrawingShape
		m.drag.Start(m.tool, percent)
		return
	}

	if !m.readOnly && m.tool == draw.ToolFreeform {
		m.state = StateBuildingFreeformPath
		return
	}

	if !m.readOnly && m.placeKind != "" {
		// Click-to-place: the marker commits on pointer up, unless the
		// gesture reclassifies to a pan first.
		m.state = StateDrawingShape
		return
	}

	m.state = StateMarqueeSelecting
	m.marqueeAnchor = ev.Position
}

// isPanTrigger implements dispatch rule 1: space-held, middle/right
// button, ctrl+click, or left-click while zoomed in with no
// placement-capable tool active.
func (m *Machine) isPanTrigger(ev PointerEvent) bool {
	if m.spaceHeld || ev.Button == ButtonMiddle || ev.Button == ButtonRight {
		return true
	}
	if ev.Button == ButtonLeft && ev.Modifiers.Ctrl {
		return true
	}
	return ev.Button == ButtonLeft && m.view.Zoom() > 1 && !m.placementCapable()
}

func (m *Machine) placementCapable() bool {
	if m.readOnly {
		return false
	}
	return m.tool.IsDragTool() || m.tool == draw.ToolFreeform || m.placeKind != ""
}

func (m *Machine) markerDown(id string, ev PointerEvent, percent core.Position) {
	m.publish(EventMarkerClicked, MarkerClicked{ID: id, Modifiers: ev.Modifiers})

	if ev.Modifiers.Shift {
		m.selection.Select([]string{id}, store.SelectToggle)
	} else if !m.selection.IsSelected(id) {
		m.selection.Select([]string{id}, store.SelectReplace)
	}
	m.emitSelection()

	if m.readOnly || !m.selection.IsSelected(id) {
		m.state = StateIdle
		return
	}

	// Begin a potential group drag of the whole selection.
	m.state = StateDraggingMarker
	m.dragStartPercent = percent
	m.dragMoved = false
	m.dragOrigins = make(map[string]core.Position)
	for _, sid := range m.selection.Selected() {
		if mk, ok := m.markers.GetByID(sid); ok {
			m.dragOrigins[sid] = mk.Position
		}
	}
}

// PointerMove dispatches pointer motion.
func (m *Machine) PointerMove(ev PointerEvent) {
	dx := ev.Position.X - m.lastStage.X
	dy := ev.Position.Y - m.lastStage.Y
	m.lastStage = ev.Position
	if m.buttonDown {
		m.moved += math.Hypot(dx, dy)
	}
	percent := m.pointerPercent(ev.Position)

	switch m.state {
	case StatePanning:
		m.view.PanBy(dx, dy)

	case StateDrawingShape:
		if !m.drag.Active() {
			// Placement click drifting beyond the threshold means a pan.
			if m.moved > ReclassifyPixels {
				m.state = StatePanning
			}
			return
		}
		m.drag.Update(percent)
		// Reclassify small zoomed-in drags to panning before anything
		// has committed.
		if m.moved > ReclassifyPixels && m.dragExtent() < draw.MinDragExtent {
			m.drag.Cancel()
			m.state = StatePanning
		}

	case StateBuildingFreeformPath:
		if m.buttonDown && m.moved > ReclassifyPixels {
			m.state = StatePanning
		}

	case StateDraggingMarker:
		delta := core.Position{
			X: percent.X - m.dragStartPercent.X,
			Y: percent.Y - m.dragStartPercent.Y,
		}
		if delta.X != 0 || delta.Y != 0 {
			m.dragMoved = true
		}
		for id, origin := range m.dragOrigins {
			target := core.Position{X: origin.X + delta.X, Y: origin.Y + delta.Y}
			_ = m.markers.Update(id, func(mk *core.Marker) {
				mk.Position = target
			})
		}

	case StateIdle:
		if id, ok := m.markers.FindAt(percent); ok {
			m.hoverID = id
		} else {
			m.hoverID = ""
		}
	}
}

func (m *Machine) dragExtent() float64 {
	box := m.drag.Preview()
	return math.Hypot(box.Width, box.Height)
}

// PointerUp completes the current gesture.
func (m *Machine) PointerUp(ev PointerEvent) {
	m.buttonDown = false
	percent := m.pointerPercent(ev.Position)

	switch m.state {
	case StatePanning:
		if m.path.Active() {
			m.state = StateBuildingFreeformPath
		} else {
			m.state = StateIdle
		}

	case StateDrawingShape:
		if m.drag.Active() {
			if s, center, ok := m.drag.Finish(); ok {
				m.commitShape(s, center)
			}
			m.state = StateIdle
			return
		}
		// Placement click.
		if m.placeKind != "" && m.moved <= ReclassifyPixels {
			m.placeMarker(percent)
		}
		m.state = StateIdle

	case StateBuildingFreeformPath:
		if m.path.ShouldClose(percent) {
			m.closeFreeform()
			return
		}
		m.path.Add(percent)

	case StateMarqueeSelecting:
		m.finishMarquee(ev.Position)
		m.state = StateIdle

	case StateDraggingMarker:
		if m.dragMoved {
			for id := range m.dragOrigins {
				if mk, ok := m.markers.GetByID(id); ok {
					m.notifyUpdated(mk)
				}
			}
		}
		m.dragOrigins = nil
		m.state = StateIdle
	}
}

// DoubleClick closes an in-progress freeform path.
func (m *Machine) DoubleClick(ev PointerEvent) {
	if m.state == StateBuildingFreeformPath {
		m.closeFreeform()
	}
}

// Wheel applies a zoom-to-cursor wheel tick.
func (m *Machine) Wheel(ev WheelEvent) {
	m.view.WheelZoom(ev.Position, ev.DeltaY, m.frame)
	m.checkLowDetail()
}

// ZoomIn raises zoom by one toolbar step.
func (m *Machine) ZoomIn() {
	m.view.ZoomIn()
	m.checkLowDetail()
}

// ZoomOut lowers zoom by one toolbar step.
func (m *Machine) ZoomOut() {
	m.view.ZoomOut()
	m.checkLowDetail()
}

// ResetView restores zoom 1 and zero pan.
func (m *Machine) ResetView() {
	m.view.ResetView()
	m.checkLowDetail()
}

// --- Keyboard events ---

// KeyDown dispatches a key press.
func (m *Machine) KeyDown(key Key) {
	switch key {
	case KeySpace:
		m.spaceHeld = true
	case KeyEscape:
		m.CancelGesture()
	case KeyBackspace, KeyDelete:
		if m.state == StateBuildingFreeformPath {
			m.path.PopLast()
			if !m.path.Active() {
				m.state = StateIdle
			}
			return
		}
		if m.state == StateIdle && !m.readOnly && m.selection.Count() > 0 {
			m.DeleteSelected()
		}
	}
}

// KeyUp dispatches a key release.
func (m *Machine) KeyUp(key Key) {
	if key == KeySpace {
		m.spaceHeld = false
	}
}

// --- Gesture completion ---

func (m *Machine) finishMarquee(stage core.Position) {
	diag := math.Hypot(stage.X-m.marqueeAnchor.X, stage.Y-m.marqueeAnchor.Y)
	if diag < MarqueeMinPixels {
		// Plain click on empty canvas.
		m.deselectAll()
		return
	}

	a := m.pointerPercent(m.marqueeAnchor)
	b := m.pointerPercent(stage)
	rect := core.RectFromCorners(a, b)

	ids := m.markers.QueryByRect(rect)
	if len(ids) == 0 {
		m.deselectAll()
		return
	}

	var result MarkersInRect
	for _, id := range ids {
		mk, ok := m.markers.GetByID(id)
		if !ok {
			continue
		}
		if mk.Kind == core.MarkerKindSection {
			result.SectionIDs = append(result.SectionIDs, id)
		} else {
			result.SeatIDs = append(result.SeatIDs, id)
		}
	}

	m.selection.Select(ids, store.SelectReplace)
	m.publish(EventMarkersInRect, result)
	m.emitSelection()
}

func (m *Machine) closeFreeform() {
	s, center, ok := m.path.Close()
	m.state = StateIdle
	if ok {
		m.commitShape(s, center)
	}
}

func (m *Machine) commitShape(s *core.Shape, center core.Position) {
	if m.readOnly {
		return
	}
	mk := &core.Marker{
		ID:       uuid.NewString(),
		VenueID:  m.venueID,
		Position: center,
		Shape:    s,
		Kind:     core.MarkerKindSection,
		Section:  &core.SectionInfo{},
		IsNew:    true,
	}
	if err := m.markers.Add(mk); err != nil {
		m.log.Error("failed to add committed shape", "marker", mk.ID, "error", err)
		return
	}
	m.selection.Select([]string{mk.ID}, store.SelectReplace)

	m.publish(EventShapeCommitted, ShapeCommitted{
		MarkerID: mk.ID,
		Shape:    s.Clone(),
		X:        center.X,
		Y:        center.Y,
	})
	m.emitSelection()
	m.notifyCreated(mk)
}

func (m *Machine) placeMarker(p core.Position) {
	mk := &core.Marker{
		ID:       uuid.NewString(),
		VenueID:  m.venueID,
		Position: p,
		Kind:     m.placeKind,
		IsNew:    true,
	}
	switch m.placeKind {
	case core.MarkerKindSeat:
		mk.Seat = &core.SeatInfo{}
	case core.MarkerKindSection:
		mk.Section = &core.SectionInfo{}
	}
	if err := m.markers.Add(mk); err != nil {
		m.log.Error("failed to place marker", "marker", mk.ID, "error", err)
		return
	}
	m.selection.Select([]string{mk.ID}, store.SelectReplace)
	m.emitSelection()
	m.notifyCreated(mk)
}

// --- Transform handling ---

// BeginTransform enters TransformingMarker for the given marker. Handle
// geometry is a presentation concern; the host calls this when a handle
// gesture starts.
func (m *Machine) BeginTransform(id string) error {
	if m.readOnly {
		return store.ErrMarkerNotFound
	}
	mk, ok := m.markers.GetByID(id)
	if !ok {
		return store.ErrMarkerNotFound
	}
	m.CancelGesture()
	m.state = StateTransformingMarker
	m.transformID = id
	m.transformSnapshot = mk
	return nil
}

// EndTransform completes a transform gesture: the interactive node's
// scale and rotation are folded into the shape's canonical geometry,
// sizes are floored, rotation persisted, and the selection affordance is
// re-attached after the host's next render pass.
func (m *Machine) EndTransform(scaleX, scaleY, rotationDeg float64) {
	if m.state != StateTransformingMarker {
		return
	}
	id := m.transformID
	m.transformID = ""
	m.transformSnapshot = nil
	m.state = StateIdle

	var updated *core.Marker
	err := m.markers.Update(id, func(mk *core.Marker) {
		mk.Shape = shape.ApplyTransform(mk.Shape, scaleX, scaleY, rotationDeg)
		updated = mk.Clone()
	})
	if err != nil {
		m.log.Warn("transform target disappeared", "marker", id, "error", err)
		return
	}
	m.notifyUpdated(updated)

	if m.reattach != nil {
		id := id
		m.pending = append(m.pending, func() { m.reattach(id) })
	}
}

// AfterRender runs work deferred to after the host's next render pass:
// currently only re-attaching transform affordances to updated geometry.
func (m *Machine) AfterRender() {
	pending := m.pending
	m.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// --- Cancellation ---

// CancelGesture aborts any in-progress gesture and restores the exact
// pre-gesture state. The store and selection are never left partially
// mutated.
func (m *Machine) CancelGesture() {
	switch m.state {
	case StateDrawingShape:
		m.drag.Cancel()
	case StateBuildingFreeformPath:
		m.path.Cancel()
	case StateDraggingMarker:
		for id, origin := range m.dragOrigins {
			origin := origin
			_ = m.markers.Update(id, func(mk *core.Marker) {
				mk.Position = origin
			})
		}
		m.dragOrigins = nil
	case StateTransformingMarker:
		if m.transformSnapshot != nil {
			snap := m.transformSnapshot
			_ = m.markers.Update(snap.ID, func(mk *core.Marker) {
				*mk = *snap.Clone()
			})
		}
		m.transformID = ""
		m.transformSnapshot = nil
	}
	m.path.Cancel()
	m.state = StateIdle
}

// --- Deletion ---

// DeleteSelected removes every selected marker. Sections cascade to the
// seats referencing them.
func (m *Machine) DeleteSelected() {
	if m.readOnly {
		return
	}
	var removed []string
	for _, id := range m.selection.Selected() {
		mk, ok := m.markers.GetByID(id)
		if !ok {
			continue
		}
		if mk.Kind == core.MarkerKindSection {
			removed = append(removed, m.markers.DeleteCascade(id)...)
		} else if m.markers.Remove(id) == nil {
			removed = append(removed, id)
		}
	}
	m.selection.Clear()
	if len(removed) > 0 {
		m.publish(EventDeselected, nil)
		m.notifyDeleted(removed)
	}
}

// DeleteMarker removes one marker by id, cascading for sections.
// Unknown ids are recoverable no-ops.
func (m *Machine) DeleteMarker(id string) error {
	if m.readOnly {
		return nil
	}
	mk, ok := m.markers.GetByID(id)
	if !ok {
		return store.ErrMarkerNotFound
	}
	var removed []string
	if mk.Kind == core.MarkerKindSection {
		removed = m.markers.DeleteCascade(id)
	} else if m.markers.Remove(id) == nil {
		removed = []string{id}
	}
	for _, rid := range removed {
		m.selection.Deselect(rid)
	}
	m.notifyDeleted(removed)
	m.emitSelection()
	return nil
}

// ClearAll wipes every marker and the selection.
func (m *Machine) ClearAll() {
	if m.readOnly {
		return
	}
	all := m.markers.All()
	ids := make([]string, 0, len(all))
	for _, mk := range all {
		ids = append(ids, mk.ID)
	}
	m.markers.Clear()
	m.selection.Clear()
	m.publish(EventDeselected, nil)
	m.notifyDeleted(ids)
}

// --- Selection passthrough ---

// SetAnchor designates the reference marker for alignment operations.
func (m *Machine) SetAnchor(id string) {
	m.selection.SetAnchor(id)
	m.emitSelection()
}

// --- Rendering support ---

// VisibleMarkers returns the ids the host should render, filtered by the
// virtualizer when the total item count warrants it.
func (m *Machine) VisibleMarkers(overlayCount int) []string {
	selected := make(map[string]bool)
	for _, id := range m.selection.Selected() {
		selected[id] = true
	}
	return m.virtualizer.Filter(
		m.markers.All(), selected, overlayCount,
		m.frame, m.view.Zoom(), m.view.Pan(),
	)
}

// LowDetail reports the current low-detail rendering decision.
func (m *Machine) LowDetail() bool { return m.lowDetail }

// --- Internal helpers ---

func (m *Machine) pointerPercent(stage core.Position) core.Position {
	return m.frame.PointerToPercent(stage, m.view.Zoom(), m.view.Pan())
}

func (m *Machine) checkLowDetail() {
	ld := m.view.LowDetail()
	if ld != m.lowDetail {
		m.lowDetail = ld
		m.publish(EventLowDetailChanged, LowDetailChanged{LowDetail: ld})
	}
}

func (m *Machine) deselectAll() {
	if m.selection.Count() == 0 {
		return
	}
	m.selection.Clear()
	m.publish(EventDeselected, nil)
}

func (m *Machine) emitSelection() {
	m.publish(EventSelectionChanged, SelectionChanged{
		IDs:      m.selection.Selected(),
		AnchorID: m.selection.AnchorID(),
	})
}

func (m *Machine) publish(name string, payload any) {
	m.events.Publish(dispatcher.Event{Name: name, Payload: payload})
}

func (m *Machine) notifyCreated(mk *core.Marker) {
	if m.sink != nil {
		m.sink.MarkerCreated(mk.Clone())
	}
}

func (m *Machine) notifyUpdated(mk *core.Marker) {
	if m.sink != nil {
		m.sink.MarkerUpdated(mk.Clone())
	}
}

func (m *Machine) notifyDeleted(ids []string) {
	if m.sink != nil && len(ids) > 0 {
		m.sink.MarkersDeleted(ids)
	}
}
