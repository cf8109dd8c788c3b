package selection

import "errors"

// Action is one logical input the controller can receive while browsing.
type Action int

const (
	// ActionMoveUp moves the cursor to the previous visible row.
	ActionMoveUp Action = iota
	// ActionMoveDown moves the cursor to the next visible row.
	ActionMoveDown
	// ActionExpandRight expands a collapsed directory under the cursor.
	ActionExpandRight
	// ActionCollapseLeft collapses an expanded directory under the cursor.
	ActionCollapseLeft
	// ActionToggleSelect flips the selection of the file under the cursor.
	ActionToggleSelect
	// ActionSelectAll selects every file in the tree.
	ActionSelectAll
	// ActionDeselectAll clears every selection in the tree.
	ActionDeselectAll
	// ActionConfirm finishes the session when at least one file is selected.
	ActionConfirm
	// ActionQuit confirms when files are selected, otherwise cancels.
	ActionQuit
	// ActionCancel aborts the session unconditionally.
	ActionCancel
)

// Phase identifies the controller state.
type Phase int

const (
	// PhaseBrowsing is the initial, interactive state.
	PhaseBrowsing Phase = iota
	// PhaseConfirmed is the terminal state carrying the chosen paths.
	PhaseConfirmed
	// PhaseCancelled is the terminal state carrying a cancellation reason.
	PhaseCancelled
)

// Sentinel errors for the two quiet, non-fatal session outcomes.
var (
	// ErrNoFilesSelected is returned when the session ends without any
	// selected file.
	ErrNoFilesSelected = errors.New("no files selected")
	// ErrSelectionCancelled is returned when the operator aborts the session.
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Controller is the single-threaded state machine translating logical input
// actions into tree mutations. It starts in PhaseBrowsing and moves to
// exactly one terminal phase.
type Controller struct {
	tree            *Tree
	phase           Phase
	confirmedPaths  []string
	cancelledReason error
}

// NewController wraps tree in a fresh browsing-state controller.
func NewController(tree *Tree) *Controller {
	return &Controller{tree: tree, phase: PhaseBrowsing}
}

// Tree exposes the controlled tree for rendering.
func (controller *Controller) Tree() *Tree {
	return controller.tree
}

// Phase returns the current controller state.
func (controller *Controller) Phase() Phase {
	return controller.phase
}

// ConfirmedPaths returns the selection captured when the controller entered
// PhaseConfirmed.
func (controller *Controller) ConfirmedPaths() []string {
	return controller.confirmedPaths
}

// CancelReason returns the sentinel error captured when the controller
// entered PhaseCancelled.
func (controller *Controller) CancelReason() error {
	return controller.cancelledReason
}

// Apply performs one transition. Actions received outside PhaseBrowsing are
// ignored. The returned value reports whether a terminal phase was reached.
func (controller *Controller) Apply(action Action) bool {
	if controller.phase != PhaseBrowsing {
		return true
	}

	switch action {
	case ActionMoveUp:
		controller.tree.MoveCursor(CursorPrevious)
	case ActionMoveDown:
		controller.tree.MoveCursor(CursorNext)
	case ActionExpandRight:
		controller.expandOrCollapseAtCursor(true)
	case ActionCollapseLeft:
		controller.expandOrCollapseAtCursor(false)
	case ActionToggleSelect:
		controller.tree.ToggleAtCursor()
	case ActionSelectAll:
		controller.tree.SelectAll()
	case ActionDeselectAll:
		controller.tree.DeselectAll()
	case ActionConfirm:
		if controller.tree.SelectedCount() > 0 {
			controller.confirm()
		}
	case ActionQuit:
		if controller.tree.SelectedCount() > 0 {
			controller.confirm()
		} else {
			controller.cancel(ErrNoFilesSelected)
		}
	case ActionCancel:
		controller.cancel(ErrSelectionCancelled)
	}

	return controller.phase != PhaseBrowsing
}

func (controller *Controller) expandOrCollapseAtCursor(expand bool) {
	onDirectory, expanded := controller.tree.IsCursorOnExpandedDirectory()
	if !onDirectory || expanded == expand {
		return
	}
	directoryName, _ := controller.tree.CursorDirectoryName()
	previousIndex := controller.tree.Cursor()

	var mutated bool
	if expand {
		mutated = controller.tree.ExpandByName(directoryName)
	} else {
		mutated = controller.tree.CollapseByName(directoryName)
	}
	if mutated {
		controller.tree.RestoreCursor(directoryName, previousIndex)
	}
}

func (controller *Controller) confirm() {
	controller.confirmedPaths = controller.tree.SelectedPaths()
	controller.phase = PhaseConfirmed
}

func (controller *Controller) cancel(reason error) {
	controller.cancelledReason = reason
	controller.phase = PhaseCancelled
}
