package selection

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestControllerStartsBrowsing(t *testing.T) {
	controller := NewController(Build([]string{"a.txt"}))
	if controller.Phase() != PhaseBrowsing {
		t.Fatalf("Phase() = %v, want PhaseBrowsing", controller.Phase())
	}
}

func TestConfirmRequiresSelection(t *testing.T) {
	controller := NewController(Build([]string{"a.txt"}))

	if terminal := controller.Apply(ActionConfirm); terminal {
		t.Fatal("Confirm with nothing selected must stay in the browsing phase")
	}
	if controller.Phase() != PhaseBrowsing {
		t.Fatalf("Phase() = %v, want PhaseBrowsing", controller.Phase())
	}

	controller.Apply(ActionToggleSelect)
	if terminal := controller.Apply(ActionConfirm); !terminal {
		t.Fatal("Confirm with a selection must reach a terminal phase")
	}
	if controller.Phase() != PhaseConfirmed {
		t.Fatalf("Phase() = %v, want PhaseConfirmed", controller.Phase())
	}
	if len(controller.ConfirmedPaths()) != 1 || controller.ConfirmedPaths()[0] != "a.txt" {
		t.Fatalf("ConfirmedPaths() = %v, want [a.txt]", controller.ConfirmedPaths())
	}
}

func TestQuitConfirmsWhenFilesAreSelected(t *testing.T) {
	controller := NewController(Build([]string{"a.txt"}))
	controller.Apply(ActionSelectAll)
	controller.Apply(ActionQuit)
	if controller.Phase() != PhaseConfirmed {
		t.Fatalf("Phase() = %v, want PhaseConfirmed", controller.Phase())
	}
}

func TestQuitCancelsWhenNothingIsSelected(t *testing.T) {
	controller := NewController(Build([]string{"a.txt"}))
	controller.Apply(ActionQuit)
	if controller.Phase() != PhaseCancelled {
		t.Fatalf("Phase() = %v, want PhaseCancelled", controller.Phase())
	}
	if !errors.Is(controller.CancelReason(), ErrNoFilesSelected) {
		t.Fatalf("CancelReason() = %v, want ErrNoFilesSelected", controller.CancelReason())
	}
}

func TestCancelIsUnconditional(t *testing.T) {
	controller := NewController(Build([]string{"a.txt"}))
	controller.Apply(ActionSelectAll)
	controller.Apply(ActionCancel)
	if controller.Phase() != PhaseCancelled {
		t.Fatalf("Phase() = %v, want PhaseCancelled even with files selected", controller.Phase())
	}
	if !errors.Is(controller.CancelReason(), ErrSelectionCancelled) {
		t.Fatalf("CancelReason() = %v, want ErrSelectionCancelled", controller.CancelReason())
	}
}

func TestActionsAfterTerminalPhaseAreIgnored(t *testing.T) {
	controller := NewController(Build([]string{"a.txt"}))
	controller.Apply(ActionSelectAll)
	controller.Apply(ActionConfirm)

	confirmedPaths := controller.ConfirmedPaths()
	controller.Apply(ActionDeselectAll)
	controller.Apply(ActionCancel)

	if controller.Phase() != PhaseConfirmed {
		t.Fatalf("Phase() = %v, terminal phase must not change", controller.Phase())
	}
	if len(controller.ConfirmedPaths()) != len(confirmedPaths) {
		t.Fatal("confirmed paths must not change after the terminal phase")
	}
}

func TestExpandAndCollapseAtCursor(t *testing.T) {
	controller := NewController(Build([]string{filepath.Join("dir", "file.txt")}))
	tree := controller.Tree()

	// Cursor starts on the expanded directory row.
	controller.Apply(ActionCollapseLeft)
	if len(tree.Flattened()) != 1 {
		t.Fatalf("flattened view has %d entries after collapse, want 1", len(tree.Flattened()))
	}

	// Collapsing an already-collapsed directory is a no-op.
	controller.Apply(ActionCollapseLeft)
	if len(tree.Flattened()) != 1 {
		t.Fatal("collapsing twice must not change the view")
	}

	controller.Apply(ActionExpandRight)
	if len(tree.Flattened()) != 2 {
		t.Fatalf("flattened view has %d entries after expand, want 2", len(tree.Flattened()))
	}

	// Expand on a file row is a no-op.
	controller.Apply(ActionMoveDown)
	controller.Apply(ActionExpandRight)
	if len(tree.Flattened()) != 2 {
		t.Fatal("expanding on a file row must not change the view")
	}
}

func TestMovementActionsDriveTheCursor(t *testing.T) {
	controller := NewController(Build([]string{"a.txt", "b.txt"}))
	tree := controller.Tree()

	controller.Apply(ActionMoveDown)
	if tree.Cursor() != 1 {
		t.Fatalf("Cursor() = %d after moving down, want 1", tree.Cursor())
	}
	controller.Apply(ActionMoveUp)
	if tree.Cursor() != 0 {
		t.Fatalf("Cursor() = %d after moving up, want 0", tree.Cursor())
	}
}
