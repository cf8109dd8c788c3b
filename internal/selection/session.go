package selection

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/richprompt/richprompt/internal/types"
)

const (
	sessionTitle       = "Select files to include in your LLM context"
	sessionHelpMessage = "↑/↓: Navigate | Space: Toggle selection | Enter: Confirm | →/←: Expand/Collapse | q: Quit | a: Select all | n: Deselect all"
	statusLineFormat   = "Files (%d selected of %d)"

	inputPollInterval = 100 * time.Millisecond

	indentPerDepth        = "  "
	selectedFilePrefix    = "[x] "
	unselectedFilePrefix  = "[ ] "
	expandedDirectoryMark = "▼ "
	collapsedDirectoryMrk = "▶ "

	treeTopRow = 2
)

// RunSelection resolves the discovered paths into loaded file contexts.
// When interactive is false every path is auto-included; otherwise a terminal
// session lets the operator refine the selection. A path whose read fails is
// skipped with a warning in both modes. Cancellation and empty confirmation
// surface as ErrSelectionCancelled and ErrNoFilesSelected respectively.
func RunSelection(paths []string, interactive bool, reader types.ContentReader, logger *zap.SugaredLogger) ([]types.FileContext, error) {
	if len(paths) == 0 {
		logger.Info("no files to select")
		return nil, nil
	}
	logger.Debugf("selecting from %d available files", len(paths))

	chosenPaths := paths
	if interactive {
		confirmedPaths, sessionError := runInteractiveSession(paths, logger)
		if sessionError != nil {
			return nil, sessionError
		}
		chosenPaths = confirmedPaths
	} else {
		logger.Infof("auto-selecting all %d files", len(paths))
	}

	var loadedFiles []types.FileContext
	for _, chosenPath := range chosenPaths {
		logger.Debugf("reading file %s", chosenPath)
		content, readError := reader(chosenPath)
		if readError != nil {
			logger.Warnf("error reading file %s: %v", chosenPath, readError)
			continue
		}
		loadedFiles = append(loadedFiles, types.FileContext{Path: chosenPath, Content: content})
	}

	logger.Infof("successfully loaded %d files", len(loadedFiles))
	return loadedFiles, nil
}

// runInteractiveSession owns the terminal for the lifetime of one selection.
func runInteractiveSession(paths []string, logger *zap.SugaredLogger) ([]string, error) {
	screen, screenError := tcell.NewScreen()
	if screenError != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", screenError)
	}
	if initError := screen.Init(); initError != nil {
		return nil, fmt.Errorf("initializing terminal screen: %w", initError)
	}
	defer screen.Fini()

	controller := NewController(Build(paths))
	runSessionLoop(screen, controller)

	switch controller.Phase() {
	case PhaseConfirmed:
		confirmedPaths := controller.ConfirmedPaths()
		logger.Infof("selected %d files", len(confirmedPaths))
		return confirmedPaths, nil
	default:
		return nil, controller.CancelReason()
	}
}

// runSessionLoop drives the controller from terminal events until it reaches
// a terminal phase. The screen is redrawn on every poll tick whether or not
// input arrived.
func runSessionLoop(screen tcell.Screen, controller *Controller) {
	eventChannel := make(chan tcell.Event, 16)
	go func() {
		for {
			event := screen.PollEvent()
			if event == nil {
				return
			}
			eventChannel <- event
		}
	}()

	ticker := time.NewTicker(inputPollInterval)
	defer ticker.Stop()

	drawSession(screen, controller)
	for {
		select {
		case event := <-eventChannel:
			if _, isResize := event.(*tcell.EventResize); isResize {
				screen.Sync()
				drawSession(screen, controller)
				continue
			}
			keyEvent, isKeyEvent := event.(*tcell.EventKey)
			if !isKeyEvent {
				continue
			}
			action, recognized := actionForKeyEvent(keyEvent)
			if !recognized {
				continue
			}
			if controller.Apply(action) {
				return
			}
			drawSession(screen, controller)
		case <-ticker.C:
			drawSession(screen, controller)
		}
	}
}

// actionForKeyEvent maps a terminal key event onto a logical action.
func actionForKeyEvent(keyEvent *tcell.EventKey) (Action, bool) {
	switch keyEvent.Key() {
	case tcell.KeyUp:
		return ActionMoveUp, true
	case tcell.KeyDown:
		return ActionMoveDown, true
	case tcell.KeyRight:
		return ActionExpandRight, true
	case tcell.KeyLeft:
		return ActionCollapseLeft, true
	case tcell.KeyEnter:
		return ActionConfirm, true
	case tcell.KeyEscape:
		return ActionQuit, true
	case tcell.KeyCtrlC:
		return ActionCancel, true
	case tcell.KeyRune:
		switch keyEvent.Rune() {
		case ' ':
			return ActionToggleSelect, true
		case 'a':
			return ActionSelectAll, true
		case 'n':
			return ActionDeselectAll, true
		case 'q':
			return ActionQuit, true
		case 'k':
			return ActionMoveUp, true
		case 'j':
			return ActionMoveDown, true
		}
	}
	return 0, false
}

func drawSession(screen tcell.Screen, controller *Controller) {
	screen.Clear()
	screenWidth, screenHeight := screen.Size()
	tree := controller.Tree()

	titleStyle := tcell.StyleDefault.Bold(true)
	drawText(screen, 0, 0, screenWidth, sessionTitle, titleStyle)

	bodyHeight := screenHeight - treeTopRow - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	flattened := tree.Flattened()
	cursorIndex := tree.Cursor()
	viewOffset := 0
	if cursorIndex >= bodyHeight {
		viewOffset = cursorIndex - bodyHeight + 1
	}

	cursorStyle := tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite).Bold(true)
	selectedStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	directoryStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)

	for rowIndex := 0; rowIndex < bodyHeight; rowIndex++ {
		entryIndex := viewOffset + rowIndex
		if entryIndex >= len(flattened) {
			break
		}
		entry := flattened[entryIndex]

		var linePrefix string
		if tree.EntryIsFile(entry) {
			if tree.EntryIsSelected(entry) {
				linePrefix = selectedFilePrefix
			} else {
				linePrefix = unselectedFilePrefix
			}
		} else if tree.EntryIsExpanded(entry) {
			linePrefix = expandedDirectoryMark
		} else {
			linePrefix = collapsedDirectoryMrk
		}

		lineStyle := tcell.StyleDefault
		switch {
		case entryIndex == cursorIndex:
			lineStyle = cursorStyle
		case tree.EntryIsSelected(entry):
			lineStyle = selectedStyle
		case !tree.EntryIsFile(entry):
			lineStyle = directoryStyle
		}

		lineText := fmt.Sprintf("%s%s%s",
			repeatIndent(entry.Depth), linePrefix, tree.EntryName(entry))
		drawText(screen, 0, treeTopRow+rowIndex, screenWidth, lineText, lineStyle)
	}

	statusText := fmt.Sprintf(statusLineFormat, tree.SelectedCount(), tree.TotalFileCount())
	drawText(screen, 0, screenHeight-2, screenWidth, statusText, tcell.StyleDefault)
	helpStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	drawText(screen, 0, screenHeight-1, screenWidth, sessionHelpMessage, helpStyle)

	screen.Show()
}

func repeatIndent(depth int) string {
	indentText := ""
	for depthIndex := 0; depthIndex < depth; depthIndex++ {
		indentText += indentPerDepth
	}
	return indentText
}

func drawText(screen tcell.Screen, startColumn int, row int, maxWidth int, text string, style tcell.Style) {
	column := startColumn
	for _, character := range text {
		if column >= maxWidth {
			return
		}
		screen.SetContent(column, row, character, nil, style)
		column++
	}
}
