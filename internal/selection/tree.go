// Package selection models the hierarchical file picker: a mutable node tree
// built from discovered paths, the flattened view it is rendered from, and
// the state machine that drives one interactive session.
package selection

import (
	"path/filepath"
	"strings"
)

// NodeID is a stable handle into a Tree's node arena.
type NodeID int

const invalidNodeID NodeID = -1

const treePathSeparator = "/"

type nodeKind int

const (
	nodeKindDirectory nodeKind = iota
	nodeKindFile
)

// node is one arena entry. Directories hold an ordered child-handle list;
// files carry the original full path and the selection flag.
type node struct {
	kind     nodeKind
	name     string
	children []NodeID
	expanded bool
	fullPath string
	selected bool
}

// Entry is one row of the flattened view: a node handle and its depth.
type Entry struct {
	Node  NodeID
	Depth int
}

// Tree is an owned arena of nodes rooted at a synthetic directory with an
// empty name. It is mutated in place for the duration of one session.
type Tree struct {
	nodes     []node
	root      NodeID
	flattened []Entry
	cursor    int
}

// Build constructs a tree from the provided paths. Directory components are
// reused by name; file leaves are appended without any deduplication check,
// so inserting the same path twice yields two identical sibling leaves.
func Build(paths []string) *Tree {
	tree := &Tree{cursor: -1}
	tree.root = tree.addNode(node{kind: nodeKindDirectory, expanded: true})

	for _, path := range paths {
		tree.insertPath(path)
	}
	tree.Flatten()
	return tree
}

func (tree *Tree) addNode(newNode node) NodeID {
	tree.nodes = append(tree.nodes, newNode)
	return NodeID(len(tree.nodes) - 1)
}

func (tree *Tree) insertPath(path string) {
	components := strings.Split(filepath.ToSlash(path), treePathSeparator)
	cleanedComponents := components[:0]
	for _, component := range components {
		if component != "" {
			cleanedComponents = append(cleanedComponents, component)
		}
	}
	if len(cleanedComponents) == 0 {
		return
	}

	currentID := tree.root
	lastIndex := len(cleanedComponents) - 1
	for componentIndex, componentName := range cleanedComponents {
		if componentIndex == lastIndex {
			fileID := tree.addNode(node{kind: nodeKindFile, name: componentName, fullPath: path})
			tree.nodes[currentID].children = append(tree.nodes[currentID].children, fileID)
			continue
		}

		childID := tree.findDirectoryChild(currentID, componentName)
		if childID == invalidNodeID {
			childID = tree.addNode(node{kind: nodeKindDirectory, name: componentName, expanded: true})
			tree.nodes[currentID].children = append(tree.nodes[currentID].children, childID)
		}
		currentID = childID
	}
}

func (tree *Tree) findDirectoryChild(parentID NodeID, name string) NodeID {
	for _, childID := range tree.nodes[parentID].children {
		child := tree.nodes[childID]
		if child.kind == nodeKindDirectory && child.name == name {
			return childID
		}
	}
	return invalidNodeID
}

// Flatten recomputes the display sequence with a pre-order walk that does not
// descend into collapsed directories. The cursor resets to the first entry,
// or -1 when the sequence is empty.
func (tree *Tree) Flatten() {
	tree.flattened = tree.flattened[:0]
	tree.flattenFrom(tree.root, 0)
	if len(tree.flattened) == 0 {
		tree.cursor = -1
	} else {
		tree.cursor = 0
	}
}

func (tree *Tree) flattenFrom(currentID NodeID, depth int) {
	current := tree.nodes[currentID]
	if currentID != tree.root {
		tree.flattened = append(tree.flattened, Entry{Node: currentID, Depth: depth})
		depth++
	}
	if current.kind == nodeKindDirectory && (currentID == tree.root || current.expanded) {
		for _, childID := range current.children {
			tree.flattenFrom(childID, depth)
		}
	}
}

// Flattened returns the current display sequence.
func (tree *Tree) Flattened() []Entry {
	return tree.flattened
}

// Cursor returns the index of the cursor row, or -1 when the view is empty.
func (tree *Tree) Cursor() int {
	return tree.cursor
}

// CursorDelta selects the direction of a cursor move.
type CursorDelta int

const (
	// CursorNext moves the cursor one row down.
	CursorNext CursorDelta = iota
	// CursorPrevious moves the cursor one row up.
	CursorPrevious
)

// MoveCursor advances the cursor, wrapping circularly at both ends.
func (tree *Tree) MoveCursor(delta CursorDelta) {
	if len(tree.flattened) == 0 {
		tree.cursor = -1
		return
	}
	switch delta {
	case CursorNext:
		if tree.cursor >= len(tree.flattened)-1 {
			tree.cursor = 0
		} else {
			tree.cursor++
		}
	case CursorPrevious:
		if tree.cursor <= 0 {
			tree.cursor = len(tree.flattened) - 1
		} else {
			tree.cursor--
		}
	}
}

// ToggleAtCursor flips the selection flag of the file under the cursor.
// Directories and an empty view are no-ops.
func (tree *Tree) ToggleAtCursor() {
	if tree.cursor < 0 || tree.cursor >= len(tree.flattened) {
		return
	}
	nodeID := tree.flattened[tree.cursor].Node
	if tree.nodes[nodeID].kind == nodeKindFile {
		tree.nodes[nodeID].selected = !tree.nodes[nodeID].selected
	}
}

// CursorDirectoryName returns the name of the directory under the cursor and
// whether the cursor is on a directory at all.
func (tree *Tree) CursorDirectoryName() (string, bool) {
	if tree.cursor < 0 || tree.cursor >= len(tree.flattened) {
		return "", false
	}
	current := tree.nodes[tree.flattened[tree.cursor].Node]
	if current.kind != nodeKindDirectory {
		return "", false
	}
	return current.name, true
}

// IsCursorOnExpandedDirectory reports whether the cursor rests on a directory
// and whether that directory is expanded.
func (tree *Tree) IsCursorOnExpandedDirectory() (onDirectory bool, expanded bool) {
	if tree.cursor < 0 || tree.cursor >= len(tree.flattened) {
		return false, false
	}
	current := tree.nodes[tree.flattened[tree.cursor].Node]
	if current.kind != nodeKindDirectory {
		return false, false
	}
	return true, current.expanded
}

// ExpandByName expands the first directory, in depth-first order, whose bare
// name equals name. Lookup is by name rather than path: two directories
// sharing a name are indistinguishable to this operation.
func (tree *Tree) ExpandByName(name string) bool {
	return tree.setExpandedByName(name, true)
}

// CollapseByName collapses the first directory whose bare name equals name.
func (tree *Tree) CollapseByName(name string) bool {
	return tree.setExpandedByName(name, false)
}

func (tree *Tree) setExpandedByName(name string, expanded bool) bool {
	targetID := tree.findDirectoryByName(tree.root, name)
	if targetID == invalidNodeID {
		return false
	}
	tree.nodes[targetID].expanded = expanded
	return true
}

func (tree *Tree) findDirectoryByName(currentID NodeID, name string) NodeID {
	for _, childID := range tree.nodes[currentID].children {
		child := tree.nodes[childID]
		if child.kind != nodeKindDirectory {
			continue
		}
		if child.name == name {
			return childID
		}
		if foundID := tree.findDirectoryByName(childID, name); foundID != invalidNodeID {
			return foundID
		}
	}
	return invalidNodeID
}

// RestoreCursor reflattens the tree and moves the cursor back to the first
// directory carrying previousName. When the name is gone the cursor clamps
// to the previous index, or to the first entry.
func (tree *Tree) RestoreCursor(previousName string, previousIndex int) {
	tree.Flatten()
	if len(tree.flattened) == 0 {
		return
	}
	if previousName != "" {
		for entryIndex, entry := range tree.flattened {
			current := tree.nodes[entry.Node]
			if current.kind == nodeKindDirectory && current.name == previousName {
				tree.cursor = entryIndex
				return
			}
		}
	}
	if previousIndex >= 0 && previousIndex < len(tree.flattened) {
		tree.cursor = previousIndex
		return
	}
	tree.cursor = 0
}

// SelectAll marks every file node selected, independent of expand state.
func (tree *Tree) SelectAll() {
	tree.setAllFiles(true)
}

// DeselectAll clears the selection flag on every file node.
func (tree *Tree) DeselectAll() {
	tree.setAllFiles(false)
}

func (tree *Tree) setAllFiles(selected bool) {
	for nodeIndex := range tree.nodes {
		if tree.nodes[nodeIndex].kind == nodeKindFile {
			tree.nodes[nodeIndex].selected = selected
		}
	}
}

// SelectedCount returns the number of selected file nodes.
func (tree *Tree) SelectedCount() int {
	selectedCount := 0
	for _, current := range tree.nodes {
		if current.kind == nodeKindFile && current.selected {
			selectedCount++
		}
	}
	return selectedCount
}

// TotalFileCount returns the number of file nodes in the tree.
func (tree *Tree) TotalFileCount() int {
	fileCount := 0
	for _, current := range tree.nodes {
		if current.kind == nodeKindFile {
			fileCount++
		}
	}
	return fileCount
}

// SelectedPaths returns the full paths of every selected file in pre-order,
// including files hidden inside collapsed directories.
func (tree *Tree) SelectedPaths() []string {
	var selectedPaths []string
	tree.collectSelected(tree.root, &selectedPaths)
	return selectedPaths
}

func (tree *Tree) collectSelected(currentID NodeID, selectedPaths *[]string) {
	current := tree.nodes[currentID]
	if current.kind == nodeKindFile {
		if current.selected {
			*selectedPaths = append(*selectedPaths, current.fullPath)
		}
		return
	}
	for _, childID := range current.children {
		tree.collectSelected(childID, selectedPaths)
	}
}

// EntryName returns the display name of the node behind an entry.
func (tree *Tree) EntryName(entry Entry) string {
	return tree.nodes[entry.Node].name
}

// EntryIsFile reports whether an entry references a file node.
func (tree *Tree) EntryIsFile(entry Entry) bool {
	return tree.nodes[entry.Node].kind == nodeKindFile
}

// EntryIsSelected reports whether an entry references a selected file.
func (tree *Tree) EntryIsSelected(entry Entry) bool {
	current := tree.nodes[entry.Node]
	return current.kind == nodeKindFile && current.selected
}

// EntryIsExpanded reports whether an entry references an expanded directory.
func (tree *Tree) EntryIsExpanded(entry Entry) bool {
	current := tree.nodes[entry.Node]
	return current.kind == nodeKindDirectory && current.expanded
}
