// Package oncotree builds and queries a multi-level cancer-type
// ontology from a path table: each source row is a root-to-node path
// across columns level_1..level_7, each cell a "Name (CODE)" term.
// Node identity is the CODE; the same code recurring across rows must
// agree on level, name and parent or construction fails.
package oncotree

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/curalab/curatree/internal/textnorm"
)

// LevelCount is the number of level columns in the source table.
const LevelCount = 7

// codePattern captures the trailing "(CODE)" token of a term cell.
var codePattern = regexp.MustCompile(`\(([^()]+)\)\s*$`)

// ParseNameCode splits a cell of the form "Name (CODE)". Blank cells,
// cells without a trailing code, and cells where either half is empty
// report ok=false. Matching is intentionally strict.
func ParseNameCode(cell string) (name, code string, ok bool) {
	if textnorm.IsEffectivelyEmpty(cell) {
		return "", "", false
	}
	s := strings.TrimSpace(textnorm.FixMojibake(cell))
	m := codePattern.FindStringSubmatchIndex(s)
	if m == nil {
		return "", "", false
	}
	code = strings.TrimSpace(s[m[2]:m[3]])
	name = strings.TrimSpace(s[:m[0]])
	if code == "" || name == "" {
		return "", "", false
	}
	return name, code, true
}

// Node is one ontology entry. Children are in first-linked order, so
// subtree enumeration is deterministic for a given source table.
type Node struct {
	Code     string
	Name     string
	Level    int
	Parent   *Node
	Children []*Node
}

// Term returns the canonical "Name (CODE)" rendering.
func (n *Node) Term() string {
	return fmt.Sprintf("%s (%s)", n.Name, n.Code)
}

// Tree is the ontology index: code-keyed nodes plus the root set.
type Tree struct {
	nodesByCode map[string]*Node
	roots       []*Node
}

// FromCSV builds the tree from a CSV source with header columns
// level_1..level_7. Non-level columns are ignored. Any level, name or
// parent conflict between rows is a ConstructError.
func FromCSV(r io.Reader) (*Tree, error) {
	rows, colIdx, err := readPathTable(r)
	if err != nil {
		return nil, err
	}

	tree := &Tree{nodesByCode: map[string]*Node{}}
	for _, row := range rows {
		var prev *Node
		for level := 1; level <= LevelCount; level++ {
			name, code, ok := ParseNameCode(cellAt(row, colIdx[level-1]))
			if !ok {
				continue
			}

			node := tree.nodesByCode[code]
			if node == nil {
				node = &Node{Code: code, Name: name, Level: level}
				tree.nodesByCode[code] = node
			} else {
				if node.Level != level {
					return nil, &ConstructError{
						Code:    ErrCodeLevelConflict,
						Message: fmt.Sprintf("code appears at levels %d and %d", node.Level, level),
						Term:    code,
					}
				}
				if node.Name != name {
					return nil, &ConstructError{
						Code:    ErrCodeNameConflict,
						Message: fmt.Sprintf("code has inconsistent names %q and %q", node.Name, name),
						Term:    code,
					}
				}
			}

			if prev == nil {
				if node.Parent == nil && !containsNode(tree.roots, node) {
					tree.roots = append(tree.roots, node)
				}
			} else if node.Parent == nil {
				node.Parent = prev
				prev.Children = append(prev.Children, node)
			} else if node.Parent.Code != prev.Code {
				return nil, &ConstructError{
					Code:    ErrCodeParentConflict,
					Message: fmt.Sprintf("code linked under parents %s and %s", node.Parent.Code, prev.Code),
					Term:    code,
				}
			}

			prev = node
		}
	}
	return tree, nil
}

// Get returns the node for code, or nil.
func (t *Tree) Get(code string) *Node {
	return t.nodesByCode[code]
}

// Roots returns the root nodes in first-seen order.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Lift walks the parent chain of code until it reaches targetLevel.
// Returns nil when the code is unknown, the chain overshoots, or a
// parent link is missing.
func (t *Tree) Lift(code string, targetLevel int) *Node {
	cur := t.Get(code)
	for cur != nil && cur.Level > targetLevel {
		cur = cur.Parent
	}
	if cur == nil || cur.Level != targetLevel {
		return nil
	}
	return cur
}

// Ancestors returns the path root..node inclusive, or nil for an
// unknown code.
func (t *Tree) Ancestors(code string) []*Node {
	node := t.Get(code)
	if node == nil {
		return nil
	}
	var path []*Node
	for cur := node; cur != nil; cur = cur.Parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// AncestorsByLevel returns {level: node} for the path root..entry,
// entry included.
func (t *Tree) AncestorsByLevel(code string) map[int]*Node {
	path := t.Ancestors(code)
	if path == nil {
		return nil
	}
	byLevel := make(map[int]*Node, len(path))
	for _, n := range path {
		byLevel[n.Level] = n
	}
	return byLevel
}

// Descendants returns every node strictly below code, preorder.
func (t *Tree) Descendants(code string) []*Node {
	node := t.Get(code)
	if node == nil {
		return nil
	}
	var out []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, child := range n.Children {
			out = append(out, child)
			visit(child)
		}
	}
	visit(node)
	return out
}

// LeafDescendants returns the childless nodes strictly below code. A
// code that is itself a leaf has none.
func (t *Tree) LeafDescendants(code string) []*Node {
	node := t.Get(code)
	if node == nil {
		return nil
	}
	var leaves []*Node
	for _, n := range t.Descendants(code) {
		if len(n.Children) == 0 {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// readPathTable decodes the CSV and locates the level columns. The
// returned index slice maps level-1 offsets to column positions.
func readPathTable(r io.Reader) (rows [][]string, colIdx []int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read ontology header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	byName := make(map[string]int, len(header))
	for i, col := range header {
		byName[strings.TrimSpace(col)] = i
	}

	colIdx = make([]int, LevelCount)
	var missing []string
	for level := 1; level <= LevelCount; level++ {
		name := fmt.Sprintf("level_%d", level)
		idx, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			idx = -1
		}
		colIdx[level-1] = idx
	}
	if len(missing) > 0 {
		return nil, nil, &ConstructError{
			Code:    ErrCodeMissingColumns,
			Message: fmt.Sprintf("source table missing columns %s", strings.Join(missing, ", ")),
		}
	}

	rows, err = reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read ontology rows: %w", err)
	}
	return rows, colIdx, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func containsNode(nodes []*Node, node *Node) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}
