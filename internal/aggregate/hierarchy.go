package aggregate

import (
	"github.com/KaramelBytes/womenmatters/internal/dataset"
)

// Node is one sector of a sunburst. Root sectors have an empty Parent.
type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Parent string  `json:"parent,omitempty"`
	Value  float64 `json:"value"`
}

// Tree is a two-level sunburst layout, parents first, each followed by its
// children.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// HierarchyTree lays out pairs as a sunburst. A parent's value is the sum of
// its children's means. pairs must be sorted by parent.
func HierarchyTree(pairs []PairMean) Tree {
	t := Tree{Nodes: make([]Node, 0)}
	for i := 0; i < len(pairs); {
		parent := pairs[i].Parent
		j := i
		var total float64
		for ; j < len(pairs) && pairs[j].Parent == parent; j++ {
			total += pairs[j].Mean
		}
		t.Nodes = append(t.Nodes, Node{ID: parent, Label: parent, Value: total})
		for _, p := range pairs[i:j] {
			t.Nodes = append(t.Nodes, Node{ID: parent + "/" + p.Child, Label: p.Child, Parent: parent, Value: p.Mean})
		}
		i = j
	}
	return t
}

// Matrix is a pivot of mean Value by row and column key. A nil cell means no
// row of the dataset has that combination.
type Matrix struct {
	Rows  []string     `json:"rows"`
	Cols  []string     `json:"cols"`
	Cells [][]*float64 `json:"cells"`
}

// At returns the cell for row r and column c, or nil.
func (m Matrix) At(r, c string) *float64 {
	for i, rk := range m.Rows {
		if rk != r {
			continue
		}
		for j, ck := range m.Cols {
			if ck == c {
				return m.Cells[i][j]
			}
		}
	}
	return nil
}

// DemographicsQuestionMatrix pivots the mean Value with demographics
// questions as rows and survey questions as columns.
func DemographicsQuestionMatrix(ds *dataset.Dataset) Matrix {
	pairs := pairMeans(ds, demographicsQuestion, question)
	rowSet := map[string]int{}
	colSet := map[string]int{}
	for _, p := range pairs {
		rowSet[p.Parent] = 0
		colSet[p.Child] = 0
	}
	m := Matrix{Rows: sortedKeys(rowSet), Cols: sortedKeys(colSet)}
	for i, k := range m.Rows {
		rowSet[k] = i
	}
	for j, k := range m.Cols {
		colSet[k] = j
	}
	m.Cells = make([][]*float64, len(m.Rows))
	for i := range m.Cells {
		m.Cells[i] = make([]*float64, len(m.Cols))
	}
	for _, p := range pairs {
		v := p.Mean
		m.Cells[rowSet[p.Parent]][colSet[p.Child]] = &v
	}
	return m
}
