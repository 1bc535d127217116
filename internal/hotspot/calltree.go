package hotspot

import "github.com/google/pprof/profile"

// rootNodeName labels the synthetic root of the call tree.
const rootNodeName = "root"

// TreeNode is one node of the sample-weighted call tree. Value is the
// total time in seconds attributed to the subtree.
type TreeNode struct {
	Name     string      `json:"name"`
	Value    float64     `json:"value"`
	Children []*TreeNode `json:"children,omitempty"`
}

// CallTree folds the profile stacks into a tree rooted at a synthetic
// node. Stacks are walked from outermost caller to leaf; every node on a
// sample's path accrues the sample's time.
func CallTree(prof *profile.Profile) *TreeNode {
	root := &TreeNode{Name: rootNodeName}
	if prof == nil {
		return root
	}

	valueIndex := sampleValueIndex(prof)

	for _, sample := range prof.Sample {
		if len(sample.Value) <= valueIndex {
			continue
		}

		seconds := float64(sample.Value[valueIndex]) / nanosPerSecond
		root.Value += seconds

		node := root
		for _, name := range stackNames(sample) {
			node = node.child(name)
			node.Value += seconds
		}
	}

	return root
}

// stackNames returns the function names of a sample ordered from
// outermost caller to leaf. Profile locations are stored leaf-first.
func stackNames(sample *profile.Sample) []string {
	var names []string

	for i := len(sample.Location) - 1; i >= 0; i-- {
		loc := sample.Location[i]
		for j := len(loc.Line) - 1; j >= 0; j-- {
			if loc.Line[j].Function != nil {
				names = append(names, loc.Line[j].Function.Name)
			}
		}
	}

	return names
}

func (n *TreeNode) child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}

	c := &TreeNode{Name: name}
	n.Children = append(n.Children, c)

	return c
}
