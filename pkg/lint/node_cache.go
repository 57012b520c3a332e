package lint

import "github.com/yaklabco/gostyle/pkg/syntax"

// NodeCache provides pre-computed collections of tree nodes by kind.
//
// The tree is walked once per file and the result is shared by every rule
// applied to that file, instead of each rule walking the tree itself.
//
// # Do Not Mutate Returned Slices
//
// The slices returned by NodeCache methods are shared across all rules.
// Sorting, appending or filtering them in place corrupts the cache for the
// rules that run afterwards. Copy first if you need to reorder.
//
// # Thread Safety
//
// NodeCache is NOT thread-safe. Rules for a single file execute
// sequentially; each file gets its own RuleContext and NodeCache.
type NodeCache struct {
	// HTML
	elements []*syntax.Node
	endTags  []*syntax.Node
	texts    []*syntax.Node
	doctypes []*syntax.Node

	// SCSS
	ruleSets     []*syntax.Node
	atRules      []*syntax.Node
	declarations []*syntax.Node
	blocks       []*syntax.Node

	// Shared
	comments []*syntax.Node
}

// Initial capacities for pre-allocation based on typical file structure.
const (
	initCapElements     = 64
	initCapTexts        = 64
	initCapRuleSets     = 32
	initCapDeclarations = 128
)

// NewNodeCache walks root once and categorizes all nodes by kind.
// A nil root yields an empty cache.
func NewNodeCache(root *syntax.Node) *NodeCache {
	nc := &NodeCache{}
	if root == nil {
		return nc
	}

	if root.Kind == syntax.NodeDocument {
		nc.elements = make([]*syntax.Node, 0, initCapElements)
		nc.texts = make([]*syntax.Node, 0, initCapTexts)
	} else {
		nc.ruleSets = make([]*syntax.Node, 0, initCapRuleSets)
		nc.declarations = make([]*syntax.Node, 0, initCapDeclarations)
	}

	//nolint:errcheck // Walk visitor never returns error in this usage
	syntax.Walk(root, func(node *syntax.Node) error {
		switch node.Kind {
		case syntax.NodeElement:
			nc.elements = append(nc.elements, node)
		case syntax.NodeEndTag:
			nc.endTags = append(nc.endTags, node)
		case syntax.NodeText:
			nc.texts = append(nc.texts, node)
		case syntax.NodeDoctype:
			nc.doctypes = append(nc.doctypes, node)
		case syntax.NodeComment:
			nc.comments = append(nc.comments, node)
		case syntax.NodeRuleSet:
			nc.ruleSets = append(nc.ruleSets, node)
		case syntax.NodeAtRule:
			nc.atRules = append(nc.atRules, node)
		case syntax.NodeDeclaration:
			nc.declarations = append(nc.declarations, node)
		}
		if node.IsBlock() {
			nc.blocks = append(nc.blocks, node)
		}
		return nil
	})

	return nc
}

// Elements returns all HTML elements in document order.
func (nc *NodeCache) Elements() []*syntax.Node {
	return nc.elements
}

// EndTags returns stray end tags that matched no open element.
func (nc *NodeCache) EndTags() []*syntax.Node {
	return nc.endTags
}

// Texts returns all HTML text nodes.
func (nc *NodeCache) Texts() []*syntax.Node {
	return nc.texts
}

// Doctypes returns all doctype declarations.
func (nc *NodeCache) Doctypes() []*syntax.Node {
	return nc.doctypes
}

// Comments returns all comment nodes of either dialect.
func (nc *NodeCache) Comments() []*syntax.Node {
	return nc.comments
}

// RuleSets returns all SCSS rule sets, outer before inner.
func (nc *NodeCache) RuleSets() []*syntax.Node {
	return nc.ruleSets
}

// AtRules returns all SCSS at-rules, statements and blocks.
func (nc *NodeCache) AtRules() []*syntax.Node {
	return nc.atRules
}

// Declarations returns all SCSS property and variable declarations.
func (nc *NodeCache) Declarations() []*syntax.Node {
	return nc.declarations
}

// Blocks returns every node owning a braced block.
func (nc *NodeCache) Blocks() []*syntax.Node {
	return nc.blocks
}
