package syntax

// NodeKind classifies the type of a tree node.
type NodeKind uint16

// Node kinds for both dialects. NodeComment is shared.
const (
	NodeDocument NodeKind = iota // HTML root
	NodeElement
	NodeText
	NodeComment
	NodeDoctype
	NodeEndTag // closing tag that matched no open element

	NodeStylesheet // SCSS root
	NodeRuleSet
	NodeAtRule
	NodeDeclaration
)

var nodeKindNames = [...]string{
	NodeDocument:    "Document",
	NodeElement:     "Element",
	NodeText:        "Text",
	NodeComment:     "Comment",
	NodeDoctype:     "Doctype",
	NodeEndTag:      "EndTag",
	NodeStylesheet:  "Stylesheet",
	NodeRuleSet:     "RuleSet",
	NodeAtRule:      "AtRule",
	NodeDeclaration: "Declaration",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

// Node represents a single node in the tree.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Token span (indices into FileSnapshot.Tokens).
	// FirstToken <= LastToken for non-empty nodes.
	// Both are -1 for synthetic/degenerate nodes.
	FirstToken int
	LastToken  int

	// File is a back-reference to the containing FileSnapshot.
	File *FileSnapshot

	// Element holds tag data for NodeElement and NodeEndTag.
	Element *ElementMeta

	// Block holds prelude and brace data for NodeRuleSet and block NodeAtRule.
	Block *BlockMeta

	// Decl holds classification for NodeDeclaration and NodeAtRule.
	Decl *DeclMeta
}

// IsRoot returns true for document and stylesheet roots.
func (n *Node) IsRoot() bool {
	return n.Kind == NodeDocument || n.Kind == NodeStylesheet
}

// IsBlock returns true if the node owns a braced SCSS block.
func (n *Node) IsBlock() bool {
	return n.Block != nil
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// TagName returns the lowercased tag name of an element, or "".
func (n *Node) TagName() string {
	if n.Element == nil {
		return ""
	}
	return n.Element.LowerName()
}

// Depth returns the number of enclosing elements (HTML) or blocks (SCSS).
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == NodeElement || p.IsBlock() {
			depth++
		}
	}
	return depth
}

// SelectorDepth counts the rule sets from the root down to and including n.
// At-rule blocks such as @media do not add selector nesting.
func (n *Node) SelectorDepth() int {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		if p.Kind == NodeRuleSet {
			depth++
		}
	}
	return depth
}

// HasAncestor reports whether an enclosing element has one of the given tag names.
func (n *Node) HasAncestor(names ...string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind != NodeElement {
			continue
		}
		tag := p.TagName()
		for _, name := range names {
			if tag == name {
				return true
			}
		}
	}
	return false
}

// Category returns the ordering category of a block child.
// Nested rule sets are modifiers when their selector starts with '&'.
func (n *Node) Category() DeclCategory {
	switch {
	case n.Decl != nil:
		return n.Decl.Category
	case n.Kind == NodeRuleSet && n.Block != nil:
		if n.Block.IsModifier() {
			return CategoryModifier
		}
		return CategoryChild
	default:
		return CategoryNone
	}
}
