package syntax

// NewNode creates a new node of the specified kind.
// The node has no parent, children, or token associations.
func NewNode(kind NodeKind) *Node {
	return &Node{
		Kind:       kind,
		FirstToken: -1,
		LastToken:  -1,
	}
}

// NewRoot creates the root node for a dialect.
func NewRoot(dialect Dialect) *Node {
	if dialect == DialectSCSS {
		return NewNode(NodeStylesheet)
	}
	return NewNode(NodeDocument)
}

// AppendChild appends child as the last child of parent,
// detaching it from any previous parent first.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// RemoveChild removes a child from its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

// SetTokenRange sets the token range for a node.
func SetTokenRange(n *Node, first, last int) {
	if n == nil {
		return
	}
	n.FirstToken = first
	n.LastToken = last
}

// ExtendTokenRange grows the node's token range to include index.
func ExtendTokenRange(n *Node, index int) {
	if n == nil || index < 0 {
		return
	}
	if n.FirstToken < 0 || index < n.FirstToken {
		n.FirstToken = index
	}
	if index > n.LastToken {
		n.LastToken = index
	}
}

// SetFile sets the file reference for a node and all its descendants.
func SetFile(node *Node, file *FileSnapshot) {
	if node == nil {
		return
	}

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(node, func(child *Node) error {
		child.File = file
		return nil
	})
}
