package bilingual

// Controller wires reveal-on-tap behavior onto rendered subtrees. Attaching
// the same root twice returns the existing handle, so re-rendering a page
// section never stacks duplicate behavior.
type Controller struct {
	handles map[*Node]*Handle
}

// NewController returns an empty controller.
func NewController() *Controller {
	return &Controller{handles: make(map[*Node]*Handle)}
}

// Attach enables toggle handling under root and returns its handle. Calling
// Attach again with the same root is a no-op returning the original handle.
func (c *Controller) Attach(root *Node) *Handle {
	if h, ok := c.handles[root]; ok {
		return h
	}
	h := &Handle{controller: c, root: root}
	c.handles[root] = h
	return h
}

// Attached reports whether root currently has a handle.
func (c *Controller) Attached(root *Node) bool {
	_, ok := c.handles[root]
	return ok
}

// Handle is an active attachment of toggle behavior to one subtree.
type Handle struct {
	controller *Controller
	root       *Node
}

// Detach removes the handle; subsequent events on it do nothing.
func (h *Handle) Detach() {
	if h.controller == nil {
		return
	}
	delete(h.controller.handles, h.root)
	h.controller = nil
}

// Click handles a tap on target. It finds the nearest enclosing toggle,
// flips the open state, and shows or hides the Persian sibling. Targets
// inside a no-toggle element are ignored so links and buttons embedded in
// bilingual blocks keep their own behavior. It reports whether a toggle
// fired.
func (h *Handle) Click(target *Node) bool {
	if h.controller == nil || target == nil {
		return false
	}
	toggle := target.Closest(ClassToggle)
	if toggle == nil || !inTree(h.root, toggle) {
		return false
	}
	// A no-toggle marker between the target and the toggle opts the
	// subtree out.
	for cur := target; cur != nil && cur != toggle.parent; cur = cur.parent {
		if cur.HasClass(ClassNoToggle) {
			return false
		}
	}
	parent := toggle.Parent()
	if parent == nil {
		return false
	}
	fa := parent.Find(ClassFA)
	if fa == nil {
		return false
	}
	fa.ToggleClass(ClassHidden)
	toggle.ToggleClass(ClassOpen)
	return true
}

// Keydown handles keyboard activation. Enter and Space on a toggle behave
// like a click; it reports whether the key was consumed (the caller should
// then suppress default key handling such as page scroll on Space).
func (h *Handle) Keydown(target *Node, key string) bool {
	if key != "Enter" && key != " " {
		return false
	}
	if target == nil || !target.HasClass(ClassToggle) {
		return false
	}
	return h.Click(target)
}

func inTree(root, n *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == root {
			return true
		}
	}
	return false
}

// NewBlock builds the standard bilingual fragment: a container holding the
// English text, a toggle control, and the Persian text hidden by default.
// Empty FA yields a container with no toggle at all.
func NewBlock(t Text) *Node {
	block := NewNode("div", "bilingual")
	block.Append(NewNode("p", "en"))
	if t.FA == "" {
		return block
	}
	block.Append(NewNode("button", ClassToggle))
	block.Append(NewNode("p", ClassFA, ClassHidden))
	return block
}
