// Package runtime is the small host library generated component modules
// import: a virtual-node tree, the h() factory, and the lifecycle types a
// generated constructor returns (mount/destroy/set).
package runtime

// VNode is a virtual node produced by a component's render function. Text
// nodes carry Text only; element nodes carry Tag/Attrs/Children.
type VNode struct {
	Tag      string
	Text     string
	Attrs    map[string]string
	Events   map[string]func()
	Children []VNode
	PatchID  string
	IsText   bool
	IsRaw    bool // true for {@html expr}: Text is trusted markup, not escaped
}

// Text builds a text VNode.
func Text(s string) VNode {
	return VNode{Text: s, IsText: true}
}

// H is the virtual-node factory generated render functions call:
// h(tag, attrs, children...).
func H(tag string, attrs map[string]string, children ...VNode) VNode {
	return VNode{Tag: tag, Attrs: attrs, Children: children}
}

// WithPatchID tags a VNode with the stable patch id its originating
// template interpolation or structural block carries, so the reconciler
// can diff minimally instead of replacing whole subtrees.
func WithPatchID(n VNode, patchID string) VNode {
	n.PatchID = patchID
	return n
}

// Effect is a registered side-effectful callback plus the binding names it
// observes; an empty Deps list means it runs exactly once at mount.
type Effect struct {
	Name string
	Deps []string
	Run  func()
}

// Instance is the lifecycle contract every generated component constructor
// returns.
type Instance interface {
	Mount(host any)
	Destroy()
	Set(patch map[string]any)
	Render() []VNode
}
