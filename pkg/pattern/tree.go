package pattern

// Node is one pattern of a tree rendering: its kind, the name it binds and
// a short detail such as the literal or type it tests.
type Node struct {
	Kind     string  `json:"kind" yaml:"kind"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Detail   string  `json:"detail,omitempty" yaml:"detail,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree describes p as nested nodes for display.
func Tree(p Pattern) *Node {
	if p == nil {
		return &Node{Kind: "nil"}
	}
	n := &Node{Name: p.BoundName()}
	switch p := p.(type) {
	case *Any:
		n.Kind = "any"
	case *Equals:
		n.Kind = "equals"
		n.Detail = formatLiteral(p.Value)
	case *InstanceOf:
		n.Kind = "instance"
		n.Detail = typeLabel(p.TypeName, p.Type)
	case *Regex:
		n.Kind = "regex"
		if p.Re != nil {
			n.Detail = "/" + p.Re.String() + "/ " + p.Mode.String()
		}
	case *Range:
		n.Kind = "range"
		n.Detail = "length " + p.Len.String()
		n.Children = []*Node{Tree(p.inner())}
	case *List:
		n.Kind = "list"
		n.Children = trees(p.Elems)
	case *Rest:
		n.Kind = "rest"
		n.Children = []*Node{Tree(p.inner())}
	case *Case:
		n.Kind = "case"
		n.Detail = typeLabel(p.TypeName, p.Type)
		n.Children = trees(p.args().Elems)
	case *Or:
		n.Kind = "or"
		n.Children = []*Node{Tree(p.Left), Tree(p.Right)}
	case *Guarded:
		n.Kind = "guarded"
		if p.Guard != nil {
			n.Detail = "if " + p.Guard.String()
		}
		n.Children = []*Node{Tree(p.Pattern)}
	default:
		n.Kind = "unknown"
		n.Detail = p.String()
	}
	return n
}

func trees(ps []Pattern) []*Node {
	out := make([]*Node, len(ps))
	for i, p := range ps {
		out[i] = Tree(p)
	}
	return out
}
