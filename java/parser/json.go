package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Error    string      `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start [2]int `json:"start"`
	End   [2]int `json:"end"`
}

// MarshalJSON encodes the subtree rooted at n. Positions are written as
// [line, column] pairs.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{Kind: n.Kind.String(), Token: n.TokenLiteral()}
	if n.Span.Start.Line != 0 {
		jn.Span = &jsonSpan{
			Start: [2]int{n.Span.Start.Line, n.Span.Start.Column},
			End:   [2]int{n.Span.End.Line, n.Span.End.Column},
		}
	}
	if n.Error != nil {
		jn.Error = n.Error.Message
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, child.toJSON())
	}
	return jn
}
