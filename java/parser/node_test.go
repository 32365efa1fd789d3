package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindError, "Error"},
		{KindCompilationUnit, "CompilationUnit"},
		{KindClassDecl, "ClassDecl"},
		{KindVariableDeclarator, "VariableDeclarator"},
		{KindSkipped, "Skipped"},
		{NodeKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNodeAddChild(t *testing.T) {
	parent := &Node{Kind: KindClassDecl}
	child1 := &Node{Kind: KindMethodDecl}
	child2 := &Node{Kind: KindFieldDecl}

	parent.AddChild(child1)
	parent.AddChild(child2)
	parent.AddChild(nil)

	if len(parent.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(parent.Children))
	}
	if parent.FirstChildOfKind(KindFieldDecl) != child2 {
		t.Error("FirstChildOfKind(FieldDecl) mismatch")
	}
	if got := parent.ChildrenOfKind(KindMethodDecl); len(got) != 1 || got[0] != child1 {
		t.Errorf("ChildrenOfKind(MethodDecl) = %v", got)
	}
}

func TestNodeNilReceivers(t *testing.T) {
	var n *Node
	if n.FirstChildOfKind(KindType) != nil {
		t.Error("FirstChildOfKind on nil node should be nil")
	}
	if n.TokenLiteral() != "" || n.Name() != "" {
		t.Error("nil node should have empty literal and name")
	}
	if n.DimCount() != 0 {
		t.Error("nil node should have no dims")
	}
}

func TestNodeText(t *testing.T) {
	tests := []string{
		"int",
		"String",
		"java.util.Map<K, V>",
		"Map.Entry<String, List<? extends Number>>",
		"Comparable<? super T>",
		"byte[][]",
		"List<String>[]",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			cu := Parse([]byte("class X { " + src + " f; }"))
			field := cu.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindBody).FirstChildOfKind(KindFieldDecl)
			if field == nil {
				t.Fatalf("no field parsed:\n%s", cu)
			}
			typ := field.Children[1]
			if got := typ.Text(); got != src {
				t.Errorf("Text() = %q, want %q", got, src)
			}
		})
	}
}

func TestNodeStringAndJSON(t *testing.T) {
	cu := Parse([]byte("class A {}"), WithFile("A.java"))
	s := cu.String()
	for _, want := range []string{"CompilationUnit", "  ClassDecl", "    Identifier A", "    Body"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
	if !strings.Contains(cu.StringWithPositions(), "[A.java:1:1-A.java:1:11]") {
		t.Errorf("StringWithPositions() missing span:\n%s", cu.StringWithPositions())
	}

	data, err := json.Marshal(cu)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["kind"] != "CompilationUnit" {
		t.Errorf("kind = %v, want CompilationUnit", decoded["kind"])
	}
}
