package syntax

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTree builds:
//
//	program
//	├── function (name: f)
//	│   └── block
//	└── comment
func sampleTree() *Node {
	name := &Node{Kind: "identifier", Field: "name", Text: "f", StartLine: 0, StartCol: 5, EndLine: 0, EndCol: 6}
	body := &Node{Kind: "block", Field: "body", StartLine: 0, StartCol: 9, EndLine: 2, EndCol: 1}
	fn := &Node{Kind: "function", StartLine: 0, EndLine: 2, EndCol: 1, Children: []*Node{name, body}}
	comment := &Node{Kind: "comment", Text: "// x", StartLine: 3, EndLine: 3, EndCol: 4}
	return &Node{Kind: RootKind, EndLine: 4, Children: []*Node{fn, comment}}
}

func TestWalk_PreOrder(t *testing.T) {
	root := sampleTree()

	var kinds []string
	Walk(root, func(n, _ *Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	assert.Equal(t, []string{RootKind, "function", "identifier", "block", "comment"}, kinds)
}

func TestWalk_SkipChildren(t *testing.T) {
	root := sampleTree()

	var kinds []string
	Walk(root, func(n, _ *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != "function"
	})
	assert.Equal(t, []string{RootKind, "function", "comment"}, kinds)
}

func TestIndexParents(t *testing.T) {
	root := sampleTree()
	parents := IndexParents(root)

	fn := root.Children[0]
	body := fn.ChildByField("body")
	require.NotNil(t, body)

	assert.Nil(t, parents.Of(root))
	assert.Same(t, fn, parents.Of(body))
	assert.Same(t, root, parents.Ancestor(body, 2))
	assert.Nil(t, parents.Ancestor(body, 3))
	assert.Equal(t, 2, parents.Depth(body))
	assert.Len(t, parents, 4, "every node except the root has a parent")
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(sampleTree(), sampleTree()))
	assert.True(t, Equal(nil, nil))

	other := sampleTree()
	other.Children[0].Children[0].Text = "g"
	assert.False(t, Equal(sampleTree(), other))

	assert.False(t, Equal(sampleTree(), nil))
}

func TestTreeText(t *testing.T) {
	src := []byte("func f() {}")
	tree := &Tree{Source: src}

	assert.Equal(t, "f", tree.Text(&Node{StartByte: 5, EndByte: 6}))
	assert.Equal(t, "", tree.Text(&Node{StartByte: 5, EndByte: 99}))
	assert.Equal(t, "", tree.Text(nil))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"unsupported", Unsupported("Cobol"), ErrUnsupportedLanguage},
		{"wrapped syntax", fmt.Errorf("parse: %w", &Error{Kind: ErrSyntax, Line: 2}), ErrSyntax},
		{"cancelled", context.Canceled, ErrCancelled},
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), ErrCancelled},
		{"other", fmt.Errorf("boom"), ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}

	assert.True(t, IsKind(Unsupported("x"), ErrUnsupportedLanguage))
	assert.False(t, IsKind(nil, ErrInternal))
	assert.Contains(t, Unsupported("Cobol").Error(), `"Cobol"`)
	assert.Equal(t, "SyntaxError at 3:4: bad", (&Error{Kind: ErrSyntax, Line: 3, Col: 4, Message: "bad"}).Error())
}
