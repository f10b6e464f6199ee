// Package markup turns an XML document into a small node tree and walks it
// as a sequence of (path, content) events.
//
// A path names an element or attribute followed by every enclosing element,
// deepest first, lower-cased and joined with dots. The label attribute in
//
//	<openbox_menu><menu id="root"><item label="Exit"/></menu></openbox_menu>
//
// is reported as "label.item.menu.openbox_menu".
package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DebugEnv enables logging of every emitted (path, content) pair.
const DebugEnv = "WMMENU_DEBUG_MENU_NODENAMES"

// ErrEmpty is returned for documents without a root element.
var ErrEmpty = errors.New("document has no root element")

// ParseError wraps decoding failures. Nothing is emitted for a document that
// fails to parse.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse document: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is an element of a parsed document.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	// Text holds the element's direct character data, CDATA included.
	Text   string
	parent *Node
}

// Parent returns the enclosing element or nil for the root element.
func (n *Node) Parent() *Node { return n.parent }

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Parents counts the node's ancestors, the document node included. The root
// element therefore has one parent.
func (n *Node) Parents() int {
	count := 1
	for p := n.parent; p != nil; p = p.parent {
		count++
	}
	return count
}

// Path returns the dotted, deepest-first name chain of the node.
func (n *Node) Path() string {
	var b strings.Builder
	for cur := n; cur != nil; cur = cur.parent {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strings.ToLower(cur.Name))
	}
	return b.String()
}

// AttrPath returns the path of one of the node's attributes.
func (n *Node) AttrPath(name string) string {
	return strings.ToLower(name) + "." + n.Path()
}

// Content returns the concatenated character data of the node and all of its
// descendants in document order.
func (n *Node) Content() string {
	var b strings.Builder
	n.content(&b)
	return b.String()
}

func (n *Node) content(b *strings.Builder) {
	b.WriteString(n.Text)
	for _, c := range n.Children {
		c.content(b)
	}
}

// Parse reads an entire document. Comments, processing instructions and
// directives are skipped.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charsetReader
	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Err: errors.New("multiple root elements")}
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				node.parent = parent
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, &ParseError{Err: ErrEmpty}
	}
	return root, nil
}

// charsetReader decodes documents that declare a non UTF-8 encoding, such
// as the ISO-8859-1 output of older menu generators.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", label, err)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// ParseBytes is Parse over an in-memory buffer.
func ParseBytes(data []byte) (*Node, error) {
	return Parse(bytes.NewReader(data))
}

// StripSuffix truncates path at the first occurrence of pattern.
func StripSuffix(path, pattern string) string {
	if idx := strings.Index(path, pattern); idx >= 0 {
		return path[:idx]
	}
	return path
}

// LegacyContent reports whether an element at path takes its whole text
// content as a value. Older menu generators wrap the command of an action in
// CDATA, so <command> and <execute> directly below <action> qualify.
func LegacyContent(path string) bool {
	return strings.HasPrefix(path, "command.action.") || strings.HasPrefix(path, "execute.action.")
}

// Debug reports whether node names should be echoed.
func Debug() bool {
	return os.Getenv(DebugEnv) != ""
}
