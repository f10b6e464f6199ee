package markup

import (
	"errors"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0"?>
<openbox_menu>
  <!-- comment -->
  <menu id="root-menu" label="Root">
    <item label="Terminal">
      <action name="Execute"><command><![CDATA[xterm -e 'top']]></command></action>
    </item>
  </menu>
</openbox_menu>`

func TestParseBuildsTree(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if root.Name != "openbox_menu" {
		t.Fatalf("expected root openbox_menu, got %q", root.Name)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	menu := root.Children[0]
	if id, ok := menu.Attr("id"); !ok || id != "root-menu" {
		t.Fatalf("expected id root-menu, got %q (%v)", id, ok)
	}
	if menu.Parents() != 2 {
		t.Fatalf("expected top-level menu to have 2 parents, got %d", menu.Parents())
	}
	item := menu.Children[0]
	if got := item.AttrPath("label"); got != "label.item.menu.openbox_menu" {
		t.Fatalf("unexpected attribute path %q", got)
	}
	command := item.Children[0].Children[0]
	if got := command.Path(); got != "command.action.item.menu.openbox_menu" {
		t.Fatalf("unexpected path %q", got)
	}
	if command.Content() != "xterm -e 'top'" {
		t.Fatalf("expected CDATA content, got %q", command.Content())
	}
}

func TestParseMalformedReturnsParseError(t *testing.T) {
	_, err := Parse(strings.NewReader("<openbox_menu><menu></openbox_menu>"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if _, err := ParseBytes([]byte("not xml")); err == nil {
		t.Fatalf("expected error for plain text")
	}
	if _, err := ParseBytes([]byte("   ")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestStripSuffix(t *testing.T) {
	cases := []struct {
		path, pattern, want string
	}{
		{"label.item.menu.menu", ".item.menu", "label"},
		{"name.action.item.menu", ".item", "name.action"},
		{"label.item", ".item", "label"},
		{"to.action", ".item", "to.action"},
	}
	for _, tc := range cases {
		if got := StripSuffix(tc.path, tc.pattern); got != tc.want {
			t.Fatalf("StripSuffix(%q, %q) = %q, want %q", tc.path, tc.pattern, got, tc.want)
		}
	}
}

func TestLegacyContent(t *testing.T) {
	if !LegacyContent("command.action.item.menu") {
		t.Fatalf("expected command.action prefix to qualify")
	}
	if !LegacyContent("execute.action.item") {
		t.Fatalf("expected execute.action prefix to qualify")
	}
	if LegacyContent("to.action.item") || LegacyContent("command.item") {
		t.Fatalf("unexpected legacy match")
	}
}

func TestParseDecodesDeclaredLatin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<openbox_menu><menu id=\"root-menu\"><item label=\"Caf\xe9\"/></menu></openbox_menu>"
	root, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	item := root.Children[0].Children[0]
	if label, _ := item.Attr("label"); label != "Café" {
		t.Fatalf("expected decoded label, got %q", label)
	}
}

func TestParseUnknownEncodingFails(t *testing.T) {
	_, err := ParseBytes([]byte(`<?xml version="1.0" encoding="x-no-such-charset"?><openbox_menu/>`))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
