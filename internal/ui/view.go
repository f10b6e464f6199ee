package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/wmmenu/internal/menu"
	"github.com/atomicstack/wmmenu/internal/navigator"
)

const separatorRune = "─"

// View draws every menu on the open path and a status line.
func (m *Model) View() string {
	if m.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}
	c := newCanvas(m.width, m.height)
	for _, open := range m.nav.OpenPath() {
		m.drawMenu(c, open)
	}
	view := c.render(m.paints())
	return m.replaceStatus(view)
}

func (m *Model) paints() map[paint]*lipgloss.Style {
	return map[paint]*lipgloss.Style{
		paintItem:      m.styles.Item,
		paintSelected:  m.styles.SelectedItem,
		paintSeparator: m.styles.Separator,
		paintStatus:    m.styles.Status,
		paintError:     m.styles.Error,
	}
}

func (m *Model) drawMenu(c *canvas, mn *menu.Menu) {
	metrics := m.tree.Metrics
	c.fill(mn.X, mn.Y, mn.Width, mn.Height, paintItem)
	for _, item := range mn.Items {
		top := mn.Y + item.Y
		if item.Separator {
			lineWidth := m.tree.SeparatorLineWidth(mn)
			for row := 0; row < metrics.SeparatorThickness; row++ {
				c.text(mn.X+metrics.SeparatorPaddingW, top+metrics.SeparatorPaddingH+row, strings.Repeat(separatorRune, lineWidth), paintSeparator)
			}
			continue
		}
		p := paintItem
		if mn.Selection.Item == item {
			p = paintSelected
			c.fill(mn.X, top, mn.Width, item.Height, p)
		}
		row := top + metrics.PaddingY
		c.text(mn.X+metrics.PaddingX, row, itemLabel(item, mn.Width-2*metrics.PaddingX), p)
		if item.Arrow {
			arrowX := mn.X + mn.Width - metrics.PaddingX - runewidth.StringWidth(menu.Arrow)
			c.text(arrowX, row, menu.Arrow, p)
		}
	}
}

// itemLabel ellipsizes the label to the space left for it in a menu whose
// text area is textWidth cells wide.
func itemLabel(item *menu.Item, textWidth int) string {
	limit := textWidth
	if item.MaxWidth > 0 && item.MaxWidth < limit {
		limit = item.MaxWidth
	}
	if item.Arrow {
		limit -= runewidth.StringWidth(menu.Arrow)
	}
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(item.Label) <= limit {
		return item.Label
	}
	return truncate.StringWithTail(item.Label, uint(limit), "…")
}

// replaceStatus swaps the last row of view for the status line.
func (m *Model) replaceStatus(view string) string {
	lines := strings.Split(view, "\n")
	if len(lines) == 0 {
		return view
	}
	status, style := m.statusLine()
	status = ansi.Truncate(status, m.width, "…")
	if pad := m.width - ansi.StringWidth(status); pad > 0 {
		status += strings.Repeat(" ", pad)
	}
	if style != nil {
		status = style.Render(status)
	}
	lines[len(lines)-1] = status
	return strings.Join(lines, "\n")
}

func (m *Model) statusLine() (string, *lipgloss.Style) {
	switch {
	case m.errMsg != "":
		return m.errMsg, m.styles.Error
	case m.watcherErr != "":
		return "watch: " + m.watcherErr, m.styles.Error
	case m.nav.Pending():
		return "generating menu…", m.styles.Status
	case m.infoMsg != "":
		return m.infoMsg, m.styles.Status
	}
	bindings := m.keys.idleHelp()
	if m.nav.Mode() == navigator.ModeMenu {
		bindings = m.keys.menuHelp()
	}
	return helpText(bindings), m.styles.Status
}

func helpText(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}
