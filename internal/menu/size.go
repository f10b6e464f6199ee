package menu

// UpdateWidths sizes every menu from its widest item.
func (t *Tree) UpdateWidths() {
	for _, m := range t.menus {
		t.UpdateWidth(m)
	}
}

// UpdateWidth applies the width rule to one menu: the widest natural item
// width, no less than the minimum and no more than the maximum, plus
// horizontal padding on both sides. Labels that do not fit, or that carry a
// submenu arrow, are constrained to the text width.
func (t *Tree) UpdateWidth(m *Menu) {
	text := t.Metrics.MinWidth
	for _, item := range m.Items {
		if item.NativeWidth > text {
			text = item.NativeWidth
			if text > t.Metrics.MaxWidth {
				text = t.Metrics.MaxWidth
			}
		}
	}
	m.Width = text + 2*t.Metrics.PaddingX

	for _, item := range m.Items {
		item.Width = m.Width
		item.MaxWidth = 0
		if item.Separator {
			continue
		}
		if item.NativeWidth > text || item.Submenu != "" || item.Execute != "" {
			item.MaxWidth = text
		}
	}
}

// SeparatorLineWidth is the drawn width of a separator line in m.
func (t *Tree) SeparatorLineWidth(m *Menu) int {
	w := m.Width - 2*t.Metrics.SeparatorPaddingW
	if w < 0 {
		return 0
	}
	return w
}
