package testutil

import (
	"unicode/utf8"

	"github.com/atomicstack/wmmenu/internal/layout"
	"github.com/atomicstack/wmmenu/internal/menu"
)

// RuneMeasurer gives every rune one cell and every line one row.
type RuneMeasurer struct{}

func (RuneMeasurer) Width(text string) int { return utf8.RuneCountInString(text) }

func (RuneMeasurer) Height() int { return 1 }

// Metrics is a compact geometry used across package tests.
var Metrics = menu.Metrics{
	MinWidth:           10,
	MaxWidth:           30,
	PaddingX:           1,
	SeparatorThickness: 1,
	SeparatorPaddingW:  1,
}

// Screen returns a single output of the given size at the origin.
func Screen(width, height int) layout.StaticOutputs {
	box := layout.Rect{Width: width, Height: height}
	return layout.StaticOutputs{{Name: "screen", Box: box, Usable: box}}
}
