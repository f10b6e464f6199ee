// Package ui hosts the menu subsystem in a Bubble Tea program. The terminal
// is the only output and one character cell is one layout unit.
//
// Message flow:
//   - Key and mouse messages are routed through a typed handler registry
//     and turned into navigator calls (select, enter, leave, activate).
//   - Pipe menu readers and timers post closures onto a pipemenu.Loop. A
//     command waits on the loop and delivers each closure as a reactorMsg,
//     so every tree mutation happens on the Update goroutine.
//   - Activated items queue their actions on the command bus; the drained
//     bus returns a command.Result that may quit, reload or open a menu.
//   - A backend.Watcher reports menu file changes; each one rebuilds the
//     tree and reopens the menu that was showing.
//
// Rendering composites the open path onto a cell canvas and styles runs of
// equal cells with Lip Gloss, keeping the last row for a status line.
package ui
