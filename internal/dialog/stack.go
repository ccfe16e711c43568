// Package dialog implements the modal dialog stack. Only the top dialog is
// rendered and receives input; dialogs below it are kept but inert.
package dialog

import tea "github.com/charmbracelet/bubbletea"

// Dialog is a modal view. Update returns the dialog that should replace it
// on the stack (usually itself), or nil to close.
type Dialog interface {
	Update(msg tea.Msg) (Dialog, tea.Cmd)
	View(width, height int) string
}

// ClearMsg empties the stack. A dialog closes itself by returning a nil
// Dialog from Update; ClearMsg is for closing every dialog at once.
type ClearMsg struct{}

// CloseAll is a command that empties the stack.
func CloseAll() tea.Msg { return ClearMsg{} }

// Stack is an ordered list of dialogs; the last element is the top.
type Stack struct {
	items []Dialog
}

// Push adds d on top.
func (s *Stack) Push(d Dialog) {
	if d == nil {
		return
	}
	s.items = append(s.items, d)
}

// Replace swaps the top dialog for d, or pushes d on an empty stack.
func (s *Stack) Replace(d Dialog) {
	if d == nil {
		return
	}
	if len(s.items) == 0 {
		s.items = append(s.items, d)
		return
	}
	s.items[len(s.items)-1] = d
}

// Pop removes and returns the top dialog. Popping an empty stack is a no-op.
func (s *Stack) Pop() (Dialog, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return top, true
}

// Clear removes every dialog.
func (s *Stack) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// Len returns the number of dialogs on the stack.
func (s *Stack) Len() int { return len(s.items) }

// Top returns the dialog that owns input, if any.
func (s *Stack) Top() (Dialog, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Update delivers msg to the top dialog only and stores the dialog it
// returns. A nil dialog is popped before Update returns, so the next message
// already goes to the dialog below. The bool reports whether a dialog
// received the message; callers must not handle it themselves when true.
func (s *Stack) Update(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	next, cmd := s.items[len(s.items)-1].Update(msg)
	if next == nil {
		s.Pop()
	} else {
		s.items[len(s.items)-1] = next
	}
	return cmd, true
}

// Apply performs a stack message. It reports whether msg was one.
func (s *Stack) Apply(msg tea.Msg) bool {
	if _, ok := msg.(ClearMsg); ok {
		s.Clear()
		return true
	}
	return false
}

// View renders the top dialog, or "" when the stack is empty.
func (s *Stack) View(width, height int) string {
	top, ok := s.Top()
	if !ok {
		return ""
	}
	return top.View(width, height)
}
