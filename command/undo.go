package command

// maxUndoDepth bounds the stack; the oldest entries are discarded first.
const maxUndoDepth = 64

// UndoStack stores the inverse commands returned by Execute so the control
// thread can replay them. It lives on the control thread only.
type UndoStack struct {
	commands []Command
}

// Push stores an inverse command. None commands are discarded since replaying
// them would do nothing.
func (u *UndoStack) Push(cmd Command) {
	if _, ok := cmd.(None); ok {
		return
	}
	if len(u.commands) == maxUndoDepth {
		copy(u.commands, u.commands[1:])
		u.commands = u.commands[:maxUndoDepth-1]
	}
	u.commands = append(u.commands, cmd)
}

// Pop removes and returns the most recent command. The second return value is
// false when the stack is empty.
func (u *UndoStack) Pop() (Command, bool) {
	if len(u.commands) == 0 {
		return None{}, false
	}
	cmd := u.commands[len(u.commands)-1]
	u.commands = u.commands[:len(u.commands)-1]
	return cmd, true
}

// Len returns the number of stored commands.
func (u *UndoStack) Len() int {
	return len(u.commands)
}
