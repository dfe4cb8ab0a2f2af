package command_test

import (
	"testing"

	"github.com/wmedrano/bats-go/command"
	"github.com/wmedrano/bats-go/instrument"
)

func TestQueueExecutesInFIFOOrder(t *testing.T) {
	sender, receiver := command.NewQueue()
	e := newTestEngine()
	toof := instrument.NewPlugin(instrument.KindToof, e.SampleRate())
	if !sender.Send(command.None{}) {
		t.Fatal("Send returned false on an empty queue")
	}
	if !sender.Send(command.SetPlugin{TrackID: 0, Plugin: toof}) {
		t.Fatal("Send returned false on an empty queue")
	}
	undos := receiver.ExecuteAll(e)
	if len(undos) != 2 {
		t.Fatalf("ExecuteAll returned %v undos, want 2", len(undos))
	}
	if undos[0] != (command.None{}) {
		t.Errorf("undos[0] = %#v, want None", undos[0])
	}
	prev, ok := undos[1].(command.SetPlugin)
	if !ok || !prev.Plugin.IsEmpty() {
		t.Errorf("undos[1] = %#v, want SetPlugin with empty plugin", undos[1])
	}
	if got := e.Tracks[0].Plugin.Kind(); got != instrument.KindToof {
		t.Errorf("track 0 plugin = %v, want toof", got)
	}
}

func TestQueueDrainIsNonBlocking(t *testing.T) {
	_, receiver := command.NewQueue()
	e := newTestEngine()
	if undos := receiver.ExecuteAll(e); len(undos) != 0 {
		t.Errorf("ExecuteAll on an empty queue returned %v undos, want 0", len(undos))
	}
}

func TestQueueFullDropsNewest(t *testing.T) {
	sender, receiver := command.NewQueue()
	for i := 0; i < command.QueueCapacity; i++ {
		if !sender.Send(command.SetArmedTrack{TrackID: i}) {
			t.Fatalf("Send %d returned false before the queue was full", i)
		}
	}
	if sender.Send(command.SetArmedTrack{TrackID: -1}) {
		t.Error("Send returned true on a full queue")
	}
	e := newTestEngine()
	undos := receiver.ExecuteAll(e)
	if len(undos) != command.QueueCapacity {
		t.Errorf("ExecuteAll returned %v undos, want %v", len(undos), command.QueueCapacity)
	}
	if e.ArmedTrack != command.QueueCapacity-1 {
		t.Errorf("armed track = %v, want %v", e.ArmedTrack, command.QueueCapacity-1)
	}
}

func TestUndoStackDiscardsNone(t *testing.T) {
	var stack command.UndoStack
	stack.Push(command.None{})
	if stack.Len() != 0 {
		t.Errorf("Len() = %v after pushing None, want 0", stack.Len())
	}
	if _, ok := stack.Pop(); ok {
		t.Error("Pop() returned a command from an empty stack")
	}
}

func TestUndoStackPopsInReverseOrder(t *testing.T) {
	var stack command.UndoStack
	stack.Push(command.SetArmedTrack{TrackID: 1})
	stack.Push(command.SetArmedTrack{TrackID: 2})
	cmd, ok := stack.Pop()
	if !ok || cmd != (command.SetArmedTrack{TrackID: 2}) {
		t.Errorf("Pop() = %#v, want SetArmedTrack{2}", cmd)
	}
	cmd, ok = stack.Pop()
	if !ok || cmd != (command.SetArmedTrack{TrackID: 1}) {
		t.Errorf("Pop() = %#v, want SetArmedTrack{1}", cmd)
	}
}

func TestUndoStackDropsOldestBeyondDepth(t *testing.T) {
	var stack command.UndoStack
	for i := 0; i < 100; i++ {
		stack.Push(command.SetArmedTrack{TrackID: i})
	}
	if stack.Len() != 64 {
		t.Fatalf("Len() = %v, want 64", stack.Len())
	}
	cmd, _ := stack.Pop()
	if cmd != (command.SetArmedTrack{TrackID: 99}) {
		t.Errorf("Pop() = %#v, want the newest command", cmd)
	}
}
