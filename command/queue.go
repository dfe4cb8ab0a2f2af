package command

import (
	"log"

	"github.com/wmedrano/bats-go/engine"
)

// QueueCapacity is the number of commands the queue holds before Send starts
// dropping.
const QueueCapacity = 1024

// Sender enqueues commands from the control thread.
type Sender struct {
	ch chan<- Command
}

// Receiver drains and applies commands on the audio thread.
type Receiver struct {
	ch   <-chan Command
	undo []Command
}

// NewQueue creates a connected sender and receiver over a bounded channel.
func NewQueue() (Sender, *Receiver) {
	ch := make(chan Command, QueueCapacity)
	return Sender{ch: ch}, &Receiver{ch: ch, undo: make([]Command, 0, QueueCapacity)}
}

// Send enqueues a command without blocking. When the queue is full the
// command is dropped and Send returns false.
func (s Sender) Send(cmd Command) bool {
	if !trySend(s.ch, cmd) {
		log.Printf("command queue full, dropping %#v", cmd)
		return false
	}
	log.Printf("sending command %#v", cmd)
	return true
}

// ExecuteAll drains every pending command without waiting and applies each to
// the engine in FIFO order. It returns the inverses, in the same order, in a
// slice that is reused across calls.
func (r *Receiver) ExecuteAll(e *engine.Engine) []Command {
	r.undo = r.undo[:0]
	for {
		select {
		case cmd := <-r.ch:
			r.undo = append(r.undo, cmd.Execute(e))
		default:
			return r.undo
		}
	}
}

func trySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
		return true
	default:
		return false
	}
}
