// Package notify shows transient success and error messages (toasts).
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console prints each toast as one styled line.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	styles ui.Styles
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w, styles: ui.For(w)}
}

func (c *Console) Success(msg string) {
	c.print(c.styles.Success.Render("✔ " + msg))
}

func (c *Console) Error(msg string) {
	c.print(c.styles.Danger.Render("✖ " + msg))
}

func (c *Console) print(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Toast is one recorded notification.
type Toast struct {
	Kind    Kind
	Message string
}

// Recorder keeps toasts in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Kind: k, Message: msg})
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Errors returns the messages of error toasts.
func (r *Recorder) Errors() []string { return r.messages(KindError) }

// Successes returns the messages of success toasts.
func (r *Recorder) Successes() []string { return r.messages(KindSuccess) }

func (r *Recorder) messages(k Kind) []string {
	var out []string
	for _, t := range r.Toasts() {
		if t.Kind == k {
			out = append(out, t.Message)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}
