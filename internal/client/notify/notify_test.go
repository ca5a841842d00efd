package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Success("Group created")
	c.Error("Rule not found")

	assert.Equal(t, "✔ Group created\n✖ Rule not found\n", buf.String())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Success("ok")
	r.Error("bad")
	r.Error("worse")

	assert.Equal(t, []Toast{{KindSuccess, "ok"}, {KindError, "bad"}, {KindError, "worse"}}, r.Toasts())
	assert.Equal(t, []string{"bad", "worse"}, r.Errors())
	assert.Equal(t, []string{"ok"}, r.Successes())

	r.Reset()
	assert.Empty(t, r.Toasts())
}

var _ Notifier = (*Console)(nil)
var _ Notifier = (*Recorder)(nil)
