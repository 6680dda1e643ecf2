package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectOrderAndUnsubscribe(t *testing.T) {
	var subject Subject[int]
	var got []string

	subject.Subscribe(func(v int) { got = append(got, "a") })
	cancel := subject.Subscribe(func(v int) { got = append(got, "b") })
	subject.Subscribe(func(v int) { got = append(got, "c") })

	subject.Notify(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	cancel()
	cancel()
	got = nil
	subject.Notify(2)
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestListenerMaySubscribeDuringNotify(t *testing.T) {
	var subject Subject[string]
	calls := 0
	subject.Subscribe(func(string) {
		calls++
		subject.Subscribe(func(string) { calls += 10 })
	})

	subject.Notify("x")
	assert.Equal(t, 1, calls)
}
