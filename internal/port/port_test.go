package port

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPort_DeliversInOrder(t *testing.T) {
	p := New[int]("numbers")

	var got []int
	p.Subscribe(func(n int) { got = append(got, n) })

	for i := range 100 {
		require.True(t, p.Send(i))
	}
	p.Close()

	require.Len(t, got, 100)
	for i, n := range got {
		assert.Equal(t, i, n)
	}
}

func TestPort_DropsWithoutSubscribers(t *testing.T) {
	p := New[string]("emitSound")

	assert.False(t, p.Send("early"))

	var got []string
	p.Subscribe(func(s string) { got = append(got, s) })
	assert.True(t, p.Send("late"))
	p.Close()

	assert.Equal(t, []string{"late"}, got)
}

func TestPort_EachSubscriberGetsEveryMessage(t *testing.T) {
	p := New[string]("emitSound")

	var a, b []string
	p.Subscribe(func(s string) { a = append(a, s) })
	p.Subscribe(func(s string) { b = append(b, s) })

	p.Send("beep")
	p.Send("beep")
	p.Close()

	assert.Equal(t, []string{"beep", "beep"}, a)
	assert.Equal(t, []string{"beep", "beep"}, b)
}

func TestPort_Unsubscribe(t *testing.T) {
	p := New[string]("emitSound")

	var calls atomic.Int32
	unsubscribe := p.Subscribe(func(string) { calls.Add(1) })
	assert.Equal(t, 1, p.Subscribers())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, p.Subscribers())
	assert.False(t, p.Send("beep"))

	p.Close()
	assert.Equal(t, int32(0), calls.Load())
}

func TestPort_CallbacksDoNotOverlap(t *testing.T) {
	p := New[int]("numbers")

	var active, maxActive atomic.Int32
	p.Subscribe(func(int) {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
	})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Send(i)
		}()
	}
	wg.Wait()
	p.Close()

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestPort_CloseIsIdempotent(t *testing.T) {
	p := New[int]("numbers")
	p.Subscribe(func(int) {})

	p.Close()
	p.Close()

	assert.False(t, p.Send(1))
	assert.Equal(t, "numbers", p.Name())
}
