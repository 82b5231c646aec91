// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/0x5a17ed/csp"
)

// settle is long enough for a parked goroutine to have reached its
// suspension point in these tests.
const settle = 50 * time.Millisecond

func TestChannelFIFO(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := csp.NewChannel[int](4)
	for _, v := range []int{1, 2, 3, 4} {
		require.NoError(t, ch.Send(v))
	}

	var got []int
	for i := 0; i < 4; i++ {
		v, err := ch.Receive()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Equal(t, 0, ch.Len())
}

func TestChannelCapacity(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := csp.NewChannel[int](2)
	require.NoError(t, ch.Send(1))
	require.NoError(t, ch.Send(2))
	assert.Equal(t, 2, ch.Len())

	// the third send must park instead of growing the buffer
	sent := make(chan error)
	go func() {
		sent <- ch.Send(3)
	}()

	select {
	case <-sent:
		t.Fatal("send beyond capacity completed without a receiver")
	case <-time.After(settle):
	}
	assert.Equal(t, 2, ch.Len())

	v, err := ch.Receive()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.NoError(t, <-sent)

	// the parked sender's value migrated into the freed slot
	assert.Equal(t, 2, ch.Len())
	v, err = ch.Receive()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	v, err = ch.Receive()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestChannelDirectHandoff(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := csp.NewChannel[string](1)

	got := make(chan string)
	go func() {
		v, err := ch.Receive()
		assert.NoError(t, err)
		got <- v
	}()
	time.Sleep(settle)

	// the receiver is parked; the value must bypass the buffer
	require.NoError(t, ch.Send("hello"))
	assert.Equal(t, "hello", <-got)
	assert.Equal(t, 0, ch.Len())
}

func TestChannelRendezvous(t *testing.T) {
	defer goleak.VerifyNone(t)

	const rounds = 200

	ch := csp.NewChannel[int](1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < rounds; i++ {
			assert.NoError(t, ch.Send(i))
		}
	}()

	for i := 0; i < rounds; i++ {
		v, err := ch.Receive()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	<-done
}

func TestChannelReceiveParksOnEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := csp.NewChannel[int](2)
	require.NoError(t, ch.Send(1))
	require.NoError(t, ch.Send(2))

	v, err := ch.Receive()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = ch.Receive()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	got := make(chan int)
	go func() {
		v, err := ch.Receive()
		assert.NoError(t, err)
		got <- v
	}()

	select {
	case v := <-got:
		t.Fatalf("receive on an open empty channel returned %d", v)
	case <-time.After(settle):
	}

	require.NoError(t, ch.Send(3))
	assert.Equal(t, 3, <-got)
}

func TestChannelClose(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](1)
		assert.True(t, ch.Close())
		assert.False(t, ch.Close())
		assert.True(t, ch.IsClosed())
	})

	t.Run("SendFails", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](1)
		ch.Close()
		assert.ErrorIs(t, ch.Send(5), csp.ErrChannelClosed)
	})

	t.Run("ReceiveFailsWhenDrained", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](1)
		ch.Close()

		_, err := ch.Receive()
		assert.ErrorIs(t, err, csp.ErrChannelClosed)

		v, ok := ch.ReceiveOK()
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("DrainsBufferFirst", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](2)
		require.NoError(t, ch.Send(1))
		require.NoError(t, ch.Send(2))
		ch.Close()

		v, err := ch.Receive()
		require.NoError(t, err)
		assert.Equal(t, 1, v)
		v, ok := ch.ReceiveOK()
		assert.True(t, ok)
		assert.Equal(t, 2, v)

		_, err = ch.Receive()
		assert.ErrorIs(t, err, csp.ErrChannelClosed)
	})

	t.Run("ResumesParkedReceiver", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](1)
		got := make(chan error)
		go func() {
			_, err := ch.Receive()
			got <- err
		}()
		time.Sleep(settle)

		ch.Close()
		assert.ErrorIs(t, <-got, csp.ErrChannelClosed)
	})

	t.Run("ResumesParkedSender", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](1)
		require.NoError(t, ch.Send(1))

		got := make(chan error)
		go func() {
			got <- ch.Send(2)
		}()
		time.Sleep(settle)

		ch.Close()
		assert.ErrorIs(t, <-got, csp.ErrChannelClosed)
	})
}

func TestChannelCapacityValidation(t *testing.T) {
	assert.Panics(t, func() { csp.NewChannel[int](0) })
	assert.Panics(t, func() { csp.NewChannel[int](-3) })
}

func TestChannelManyProducersManyConsumers(t *testing.T) {
	defer goleak.VerifyNone(t)

	const (
		producers = 8
		consumers = 4
		perSender = 250
	)

	ch := csp.NewChannel[int](16)

	var senders sync.WaitGroup
	for p := 0; p < producers; p++ {
		senders.Add(1)
		go func(p int) {
			defer senders.Done()
			for i := 0; i < perSender; i++ {
				assert.NoError(t, ch.Send(p*perSender+i))
			}
		}(p)
	}

	var (
		mu   sync.Mutex
		seen = make(map[int]int)
	)
	var receivers sync.WaitGroup
	for c := 0; c < consumers; c++ {
		receivers.Add(1)
		go func() {
			defer receivers.Done()
			for {
				v, ok := ch.ReceiveOK()
				if !ok {
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}

	senders.Wait()
	ch.Close()
	receivers.Wait()

	assert.Len(t, seen, producers*perSender)
	for v, n := range seen {
		assert.Equalf(t, 1, n, "value %d delivered %d times", v, n)
	}
}

func TestIterator(t *testing.T) {
	t.Run("DrainsAndStops", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](3)
		for _, v := range []int{7, 8, 9} {
			require.NoError(t, ch.Send(v))
		}
		ch.Close()

		var got []int
		for it := ch.Iterator(); it.Next(); {
			got = append(got, it.Value())
		}
		assert.Equal(t, []int{7, 8, 9}, got)
	})

	t.Run("ValueCachedAfterNext", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](1)
		require.NoError(t, ch.Send(42))

		it := ch.Iterator()
		require.True(t, it.Next())
		assert.Equal(t, 42, it.Value())
		assert.Equal(t, 42, it.Value())
	})

	t.Run("NextParksForProducer", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ch := csp.NewChannel[int](1)
		got := make(chan int)
		go func() {
			it := ch.Iterator()
			for it.Next() {
				got <- it.Value()
			}
			close(got)
		}()
		time.Sleep(settle)

		require.NoError(t, ch.Send(1))
		assert.Equal(t, 1, <-got)
		ch.Close()
		_, open := <-got
		assert.False(t, open)
	})
}

func ExampleChannel() {
	ch := csp.NewChannel[string](2)
	ch.Send("ping")
	ch.Send("pong")
	ch.Close()

	for it := ch.Iterator(); it.Next(); {
		fmt.Println(it.Value())
	}
	// Output:
	// ping
	// pong
}
