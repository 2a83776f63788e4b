package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/nftlisting/pkg/event"
)

func TestFire(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	var got []interface{}
	event.Listen("nft.deleted", func(p interface{}) { got = append(got, p) })
	event.Listen("nft.deleted", func(p interface{}) { panic("boom") })
	event.Listen("nft.deleted", func(p interface{}) { got = append(got, p) })

	event.Fire("nft.deleted", "abc")
	assert.Equal(t, []interface{}{"abc", "abc"}, got)
}

func TestFire_OnlyMatchingEvent(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	calls := 0
	event.Listen("nft.updated", func(interface{}) { calls++ })

	event.Fire("nft.created", nil)
	assert.Zero(t, calls)
	event.Fire("nft.updated", nil)
	assert.Equal(t, 1, calls)
}

func TestFlush(t *testing.T) {
	calls := 0
	event.Listen("x", func(interface{}) { calls++ })
	event.Flush()

	event.Fire("x", nil)
	assert.Zero(t, calls)
}
