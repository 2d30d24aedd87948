package core

import (
	"strconv"
	"testing"

	"nexledger/core/events"
)

func TestEventFeedBoundedRetention(t *testing.T) {
	feed := newEventFeed(3)
	for i := 0; i < 5; i++ {
		feed.Emit(events.LotteryReset{NewLotteryID: uint64(i)})
	}

	snapshot := feed.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("expected 3 retained events, got %d", len(snapshot))
	}
	for i, want := range []int{2, 3, 4} {
		if got := snapshot[i].Attributes["newLotteryId"]; got != strconv.Itoa(want) {
			t.Fatalf("position %d: id %s, want %d", i, got, want)
		}
	}
}

type opaqueEvent struct{}

func (opaqueEvent) EventType() string { return "opaque" }

func TestEventFeedDropsOpaquePayloads(t *testing.T) {
	feed := newEventFeed(3)
	feed.Emit(opaqueEvent{})
	if got := len(feed.Snapshot()); got != 0 {
		t.Fatalf("opaque payload retained: %d", got)
	}
}
