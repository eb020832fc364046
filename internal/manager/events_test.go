package manager

import (
	"fmt"
	"testing"
)

func TestEventBusAssignsSequence(t *testing.T) {
	bus := NewEventBus(10)

	first := bus.Publish(Notification{Kind: KindGenerationStarted})
	second := bus.Publish(Notification{Kind: KindGenerationCompleted})

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("seqs = %d, %d, want 1, 2", first.Seq, second.Seq)
	}
	if first.Timestamp.IsZero() {
		t.Error("publish did not stamp timestamp")
	}
}

func TestEventBusSince(t *testing.T) {
	bus := NewEventBus(10)
	for i := 0; i < 5; i++ {
		bus.Publish(Notification{Message: fmt.Sprintf("n%d", i)})
	}

	got := bus.Since(3)
	if len(got) != 2 {
		t.Fatalf("since(3) = %d events, want 2", len(got))
	}
	if got[0].Seq != 4 || got[1].Seq != 5 {
		t.Errorf("seqs = %d, %d, want 4, 5", got[0].Seq, got[1].Seq)
	}

	if got := bus.Since(100); len(got) != 0 {
		t.Errorf("since past the end = %d events, want 0", len(got))
	}
}

func TestEventBusBoundedBuffer(t *testing.T) {
	bus := NewEventBus(3)
	for i := 0; i < 6; i++ {
		bus.Publish(Notification{})
	}

	got := bus.Since(0)
	if len(got) != 3 {
		t.Fatalf("buffer holds %d, want 3", len(got))
	}
	if got[0].Seq != 4 {
		t.Errorf("oldest retained seq = %d, want 4", got[0].Seq)
	}
	// Sequence numbers keep climbing across trims.
	if next := bus.Publish(Notification{}); next.Seq != 7 {
		t.Errorf("next seq = %d, want 7", next.Seq)
	}
}
