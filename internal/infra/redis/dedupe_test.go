package redis

import (
	"context"
	"testing"
)

func TestMemoryDeduper(t *testing.T) {
	d := NewMemoryDeduper()
	ctx := context.Background()

	first, err := d.FirstSeen(ctx, "0xAbc", "0x123")
	if err != nil || !first {
		t.Fatalf("first = %v, err = %v, want true", first, err)
	}

	// Same pair, different address casing.
	again, err := d.FirstSeen(ctx, "0xABC", "0x123")
	if err != nil || again {
		t.Errorf("again = %v, err = %v, want false", again, err)
	}

	other, err := d.FirstSeen(ctx, "0xabc", "0x456")
	if err != nil || !other {
		t.Errorf("other tx = %v, err = %v, want true", other, err)
	}
}
