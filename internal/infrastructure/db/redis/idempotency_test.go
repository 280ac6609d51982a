package redis

import (
	"testing"
	"time"
)

func TestIdempotencyStore_Key(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)

	if got := s.key("cart:add:u1", "k-1"); got != "idem:cart:add:u1:k-1" {
		t.Fatalf("unexpected key %q", got)
	}
	if s.ttl != 24*time.Hour {
		t.Fatalf("default ttl = %v", s.ttl)
	}
	if NewIdempotencyStore(nil, time.Minute).ttl != time.Minute {
		t.Fatalf("explicit ttl ignored")
	}
}
