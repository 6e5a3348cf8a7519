package middlewares

import (
	"fmt"
	"testing"
	"time"
)

// The in-process fallback must not accumulate one bucket per client IP
// forever: buckets whose window closed are swept when a new one is created.
func TestRateLimiterEvictsExpiredBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond, nil)

	for i := 0; i < 5; i++ {
		rl.allowLocal(fmt.Sprintf("203.0.113.%d", i))
	}

	time.Sleep(20 * time.Millisecond)

	rl.allowLocal("203.0.113.100")

	rl.mu.Lock()
	n := len(rl.clients)
	rl.mu.Unlock()

	if n != 1 {
		t.Fatalf("expected expired buckets swept, %d remain", n)
	}
}
