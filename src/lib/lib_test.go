package lib

import (
	"context"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestNewStripeClient(t *testing.T) {
	t.Run("Should replace the shared stripe client", func(t *testing.T) {
		sc := stripe.NewClient("sk_test_123")
		NewStripeClient(sc)
		assert.Same(t, sc, GetStripeClient())
	})
}

func TestNewRedisClient(t *testing.T) {
	t.Run("Should replace the shared redis client", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
		got := NewRedisClient(rdb)
		assert.Same(t, rdb, got)
		assert.Same(t, rdb, GetRedisClient())
	})
}

func TestNextBookingNumbers(t *testing.T) {
	t.Run("Should issue unique fallback numbers without redis", func(t *testing.T) {
		t.Setenv("REDIS_HOST", "")
		NewRedisClient(nil)

		numbers := NextBookingNumbers(context.Background(), 3)

		assert.Len(t, numbers, 3)
		seen := map[string]bool{}
		for _, number := range numbers {
			assert.True(t, strings.HasPrefix(number, "BK-"))
			assert.False(t, seen[number])
			seen[number] = true
		}
	})
}
