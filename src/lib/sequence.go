package lib

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NextBookingNumbers reserves n consecutive booking numbers from a per-day
// redis sequence. Numbers look like BK-20250115-0042. When redis is not
// reachable the caller still gets usable numbers: a uuid-suffixed fallback
// that cannot collide, so booking creation never blocks on the cache.
func NextBookingNumbers(ctx context.Context, n int) []string {
	day := time.Now().Format("20060102")
	numbers := make([]string, 0, n)
	rdb := GetRedisClient()
	if rdb != nil {
		key := fmt.Sprintf("booking:seq:%s", day)
		end, err := rdb.IncrBy(ctx, key, int64(n)).Result()
		if err == nil {
			rdb.Expire(ctx, key, 48*time.Hour)
			for i := end - int64(n) + 1; i <= end; i++ {
				numbers = append(numbers, fmt.Sprintf("BK-%s-%04d", day, i))
			}
			return numbers
		}
		log.Printf("[sequence] redis INCRBY failed, falling back: %s\n", err.Error())
	}
	for i := 0; i < n; i++ {
		suffix := strings.ToUpper(uuid.NewString()[:8])
		numbers = append(numbers, fmt.Sprintf("BK-%s-%s", day, suffix))
	}
	return numbers
}
