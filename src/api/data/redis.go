package data

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// MustRedis returns nil when url is empty; callers fall back to in-process
// and file-backed stores.
func MustRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}
