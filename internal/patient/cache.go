package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cardCacheTTL = 5 * time.Minute

// Cache is a read-through cache for card-number lookups, the hot path of the
// scan flow. It fails safe: any redis error behaves like a miss so lookups
// degrade to plain database reads.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func cardKey(cardNumber string) string {
	return fmt.Sprintf("patient:card:%s", cardNumber)
}

// GetByCard returns the cached patient for a card number, or nil on miss or
// redis failure.
func (c *Cache) GetByCard(ctx context.Context, cardNumber string) *Patient {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, cardKey(cardNumber)).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors both read as a miss
		return nil
	}

	var p Patient
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// SetByCard stores a patient under their card number, ignoring redis errors
func (c *Cache) SetByCard(ctx context.Context, p *Patient) {
	if c == nil || c.client == nil || p.CardNumber == "" {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	_ = c.client.Set(ctx, cardKey(p.CardNumber), data, cardCacheTTL).Err()
}

// InvalidateCard drops the cache entry for a card number, ignoring redis errors
func (c *Cache) InvalidateCard(ctx context.Context, cardNumber string) {
	if c == nil || c.client == nil || cardNumber == "" {
		return
	}

	_ = c.client.Del(ctx, cardKey(cardNumber)).Err()
}
