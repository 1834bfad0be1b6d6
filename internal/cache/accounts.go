package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"seoblog/api/internal/models"
)

// AccountCache keeps recently resolved accounts so the auth middleware does
// not hit the store on every authenticated request. Entries are short-lived
// and are invalidated whenever credentials or profile fields change. A nil
// *AccountCache is a valid no-op cache.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func (c *AccountCache) Get(ctx context.Context, id string) (models.Account, bool) {
	if c == nil {
		return models.Account{}, false
	}

	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		return models.Account{}, false
	}

	var account models.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return models.Account{}, false
	}
	return account, true
}

func (c *AccountCache) Set(ctx context.Context, account models.Account) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(account)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(account.ID), raw, c.ttl)
}

func (c *AccountCache) Invalidate(ctx context.Context, id string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, key(id))
}

func key(id string) string {
	return "account:" + id
}
