package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL curto: a lista de jogos muda a cada simulação, o cache só absorve
// o fan-out de leitura da tela principal.
const gamesTTL = 30 * time.Second

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

const keyGames = "advisor:games"

func (c *Cache) GetGames(ctx context.Context, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyGames).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetGames(ctx context.Context, v any) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyGames, b, gamesTTL).Err()
}

// Invalidate derruba a lista cacheada após simulação ou nova previsão.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.R.Del(ctx, keyGames).Err()
}
