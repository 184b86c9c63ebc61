package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"hacienda_backend/internal/models"
)

// TTL del carrito en Redis.
const cartTTL = 30 * 24 * time.Hour

// RedisCart implementa CartStore sobre Redis: un blob JSON por usuario bajo
// "cart:<userID>", con publicación pub/sub para la sincronización por
// websocket.
type RedisCart struct {
	client *redis.Client
}

func NewRedisCart(client *redis.Client) *RedisCart {
	return &RedisCart{client: client}
}

func cartKey(userID string) string { return "cart:" + userID }

func (s *RedisCart) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}

	return &models.Cart{UserID: userID, Items: items}, nil
}

func (s *RedisCart) Save(ctx context.Context, userID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, cartKey(userID), data, cartTTL).Err(); err != nil {
		return err
	}

	// Aviso best-effort a los websockets suscritos.
	s.client.Publish(ctx, cartKey(userID), "updated")
	return nil
}

func (s *RedisCart) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return err
	}
	s.client.Publish(ctx, cartKey(userID), "cleared")
	return nil
}
