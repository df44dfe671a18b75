// Package cache guarda en Redis lecturas del catálogo de productos.
//
// Las claves llevan un número de versión; invalidar es incrementar la versión
// (Bump), lo que deja huérfanas las entradas anteriores hasta que expira su TTL.
// El stock nunca pasa por aquí: siempre se calcula contra el libro.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogVersionKey = "catalog:version"

// CatalogCache cache versionada del catálogo. Un *CatalogCache nil, o sin cliente,
// llama siempre al loader.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache construye la cache sobre client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) disabled() bool { return c == nil || c.client == nil }

// Version devuelve la versión vigente, inicializándola a 1 si no existe.
func (c *CatalogCache) Version(ctx context.Context) (int64, error) {
	if c.disabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, catalogVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX: otro proceso pudo inicializarla entre Get y Set.
		if err := c.client.SetNX(ctx, catalogVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, catalogVersionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		if err := c.client.Set(ctx, catalogVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		ver = 1
	}
	return ver, nil
}

// BuildKey arma la clave con la versión vigente al final.
func (c *CatalogCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{"catalog"}, parts...), ":")
	if c.disabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON lee key en dest o, si no está, la llena con loader.
func (c *CatalogCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if !c.disabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if !c.disabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalida el catálogo incrementando la versión. Las claves viejas expiran por TTL.
func (c *CatalogCache) Bump(ctx context.Context) error {
	if c.disabled() {
		return nil
	}
	return c.client.Incr(ctx, catalogVersionKey).Err()
}
