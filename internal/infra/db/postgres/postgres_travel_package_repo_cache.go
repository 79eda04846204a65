package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/domain/ports/repository"
	"umrah-booking-platform/internal/infra/metrics"
	red "umrah-booking-platform/internal/infra/redis"
)

var _ repository.TravelPackageRepository = (*packageRepoCacheDecorator)(nil)

// packageRepoCacheDecorator caches package reads in Redis. Packages are hot
// on the verification path (every verify recomputes the expected amount) and
// change rarely, so a short TTL is safe.
type packageRepoCacheDecorator struct {
	inner repository.TravelPackageRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPackageRepoCacheDecorator(inner repository.TravelPackageRepository, cache red.RedisClient) repository.TravelPackageRepository {
	return &packageRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   15 * time.Minute,
	}
}

func (d *packageRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.TravelPackage, error) {
	key := fmt.Sprintf("package:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("package", "hit")
		var pkg model.TravelPackage
		if json.Unmarshal([]byte(val), &pkg) == nil {
			return &pkg, nil
		}
	}

	metrics.IncCacheRequest("package", "miss")
	pkg, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if pkg != nil {
		bytes, _ := json.Marshal(pkg)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return pkg, nil
}

// For write operations, we must invalidate the cache.
func (d *packageRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, pkg *model.TravelPackage) error {
	key := fmt.Sprintf("package:%s", pkg.ID)
	d.cache.Del(ctx, key)
	d.cache.Del(ctx, "packages:active")
	return d.inner.Save(ctx, tx, pkg)
}

func (d *packageRepoCacheDecorator) ListActive(ctx context.Context, tx repository.Tx) ([]*model.TravelPackage, error) {
	key := "packages:active"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("package_list", "hit")
		var pkgs []*model.TravelPackage
		if json.Unmarshal([]byte(val), &pkgs) == nil {
			return pkgs, nil
		}
	}

	metrics.IncCacheRequest("package_list", "miss")
	pkgs, err := d.inner.ListActive(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(pkgs) > 0 {
		bytes, _ := json.Marshal(pkgs)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return pkgs, nil
}
