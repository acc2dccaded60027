package cache

//go:generate go run go.uber.org/mock/mockgen -source=./view.go -destination=./mocks/view_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"wsb/config"
	"wsb/shared"

	"github.com/rs/zerolog/log"
)

// Family groups cached views sharing a key layout and TTL.
type Family string

const (
	FamilySlots      Family = "slots"
	FamilyHeatmap    Family = "heatmap"
	FamilyCategories Family = "categories"
	FamilyResources  Family = "resources"
)

const (
	tagResource = "resource"
	tagCategory = "category"
	tagDate     = "date"
	tagCatalog  = "catalog"
)

func SlotsKey(resourceID int64, date string) string {
	return shared.BuildCacheKey(string(FamilySlots), resourceID, date)
}

func HeatmapKey(date string) string {
	return shared.BuildCacheKey(string(FamilyHeatmap), date)
}

func CategoriesKey() string {
	return shared.BuildCacheKey(string(FamilyCategories), "all")
}

func ResourcesKey(categoryID int64) string {
	return shared.BuildCacheKey(string(FamilyResources), categoryID)
}

func ResourceTag(resourceID int64) string {
	return shared.BuildCacheKey(tagResource, resourceID)
}

func CategoryTag(categoryID int64) string {
	return shared.BuildCacheKey(tagCategory, categoryID)
}

func DateTag(date string) string {
	return shared.BuildCacheKey(tagDate, date)
}

func CatalogTag() string {
	return tagCatalog
}

// ViewCache is the best-effort facade used by read paths. Failures are
// logged and reported as misses; callers always fall back to the source.
type ViewCache interface {
	Lookup(ctx context.Context, key string, dest any) bool
	Store(ctx context.Context, family Family, key string, value any, tags ...string)
	Forget(ctx context.Context, keys ...string)
	InvalidateTags(ctx context.Context, tags ...string) int
}

type viewCache struct {
	cache   RedisCache
	enabled bool
	ttl     map[Family]int
	timeout time.Duration
}

const defaultOpTimeout = 500 * time.Millisecond

func NewViewCache(cfg *config.Config, redisCache RedisCache) ViewCache {
	enabled := cfg.Cache.Redis.Primary.Host != ""
	if !enabled {
		log.Warn().Msg("Redis host is not configured, view cache disabled")
	}

	return &viewCache{
		cache:   redisCache,
		enabled: enabled,
		timeout: defaultOpTimeout,
		ttl: map[Family]int{
			FamilySlots:      orDefault(cfg.Cache.SlotsTTL, cfg.Cache.TTL),
			FamilyHeatmap:    orDefault(cfg.Cache.HeatmapTTL, cfg.Cache.TTL),
			FamilyCategories: orDefault(cfg.Cache.CategoriesTTL, cfg.Cache.TTL),
			FamilyResources:  orDefault(cfg.Cache.ResourcesTTL, cfg.Cache.TTL),
		},
	}
}

func orDefault(value, fallback int) int {
	if value > 0 {
		return value
	}

	return fallback
}

func (v *viewCache) Lookup(ctx context.Context, key string, dest any) bool {
	if !v.enabled {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	err := v.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}

	if !errors.Is(err, Nil) {
		log.Warn().Err(err).Str("key", key).Msg("view cache lookup failed, using source")
	}

	return false
}

func (v *viewCache) Store(ctx context.Context, family Family, key string, value any, tags ...string) {
	if !v.enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.timeout)
	defer cancel()

	if err := v.cache.Save(ctx, key, value, v.ttl[family], tags...); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("view cache store failed")
	}
}

func (v *viewCache) Forget(ctx context.Context, keys ...string) {
	if !v.enabled || len(keys) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.timeout)
	defer cancel()

	if err := v.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("view cache invalidation failed")
	}
}

func (v *viewCache) InvalidateTags(ctx context.Context, tags ...string) int {
	if !v.enabled || len(tags) == 0 {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.timeout)
	defer cancel()

	removed, err := v.cache.Invalidate(ctx, tags...)
	if err != nil {
		log.Warn().Err(err).Strs("tags", tags).Msg("view cache tag invalidation failed")
	}

	return removed
}
