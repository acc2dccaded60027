package cache_test

import (
	"context"
	"errors"
	"testing"

	"wsb/config"
	"wsb/shared/cache"
	"wsb/shared/cache/mocks"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newViewConfig(host string) *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Redis.Primary.Host = host
	cfg.Cache.TTL = 300
	cfg.Cache.SlotsTTL = 120
	cfg.Cache.CategoriesTTL = 0

	return cfg
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "slots:7:2025-01-10", cache.SlotsKey(7, "2025-01-10"))
	assert.Equal(t, "heatmap:2025-01-10", cache.HeatmapKey("2025-01-10"))
	assert.Equal(t, "categories:all", cache.CategoriesKey())
	assert.Equal(t, "resources:3", cache.ResourcesKey(3))
	assert.Equal(t, "resource:7", cache.ResourceTag(7))
	assert.Equal(t, "category:3", cache.CategoryTag(3))
	assert.Equal(t, "date:2025-01-10", cache.DateTag("2025-01-10"))
}

func TestViewCache_Lookup(t *testing.T) {
	tests := []struct {
		name     string
		getErr   error
		expected bool
	}{
		{name: "hit", getErr: nil, expected: true},
		{name: "miss", getErr: cache.Nil, expected: false},
		{name: "unavailable", getErr: errors.New("connection refused"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			rc := mocks.NewMockRedisCache(ctrl)

			rc.EXPECT().Get(gomock.Any(), "heatmap:2025-01-10", gomock.Any()).Return(tt.getErr)

			view := cache.NewViewCache(newViewConfig("localhost"), rc)

			var dest map[string]any
			assert.Equal(t, tt.expected, view.Lookup(context.Background(), "heatmap:2025-01-10", &dest))
		})
	}
}

func TestViewCache_StoreUsesFamilyTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	rc := mocks.NewMockRedisCache(ctrl)

	rc.EXPECT().Save(gomock.Any(), "slots:1:2025-01-10", "v", 120, "resource:1", "date:2025-01-10").Return(nil)
	rc.EXPECT().Save(gomock.Any(), "categories:all", "v", 300).Return(errors.New("boom"))

	view := cache.NewViewCache(newViewConfig("localhost"), rc)

	view.Store(context.Background(), cache.FamilySlots, "slots:1:2025-01-10", "v", "resource:1", "date:2025-01-10")
	view.Store(context.Background(), cache.FamilyCategories, "categories:all", "v")
}

func TestViewCache_ForgetAndInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	rc := mocks.NewMockRedisCache(ctrl)

	rc.EXPECT().Delete(gomock.Any(), "slots:1:2025-01-10", "heatmap:2025-01-10").Return(errors.New("boom"))
	rc.EXPECT().Invalidate(gomock.Any(), "resource:1").Return(3, nil)

	view := cache.NewViewCache(newViewConfig("localhost"), rc)

	view.Forget(context.Background(), "slots:1:2025-01-10", "heatmap:2025-01-10")
	view.Forget(context.Background())
	assert.Equal(t, 3, view.InvalidateTags(context.Background(), "resource:1"))
}

func TestViewCache_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	rc := mocks.NewMockRedisCache(ctrl)

	view := cache.NewViewCache(newViewConfig(""), rc)

	var dest string
	assert.False(t, view.Lookup(context.Background(), "k", &dest))
	view.Store(context.Background(), cache.FamilyHeatmap, "k", "v")
	view.Forget(context.Background(), "k")
	assert.Equal(t, 0, view.InvalidateTags(context.Background(), "resource:1"))
}
