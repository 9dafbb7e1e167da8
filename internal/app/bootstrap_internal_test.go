package app

import (
	"testing"
	"time"

	"github.com/Gunvolt24/wb_abc/config"
)

// Capacity <= 0 выключает кэш: сервис должен получить nil, а не кэш на одну запись.
func TestReportCacheFromConfig_DisabledAtZeroOrNegative(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		if c := reportCacheFromConfig(config.Cache{Capacity: capacity, TTL: time.Minute}); c != nil {
			t.Fatalf("capacity=%d: want nil cache, got %T", capacity, c)
		}
	}
}

func TestReportCacheFromConfig_EnabledAtPositiveCapacity(t *testing.T) {
	c := reportCacheFromConfig(config.Cache{Capacity: 8, TTL: time.Minute})
	if c == nil {
		t.Fatalf("want live cache at positive capacity, got nil")
	}
}
