package stats

import (
	"encoding/binary"
	"encoding/json"

	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/training"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// Cache memoizes Aggregate, keyed on a hash of the plans it was computed from.
type Cache struct {
	cache          *freecache.Cache
	expireSeconds  int
	metricsManager *metrics.Manager
}

func NewCache(sizeBytes, expireSeconds int, metricsManager *metrics.Manager) *Cache {
	return &Cache{
		cache:          freecache.NewCache(sizeBytes),
		expireSeconds:  expireSeconds,
		metricsManager: metricsManager,
	}
}

func (c *Cache) Aggregate(plans []training.Plan) Summary {
	plansJson, err := json.Marshal(plans)
	if err != nil {
		log.Errorf("stats cache, marshal plans: %s", err)
		return Aggregate(plans)
	}
	key := binary.BigEndian.AppendUint64(nil, xxhash.Sum64(plansJson))

	if cached, err := c.cache.Get(key); err == nil {
		var summary Summary
		if err := json.Unmarshal(cached, &summary); err == nil {
			c.countLookup("hit")
			return summary
		}
		log.Errorf("stats cache, unmarshal cached summary: %s", err)
	}
	c.countLookup("miss")

	summary := Aggregate(plans)
	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("stats cache, marshal summary: %s", err)
		return summary
	}
	if err := c.cache.Set(key, summaryJson, c.expireSeconds); err != nil {
		log.Warnf("stats cache, set: %s", err)
	}

	return summary
}

func (c *Cache) countLookup(result string) {
	if c.metricsManager != nil {
		c.metricsManager.CounterStatsCacheLookups.WithLabelValues(result).Inc()
	}
}
