package fitdna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const cohortCacheTTL = time.Hour

// CohortCache keeps the per-(type, axis) cohort z-score slices in redis so
// percentile lookups do not hammer the results table. Entries expire after
// an hour and get invalidated eagerly when a new result lands in the type.
type CohortCache struct {
	redisClient *redis.Client
}

func NewCohortCache(redisClient *redis.Client) *CohortCache {
	return &CohortCache{redisClient: redisClient}
}

func cohortCacheKey(code Code, axis Axis) string {
	return fmt.Sprintf("fitdna::cohort::%s::%s", code, axis)
}

func (c *CohortCache) Get(ctx context.Context, code Code, axis Axis) ([]float64, bool) {
	key := cohortCacheKey(code, axis)
	cmd := c.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("failed to get cohort scores from redis for [%s]: %s", key, err)
		}
		return nil, false
	}

	var scores []float64
	if err := json.Unmarshal([]byte(cmd.Val()), &scores); err != nil {
		log.Errorf("failed to unmarshal cached cohort scores for [%s]: %s", key, err)
		return nil, false
	}

	log.Tracef("cohort scores for [%s] found in redis cache", key)
	return scores, true
}

func (c *CohortCache) Set(ctx context.Context, code Code, axis Axis, scores []float64) {
	key := cohortCacheKey(code, axis)
	scoresBytes, err := json.Marshal(scores)
	if err != nil {
		log.Errorf("failed to marshal cohort scores for [%s]: %s", key, err)
		return
	}

	if err := c.redisClient.Set(ctx, key, scoresBytes, cohortCacheTTL).Err(); err != nil {
		log.Errorf("failed to cache cohort scores in redis for [%s]: %s", key, err)
	}
}

func (c *CohortCache) Invalidate(ctx context.Context, code Code) {
	for _, axis := range []Axis{AxisStrength, AxisFlexibility, AxisEndurance} {
		if err := c.redisClient.Del(ctx, cohortCacheKey(code, axis)).Err(); err != nil {
			log.Errorf("failed to invalidate cohort cache for [%s/%s]: %s", code, axis, err)
		}
	}
}
