package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueue(t *testing.T) {
	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	defer rdb.Close()

	producer := NewProducer(rdb)

	now := time.Now().Unix()
	job := Job{
		ID:        "job-1",
		Type:      "invitation_created",
		Payload:   MustMarshal(map[string]string{"hello": "world"}),
		Priority:  2,
		MaxRetry:  3,
		CreatedAt: now,
		ExpireAt:  now + 300,
	}

	require.NoError(t, producer.Enqueue(context.Background(), job))

	// the job is scheduled at its creation time, so it is ready now
	members, err := rdb.ZRangeByScoreWithScores(context.Background(), QueueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.EqualValues(t, now, members[0].Score)

	var decoded Job
	require.NoError(t, json.Unmarshal([]byte(members[0].Member.(string)), &decoded))
	assert.Equal(t, "job-1", decoded.ID)
	assert.Equal(t, "invitation_created", decoded.Type)
}

func TestMustMarshal_Invalid(t *testing.T) {
	assert.Nil(t, MustMarshal(make(chan int)), "unmarshalable payloads yield nil")
}
