// Package redis implements storage.Storage on Redis.
//
// Layout:
//
//	student:{id}  hash   id, name, course, email
//	students      zset   member = id, score = id (keeps FindAll ordered)
//	students:seq  string last allocated id
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/campusdev/student-registry/internal/config"
	"github.com/campusdev/student-registry/internal/types"
)

const (
	studentsKey      = "students"
	studentSeqKey    = "students:seq"
	studentKeyPrefix = "student:"
)

func studentKey(id int64) string {
	return studentKeyPrefix + strconv.FormatInt(id, 10)
}

// raiseSeq sets KEYS[1] to ARGV[1] when the latter is larger.
var raiseSeq = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local wanted = tonumber(ARGV[1])
if wanted > current then
	redis.call('SET', KEYS[1], ARGV[1])
end
return 0
`)

// Redis stores students in a Redis database.
type Redis struct {
	client *redis.Client
}

// New connects to cfg.Storage.RedisAddr and pings the server.
func New(ctx context.Context, cfg *config.Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.RedisAddr,
		Password: cfg.Storage.RedisPassword,
		DB:       cfg.Storage.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) FindAll(ctx context.Context) ([]types.Student, error) {
	ids, err := r.client.ZRange(ctx, studentsKey, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("FindAll: list ids: %w", err)
	}

	students := make([]types.Student, 0, len(ids))
	if len(ids) == 0 {
		return students, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, pipe.HGetAll(ctx, studentKeyPrefix+id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("FindAll: fetch: %w", err)
	}

	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			continue
		}
		s, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("FindAll: %w", err)
		}
		students = append(students, s)
	}

	return students, nil
}

func (r *Redis) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	data, err := r.client.HGetAll(ctx, studentKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return types.Student{}, false, fmt.Errorf("FindByID: %w", err)
	}
	if len(data) == 0 {
		return types.Student{}, false, nil
	}

	s, err := decode(data)
	if err != nil {
		return types.Student{}, false, fmt.Errorf("FindByID: %w", err)
	}
	return s, true, nil
}

func (r *Redis) Save(ctx context.Context, student types.Student) (types.Student, error) {
	if student.ID == 0 {
		id, err := r.client.Incr(ctx, studentSeqKey).Result()
		if err != nil {
			return types.Student{}, fmt.Errorf("Save: next id: %w", err)
		}
		student.ID = id
	} else if err := raiseSeq.Run(ctx, r.client, []string{studentSeqKey}, student.ID).Err(); err != nil {
		return types.Student{}, fmt.Errorf("Save: raise sequence: %w", err)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, studentKey(student.ID), map[string]interface{}{
			"id":     student.ID,
			"name":   student.Name,
			"course": student.Course,
			"email":  student.Email,
		})
		pipe.ZAdd(ctx, studentsKey, &redis.Z{Score: float64(student.ID), Member: student.ID})
		return nil
	})
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: write: %w", err)
	}

	return student, nil
}

func (r *Redis) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, studentKey(id))
		pipe.ZRem(ctx, studentsKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func decode(data map[string]string) (types.Student, error) {
	id, err := strconv.ParseInt(data["id"], 10, 64)
	if err != nil {
		return types.Student{}, fmt.Errorf("decode id %q: %w", data["id"], err)
	}
	return types.Student{
		ID:     id,
		Name:   data["name"],
		Course: data["course"],
		Email:  data["email"],
	}, nil
}
