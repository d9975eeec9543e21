package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/util"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetCourse(ctx context.Context, course *model.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return util.LogError("ошибка сериализации курса", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(course.CourseCode), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetCourse(ctx context.Context, courseCode string) (*model.Course, error) {
	val, err := r.client.Client.Get(ctx, r.key(courseCode)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения курса из Redis", err)
	}

	var course model.Course
	if err := json.Unmarshal([]byte(val), &course); err != nil {
		return nil, util.LogError("ошибка десериализации курса из кэша", err)
	}
	return &course, nil
}

func (r *CacheRepository) DeleteCourse(ctx context.Context, courseCode string) error {
	if err := r.client.Client.Del(ctx, r.key(courseCode)).Err(); err != nil {
		return util.LogError("ошибка удаления курса из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(courseCode string) string {
	return fmt.Sprintf("course:%s", courseCode)
}
