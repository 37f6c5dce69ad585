package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"log/slog"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/pkg/errors"
)

// Service: Valkey(Redis) 클라이언트를 래핑하여 캐싱 기능을 제공하는 서비스
// 기본 Key-Value 외에 세션 인덱스용 Set 연산을 지원한다.
type Service struct {
	client    valkey.Client
	logger    *slog.Logger
	closeOnce sync.Once
}

// Config: Valkey 연결 설정을 담는 구조체
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	// DisableCache: 서버측 클라이언트 캐싱(RESP3 tracking) 비활성화.
	// miniredis 등 RESP2 호환 서버 대상 테스트에서 사용한다.
	DisableCache bool
}

// NewCacheService: 새로운 Valkey 캐시 서비스 인스턴스를 생성하고 연결을 수립한다.
func NewCacheService(cfg Config, logger *slog.Logger) (*Service, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		DisableCache:      cfg.DisableCache,
		ForceSingleClient: cfg.DisableCache,
		ConnWriteTimeout:  constants.ValkeyConfig.ConnWriteTimeout,
		BlockingPoolSize:  constants.ValkeyConfig.BlockingPoolSize,
		PipelineMultiplex: constants.ValkeyConfig.PipelineMultiplex,
		Dialer:            net.Dialer{Timeout: constants.ValkeyConfig.DialTimeout},
	})
	if err != nil {
		return nil, errors.NewCacheError("init", "", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ValkeyConfig.ReadyTimeout)
	defer cancel()

	// Ping 테스트
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, errors.NewCacheError("ping", "", err)
	}

	logger.Info("Cache store connected",
		slog.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		slog.Int("db", cfg.DB),
		slog.Int("pool_size", constants.ValkeyConfig.BlockingPoolSize),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

// Get: 키에 해당하는 값을 조회하고, 결과를 dest에 언마샬링한다.
// 키가 없으면 (false, nil)을 반환한다.
func (c *Service) Get(ctx context.Context, key string, dest any) (bool, error) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if valkey.IsValkeyNil(resp.Error()) {
		return false, nil // Key doesn't exist - not an error
	}
	if resp.Error() != nil {
		c.logger.Error("Cache get operation failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return false, errors.NewCacheError("get", key, resp.Error())
	}

	value, err := resp.ToString()
	if err != nil {
		c.logger.Error("Cache value conversion failed", slog.String("key", key), slog.Any("error", err))
		return false, errors.NewCacheError("get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache value unmarshal failed", slog.String("key", key), slog.Any("error", err))
			return false, errors.NewCacheError("get", key, err)
		}
	}

	return true, nil
}

// Set: 값을 JSON으로 마샬링하여 키에 저장한다. (TTL 지정 가능)
func (c *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("set", key, err)
	}

	var cmd valkey.Completed
	if ttl > 0 {
		cmd = c.client.B().Set().Key(key).Value(string(jsonData)).ExSeconds(int64(ttl.Seconds())).Build()
	} else {
		cmd = c.client.B().Set().Key(key).Value(string(jsonData)).Build()
	}

	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Error("Cache set failed", slog.String("key", key), slog.Any("error", err))
		return errors.NewCacheError("set", key, err)
	}

	return nil
}

// Del: 지정된 키를 삭제한다.
func (c *Service) Del(ctx context.Context, key string) error {
	if err := c.client.Do(ctx, c.client.B().Del().Key(key).Build()).Error(); err != nil {
		c.logger.Error("Cache delete failed", slog.String("key", key), slog.Any("error", err))
		return errors.NewCacheError("del", key, err)
	}
	return nil
}

// DelMany: 여러 키를 한 번에 삭제한다.
func (c *Service) DelMany(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	resp := c.client.Do(ctx, c.client.B().Del().Key(keys...).Build())
	if resp.Error() != nil {
		c.logger.Error("Cache delete many failed", slog.Int("count", len(keys)), slog.Any("error", resp.Error()))
		return 0, errors.NewCacheError("del", fmt.Sprintf("%d keys", len(keys)), resp.Error())
	}

	deleted, err := resp.AsInt64()
	if err != nil {
		return 0, errors.NewCacheError("del", "", err)
	}

	return deleted, nil
}

// SAdd: Set 자료구조에 멤버들을 추가한다.
func (c *Service) SAdd(ctx context.Context, key string, members []string) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}

	resp := c.client.Do(ctx, c.client.B().Sadd().Key(key).Member(members...).Build())
	if resp.Error() != nil {
		c.logger.Error("Cache sadd failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return 0, errors.NewCacheError("sadd", key, resp.Error())
	}

	added, err := resp.AsInt64()
	if err != nil {
		return 0, errors.NewCacheError("sadd", key, err)
	}

	return added, nil
}

// SRem: Set 자료구조에서 멤버들을 제거한다.
func (c *Service) SRem(ctx context.Context, key string, members []string) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}

	resp := c.client.Do(ctx, c.client.B().Srem().Key(key).Member(members...).Build())
	if resp.Error() != nil {
		c.logger.Error("Cache srem failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return 0, errors.NewCacheError("srem", key, resp.Error())
	}

	removed, err := resp.AsInt64()
	if err != nil {
		return 0, errors.NewCacheError("srem", key, err)
	}

	return removed, nil
}

// SMembers: Set의 모든 멤버를 조회한다.
func (c *Service) SMembers(ctx context.Context, key string) ([]string, error) {
	resp := c.client.Do(ctx, c.client.B().Smembers().Key(key).Build())
	if resp.Error() != nil {
		c.logger.Error("Cache smembers failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return []string{}, errors.NewCacheError("smembers", key, resp.Error())
	}

	members, err := resp.AsStrSlice()
	if err != nil {
		return []string{}, errors.NewCacheError("smembers", key, err)
	}

	return members, nil
}

// SIsMember: 특정 값이 Set에 포함되어 있는지 확인한다.
func (c *Service) SIsMember(ctx context.Context, key, member string) (bool, error) {
	resp := c.client.Do(ctx, c.client.B().Sismember().Key(key).Member(member).Build())
	if resp.Error() != nil {
		c.logger.Error("Cache sismember failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return false, errors.NewCacheError("sismember", key, resp.Error())
	}

	exists, err := resp.AsBool()
	if err != nil {
		return false, errors.NewCacheError("sismember", key, err)
	}

	return exists, nil
}

// Expire: 키의 만료 시간을 설정한다.
func (c *Service) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.client.Do(ctx, c.client.B().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build()).Error(); err != nil {
		c.logger.Error("Cache expire failed", slog.String("key", key), slog.Any("error", err))
		return errors.NewCacheError("expire", key, err)
	}
	return nil
}

// Exists: 키가 존재하는지 확인한다.
func (c *Service) Exists(ctx context.Context, key string) (bool, error) {
	resp := c.client.Do(ctx, c.client.B().Exists().Key(key).Build())
	if resp.Error() != nil {
		c.logger.Error("Cache exists failed", slog.String("key", key), slog.Any("error", resp.Error()))
		return false, errors.NewCacheError("exists", key, resp.Error())
	}

	count, err := resp.AsInt64()
	if err != nil {
		return false, errors.NewCacheError("exists", key, err)
	}

	return count > 0, nil
}

// Ping: 캐시 스토어 연결 상태를 확인한다. (헬스 체크용)
func (c *Service) Ping(ctx context.Context) error {
	if err := c.client.Do(ctx, c.client.B().Ping().Build()).Error(); err != nil {
		return errors.NewCacheError("ping", "", err)
	}
	return nil
}

// GetClient: 내부 valkey 클라이언트를 반환한다.
func (c *Service) GetClient() valkey.Client {
	return c.client
}

// Close: 캐시 스토어 연결을 안전하게 종료한다.
func (c *Service) Close() error {
	c.closeOnce.Do(func() {
		if c.client == nil {
			return
		}
		c.client.Close()
		c.logger.Info("Cache store disconnected")
	})
	return nil
}
