package mutex

import (
	"time"

	"github.com/go-redis/redis"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis"
)

const (
	syncWeekLockExpiration = time.Minute * 10
	notifyLockExpiration   = time.Minute * 5
	syncWeekKey            = "lock:sync-week"
	notifyKey              = "lock:notify"
)

// RefreshInterval is how often a holder extends its lock. It stays well below every expiry.
const RefreshInterval = time.Minute

// Mutex is the part of *redsync.Mutex the triggers rely on.
type Mutex interface {
	Lock() error
	Unlock() (bool, error)
	Extend() (bool, error)
}

type Builder struct {
	rs     *redsync.Redsync
	client *redis.Client
}

func NewBuilder(address string) *Builder {
	client := redis.NewClient(&redis.Options{Addr: address})
	pool := goredis.NewPool(client)
	rs := redsync.New(pool)
	return &Builder{rs: rs, client: client}
}

// SyncWeek guards a reconciliation run. A held lock fails immediately instead of waiting.
func (b *Builder) SyncWeek() Mutex {
	return b.rs.NewMutex(syncWeekKey, redsync.WithExpiry(syncWeekLockExpiration), redsync.WithTries(1))
}

func (b *Builder) Notify() Mutex {
	return b.rs.NewMutex(notifyKey, redsync.WithExpiry(notifyLockExpiration), redsync.WithTries(1))
}

func (b *Builder) Close() error {
	return b.client.Close()
}
