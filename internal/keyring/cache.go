package keyring

import (
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/dcrodman/bluefin"
)

// ErrUnknownKey is returned when a named key does not exist in the ring.
var ErrUnknownKey = errors.New("keyring: no key with that name")

// ScheduleCache holds derived cipher schedules keyed by key name. Deriving
// a schedule costs hundreds of block encryptions, so repeated operations
// against the same named key should reuse the result. Schedules are
// immutable, which makes sharing cached instances safe.
type ScheduleCache struct {
	cacheInstance *gocache.Cache
}

// NewScheduleCache returns a cache whose entries expire after ttl. Passing 0
// for ttl will cause a 5 minute default to be used and -1 will never expire.
func NewScheduleCache(ttl time.Duration) *ScheduleCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &ScheduleCache{cacheInstance: gocache.New(ttl, 10*time.Second)}
}

// Get fetches a derived cipher from the cache, returning the cipher as well
// as whether or not one was found (semantics similar to map).
func (c *ScheduleCache) Get(name string) (*bluefin.Cipher, bool) {
	v, found := c.cacheInstance.Get(name)
	if !found {
		return nil, false
	}
	return v.(*bluefin.Cipher), true
}

// Put stores a derived cipher in the cache with the default expiration.
func (c *ScheduleCache) Put(name string, cipher *bluefin.Cipher) {
	c.cacheInstance.Set(name, cipher, gocache.DefaultExpiration)
}

// Invalidate drops a cached schedule, typically after its key is deleted.
func (c *ScheduleCache) Invalidate(name string) {
	c.cacheInstance.Delete(name)
}

// DeriveCipher returns a cipher for the named key, reusing a cached schedule
// when one is present and otherwise deriving it from the stored secret.
func DeriveCipher(db *gorm.DB, cache *ScheduleCache, name string) (*bluefin.Cipher, error) {
	if cipher, found := cache.Get(name); found {
		return cipher, nil
	}

	key, err := FindKeyByName(db, name)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrUnknownKey
	}

	cipher := bluefin.NewCipher(key.Secret)
	cache.Put(name, cipher)
	return cipher, nil
}
