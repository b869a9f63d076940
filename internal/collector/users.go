package collector

import (
	"os/user"
	"strconv"
	"sync"
)

// UserCache resolves numeric owner ids to names. Lookups that fail are
// cached as the numeric id so a missing passwd entry is not retried every scan.
type UserCache struct {
	mu     sync.Mutex
	names  map[int32]string
	lookup func(uid string) (*user.User, error)
}

func NewUserCache() *UserCache {
	return &UserCache{
		names:  make(map[int32]string),
		lookup: user.LookupId,
	}
}

func (c *UserCache) Lookup(uid int32) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name, ok := c.names[uid]; ok {
		return name
	}

	id := strconv.Itoa(int(uid))
	name := id
	if u, err := c.lookup(id); err == nil && u.Username != "" {
		name = u.Username
	}
	c.names[uid] = name
	return name
}
