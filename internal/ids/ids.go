// internal/ids/ids.go
package ids

import (
	"strconv"
	"strings"
	"sync"
)

// Role prefixes for minted identifiers.
const (
	RoomPrefix   = "RM-"
	GamePrefix   = "GM-"
	PlayerPrefix = "PL-"
	StakerPrefix = "ST-"
)

// Generator mints prefix+timestamp identifiers. A timestamp that is not
// ahead of the last one issued for the same prefix is bumped to last+1,
// so two calls inside the same block never share an id.
type Generator struct {
	mu   sync.Mutex
	last map[string]uint64
}

func NewGenerator() *Generator {
	return &Generator{last: make(map[string]uint64)}
}

// Next returns the identifier for prefix at timestamp ts.
func (g *Generator) Next(prefix string, ts uint64) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if prev, ok := g.last[prefix]; ok && ts <= prev {
		ts = prev + 1
	}
	g.last[prefix] = ts
	return prefix + strconv.FormatUint(ts, 10)
}

// Observe records an existing identifier so later calls never reissue it.
// Identifiers that don't parse as prefix+number are ignored.
func (g *Generator) Observe(id string) {
	i := strings.IndexByte(id, '-')
	if i < 0 {
		return
	}
	prefix := id[:i+1]
	ts, err := strconv.ParseUint(id[i+1:], 10, 64)
	if err != nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.last[prefix]; !ok || ts > prev {
		g.last[prefix] = ts
	}
}
