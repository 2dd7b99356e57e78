package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUPolicy_SelectVictim(t *testing.T) {
	base := time.Now()

	tests := []struct {
		name     string
		setup    func(s *store)
		expected string
		found    bool
	}{
		{
			name:  "empty store",
			setup: func(*store) {},
		},
		{
			name: "single entry",
			setup: func(s *store) {
				s.set("only", 1, 0, base)
			},
			expected: "only",
			found:    true,
		},
		{
			name: "oldest access wins",
			setup: func(s *store) {
				s.set("a", 1, 0, base)
				s.set("b", 2, 0, base.Add(time.Second))
				s.set("c", 3, 0, base.Add(2*time.Second))
				s.get("a", base.Add(3*time.Second))
			},
			expected: "b",
			found:    true,
		},
		{
			name: "ties break by insertion order",
			setup: func(s *store) {
				s.set("z", 1, 0, base)
				s.set("y", 2, 0, base)
				s.set("x", 3, 0, base)
			},
			expected: "z",
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(4)
			tt.setup(s)

			v, ok := lruPolicy{}.selectVictim(s)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.expected, v.key)
				assert.Same(t, s.shardFor(v.key).items[v.key], v.entry)
			}
		})
	}
}

func TestVictim_Older(t *testing.T) {
	now := time.Now()
	a := victim{lastAccess: now, seq: 2}
	b := victim{lastAccess: now.Add(time.Millisecond), seq: 1}
	c := victim{lastAccess: now, seq: 3}

	assert.True(t, a.older(b))
	assert.False(t, b.older(a))
	assert.True(t, a.older(c))
	assert.False(t, c.older(a))
}
