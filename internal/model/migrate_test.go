package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// SQLite 与 Postgres 的索引名在库内全局唯一
func TestIndexNamesUniqueAcrossTables(t *testing.T) {
	cache := &sync.Map{}
	owner := map[string]string{}

	for _, m := range AllModels() {
		s, err := schema.Parse(m, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		for _, idx := range s.ParseIndexes() {
			if prev, ok := owner[idx.Name]; ok {
				assert.Failf(t, "duplicate index name", "%s used by %s and %s", idx.Name, prev, s.Table)
				continue
			}
			owner[idx.Name] = s.Table
		}
	}
	assert.Contains(t, owner, "idx_post_comments_post_id")
	assert.Contains(t, owner, "idx_likes_post_id")
}
