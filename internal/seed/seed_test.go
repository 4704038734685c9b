package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Len(t, cat.Authors, 5)
	assert.Len(t, cat.Items, 10)
	assert.Len(t, cat.Products, 6)
	assert.Len(t, cat.Notifications, 5)
	assert.Len(t, cat.RewardTiers, 4)

	first := cat.Items[0]
	assert.Equal(t, "pub-001", first.ID)
	assert.Equal(t, "2023-06-13", first.Date.String())
	assert.Equal(t, domain.CategoryTechnology, first.Category)
	assert.Equal(t, int64(42), first.ReactionCounts[domain.ReactionLike])
	assert.True(t, first.HasTag("zk"))
}

func TestParse_MalformedDate(t *testing.T) {
	data := []byte(`
authors:
  - id: a1
    name: A
items:
  - id: c1
    author: a1
    date: "2023-13-40"
    category: art
    type: publication
`)
	_, err := Parse(data)
	var pe *domain.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "date", pe.Field)
}

func TestParse_UnknownEnum(t *testing.T) {
	data := []byte(`
authors:
  - id: a1
items:
  - id: c1
    author: a1
    date: "2023-06-13"
    category: cooking
    type: publication
`)
	_, err := Parse(data)
	assert.True(t, domain.IsParseError(err))
}

func TestParse_DanglingAuthor(t *testing.T) {
	data := []byte(`
items:
  - id: c1
    author: nobody
    date: "2023-06-13"
    category: art
    type: publication
`)
	_, err := Parse(data)
	assert.True(t, domain.IsNotFound(err))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
authors:
  - id: a1
    name: Solo
reward_tiers:
  - id: t1
    name: Only
    min_points: 0
`), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Solo", cat.Authors[0].Name)
	assert.Empty(t, cat.Items)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
