package matcher

import (
	"context"
	"testing"

	"athenaapi/config"
	"athenaapi/dbhelper"
	"athenaapi/models"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const catalogDims = 1408

func catalogVector(weights map[int]float32) []float32 {
	v := make([]float32, catalogDims)
	for axis, weight := range weights {
		v[axis] = weight
	}
	return v
}

func seedCatalogRow(t *testing.T, db *gorm.DB, id string, embedding []float32) {
	t.Helper()
	product := models.CatalogProduct{
		ProductID:     id,
		ProductName:   "Product " + id,
		Category:      "Dresses",
		BaseColor:     "Red",
		Season:        "Summer",
		PriceOriginal: 79.0,
		Description:   "A red summer dress",
		Gender:        "Women",
		GcsURI:        "gs://athena-catalog/" + id + ".png",
		Embedding:     pgvector.NewVector(embedding),
	}
	require.NoError(t, db.Create(&product).Error)
}

// The pgvector index path and the in-process cosine pass must agree on
// ordering and scores for the same catalog and query. The tied pair is
// constructed so the product id tie-break is exercised in both modes.
func TestMatchIndexedAndExactModesAgree(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()

	seedCatalogRow(t, db, "P-EXACT", catalogVector(map[int]float32{0: 1}))
	seedCatalogRow(t, db, "P-CLOSE", catalogVector(map[int]float32{0: 1, 1: 1}))
	seedCatalogRow(t, db, "P-FAR", catalogVector(map[int]float32{1: 1}))
	seedCatalogRow(t, db, "P-TIE-A", catalogVector(map[int]float32{0: 1, 2: 1}))
	seedCatalogRow(t, db, "P-TIE-B", catalogVector(map[int]float32{0: 1, 3: 1}))

	query := catalogVector(map[int]float32{0: 1})
	filter := models.AttributeFilter{Gender: "Women"}

	exact := New(db, config.SearchConfig{UseVectorIndex: false}, catalogDims)
	indexed := New(db, config.SearchConfig{UseVectorIndex: true}, catalogDims)

	exactProducts, err := exact.Match(context.Background(), query, filter, 10)
	require.NoError(t, err)
	indexedProducts, err := indexed.Match(context.Background(), query, filter, 10)
	require.NoError(t, err)

	require.Len(t, exactProducts, 5)
	require.Len(t, indexedProducts, 5)
	for i := range exactProducts {
		assert.Equal(t, exactProducts[i].ID, indexedProducts[i].ID)
		assert.InDelta(t, exactProducts[i].SimilarityScore, indexedProducts[i].SimilarityScore, 1e-4)
	}
	assert.Equal(t, "P-EXACT", exactProducts[0].ID)
	assert.Equal(t, "P-TIE-A", exactProducts[1].ID)
	assert.Equal(t, "P-TIE-B", exactProducts[2].ID)

	exactTop, err := exact.Match(context.Background(), query, filter, 2)
	require.NoError(t, err)
	indexedTop, err := indexed.Match(context.Background(), query, filter, 2)
	require.NoError(t, err)

	require.Len(t, exactTop, 2)
	require.Len(t, indexedTop, 2)
	assert.Equal(t, exactTop[0].ID, indexedTop[0].ID)
	assert.Equal(t, exactTop[1].ID, indexedTop[1].ID)
}
