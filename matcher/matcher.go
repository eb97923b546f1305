package matcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"athenaapi/config"
	"athenaapi/models"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

var (
	// ErrDimensionMismatch means the query embedding does not match the
	// dimensionality of the vectors stored in the catalog. Comparing
	// such vectors would rank garbage, so the request is aborted.
	ErrDimensionMismatch = errors.New("embedding dimensionality mismatch")

	// ErrCatalogUnavailable wraps any failure to reach or query the
	// catalog table. There is no local copy to fall back on.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Matcher ranks catalog products against a query embedding, narrowed
// by an attribute filter. Two interchangeable ranking strategies are
// supported: ANN ordering through the pgvector index, and an exact
// in-process cosine pass used as the ground-truth fallback.
type Matcher struct {
	db         *gorm.DB
	dimensions int
	useIndex   bool
}

func New(db *gorm.DB, cfg config.SearchConfig, dimensions int) *Matcher {
	return &Matcher{
		db:         db,
		dimensions: dimensions,
		useIndex:   cfg.UseVectorIndex,
	}
}

// Match returns up to topK products ordered by cosine similarity to
// the query embedding, most similar first. The attribute filter is
// applied before ranking in both modes. An empty result is a normal
// outcome, not an error.
func (m *Matcher) Match(ctx context.Context, embedding []float32, filter models.AttributeFilter, topK int) ([]models.Product, error) {
	if len(embedding) != m.dimensions {
		return nil, fmt.Errorf("%w: got %d values, catalog stores %d", ErrDimensionMismatch, len(embedding), m.dimensions)
	}
	if topK <= 0 {
		return []models.Product{}, nil
	}

	conds := FilterConditions(filter)
	if m.useIndex {
		return m.matchIndexed(ctx, embedding, conds, topK, nil)
	}
	return m.matchExact(ctx, embedding, conds, topK, nil)
}

// MatchCategories runs one ranking pass per detected garment category
// with the same embedding and a category-scoped filter, then merges the
// results grouped in detection order. Each product is tagged with the
// category that produced it.
func (m *Matcher) MatchCategories(ctx context.Context, embedding []float32, garments []models.GarmentRegion, gender string, perCategory int) ([]models.Product, error) {
	if len(embedding) != m.dimensions {
		return nil, fmt.Errorf("%w: got %d values, catalog stores %d", ErrDimensionMismatch, len(embedding), m.dimensions)
	}

	var merged []models.Product
	for _, garment := range garments {
		conds := []Condition{categoryScope(garment.Category)}
		conds = append(conds, FilterConditions(models.AttributeFilter{Gender: gender})...)

		var (
			products []models.Product
			err      error
		)
		if m.useIndex {
			products, err = m.matchIndexed(ctx, embedding, conds, perCategory, &garment.Category)
		} else {
			products, err = m.matchExact(ctx, embedding, conds, perCategory, &garment.Category)
		}
		if err != nil {
			return nil, err
		}
		merged = append(merged, products...)
	}
	if merged == nil {
		merged = []models.Product{}
	}
	return merged, nil
}

// rankedRow is a catalog row with the index-computed cosine distance.
type rankedRow struct {
	models.CatalogProduct
	Distance float64 `gorm:"column:distance"`
}

func (m *Matcher) matchIndexed(ctx context.Context, embedding []float32, conds []Condition, topK int, matchedCategory *string) ([]models.Product, error) {
	query := m.db.WithContext(ctx).
		Table(models.CatalogProduct{}.TableName()).
		Select("*, (embedding <=> ?) AS distance", pgvector.NewVector(embedding))
	query = applyConditions(query, conds)

	var rows []rankedRow
	err := query.
		Order("distance ASC, product_id ASC").
		Limit(topK).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		product := row.ToProduct(clampSimilarity(1.0 - row.Distance))
		product.MatchedCategory = matchedCategory
		products = append(products, product)
	}
	return products, nil
}

func (m *Matcher) matchExact(ctx context.Context, embedding []float32, conds []Condition, topK int, matchedCategory *string) ([]models.Product, error) {
	query := applyConditions(m.db.WithContext(ctx).Model(&models.CatalogProduct{}), conds)

	var candidates []models.CatalogProduct
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	products, err := RankExact(candidates, embedding, topK)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].MatchedCategory = matchedCategory
	}
	return products, nil
}

// RankExact computes cosine similarity between the query embedding and
// every candidate, sorts descending and truncates to topK. Ties are
// broken by ascending product id so rankings are reproducible. Ordering
// uses the raw cosine value; clamping applies only to the reported
// score, so negative-similarity candidates keep their relative order.
// This is the correctness oracle for the indexed mode.
func RankExact(candidates []models.CatalogProduct, embedding []float32, topK int) ([]models.Product, error) {
	type scored struct {
		product    *models.CatalogProduct
		similarity float64
	}

	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		stored := candidates[i].Embedding.Slice()
		if len(stored) != len(embedding) {
			return nil, fmt.Errorf("%w: product %s stores %d values, query has %d",
				ErrDimensionMismatch, candidates[i].ProductID, len(stored), len(embedding))
		}
		ranked = append(ranked, scored{
			product:    &candidates[i],
			similarity: CosineSimilarity(embedding, stored),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].similarity != ranked[j].similarity {
			return ranked[i].similarity > ranked[j].similarity
		}
		return ranked[i].product.ProductID < ranked[j].product.ProductID
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	products := make([]models.Product, 0, topK)
	for _, entry := range ranked[:topK] {
		products = append(products, entry.product.ToProduct(clampSimilarity(entry.similarity)))
	}
	return products, nil
}

// CosineSimilarity is dot(a,b) / (||a|| * ||b||). Zero-magnitude
// vectors yield 0 rather than dividing by zero.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clampSimilarity(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
