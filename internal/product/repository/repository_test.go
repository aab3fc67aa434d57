package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/pkg/testinfra"
)

func newDryRunRepo(t *testing.T) (*GormProductRepository, *testinfra.StatementRecorder) {
	db := testinfra.DryRunDB(t)
	rec := testinfra.RecordStatements(t, db)
	return NewGormProductRepository(db), rec
}

func TestListOrdersByEcoScoreWithNullsLast(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.List(context.Background(), domain.ListFilter{Limit: 20})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT * FROM "products" ORDER BY eco_score DESC NULLS LAST, id ASC LIMIT 20`,
		rec.Last())
}

func TestListAppliesOffset(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.List(context.Background(), domain.ListFilter{Limit: 10, Offset: 40})
	require.NoError(t, err)

	assert.Contains(t, rec.Last(), "LIMIT 10 OFFSET 40")
}

func TestListCategoryFilter(t *testing.T) {
	tests := []struct {
		category string
		where    string
	}{
		{"Home", "WHERE category = 'Home'"},
		{"  Kitchen ", "WHERE category = 'Kitchen'"},
		{"all", ""},
		{"ALL", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			repo, rec := newDryRunRepo(t)

			_, err := repo.List(context.Background(), domain.ListFilter{Category: tt.category, Limit: 20})
			require.NoError(t, err)

			if tt.where == "" {
				assert.NotContains(t, rec.Last(), "WHERE")
				return
			}
			assert.Contains(t, rec.Last(), tt.where)
		})
	}
}

func TestSearchMatchesTitleOrTextWithinCategory(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.List(context.Background(), domain.ListFilter{Category: "Home", Search: " bamboo ", Limit: 20})
	require.NoError(t, err)

	sql := rec.Last()
	assert.Contains(t, sql, "category = 'Home' AND (title ILIKE '%bamboo%' OR text ILIKE '%bamboo%')")
	assert.Contains(t, sql, "ORDER BY eco_score DESC NULLS LAST, id ASC")
}

func TestSearchEscapesWildcards(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.List(context.Background(), domain.ListFilter{Search: `100%_a\b`, Limit: 20})
	require.NoError(t, err)

	assert.Contains(t, rec.Last(), `title ILIKE '%100\%\_a\\b%'`)
}

func TestBlankSearchDegradesToList(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.List(context.Background(), domain.ListFilter{Search: "   ", Limit: 20})
	require.NoError(t, err)

	assert.NotContains(t, rec.Last(), "ILIKE")
}

func TestFindByDemographicPredicate(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.FindByDemographic(context.Background(), domain.NewDemographicFilter(30, "Female"), 20)
	require.NoError(t, err)

	sql := rec.Last()
	assert.Contains(t, sql,
		"(age_target IS NULL OR age_target = '25-34' OR age_target LIKE '%25-34%') AND "+
			"(gender_target IS NULL OR gender_target = 'Female' OR gender_target LIKE '%Female%')")
	assert.Contains(t, sql, "ORDER BY eco_score DESC NULLS LAST, id ASC LIMIT 20")
}

func TestCategoriesAreDistinctNonBlankAndSorted(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)

	sql := rec.Last()
	assert.Contains(t, sql, `SELECT DISTINCT "category" FROM "products"`)
	assert.Contains(t, sql, "category IS NOT NULL AND btrim(category) <> ''")
	assert.Contains(t, sql, "ORDER BY category ASC")
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%eco%", containsPattern("eco"))
	assert.Equal(t, `%a\%b\_c\\d%`, containsPattern(`a%b_c\d`))
}
