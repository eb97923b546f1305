package matcher

import (
	"strings"

	"athenaapi/models"

	"gorm.io/gorm"
)

// Condition is one parameterized WHERE fragment. Conditions are built
// as data so the predicate logic is testable without a database.
type Condition struct {
	Expr string
	Args []interface{}
}

// FilterConditions translates the non-unset fields of an
// AttributeFilter into WHERE fragments. Price bounds are inclusive and
// compare against the effective (discounted when present) price; color,
// category, occasion and season match case-insensitive substrings; the
// gender constraint is always emitted.
func FilterConditions(filter models.AttributeFilter) []Condition {
	var conds []Condition

	if filter.PriceMax != nil {
		conds = append(conds, Condition{
			Expr: "COALESCE(price_discounted, price_original) <= ?",
			Args: []interface{}{*filter.PriceMax},
		})
	}
	if filter.PriceMin != nil {
		conds = append(conds, Condition{
			Expr: "COALESCE(price_discounted, price_original) >= ?",
			Args: []interface{}{*filter.PriceMin},
		})
	}

	if len(filter.Colors) > 0 {
		exprs := make([]string, 0, len(filter.Colors))
		args := make([]interface{}, 0, len(filter.Colors)*2)
		for _, color := range filter.Colors {
			pattern := containsPattern(color)
			exprs = append(exprs, "LOWER(base_color) LIKE ? OR LOWER(COALESCE(secondary_color, '')) LIKE ?")
			args = append(args, pattern, pattern)
		}
		conds = append(conds, Condition{
			Expr: "(" + strings.Join(exprs, " OR ") + ")",
			Args: args,
		})
	}

	if len(filter.Categories) > 0 {
		exprs := make([]string, 0, len(filter.Categories))
		args := make([]interface{}, 0, len(filter.Categories)*2)
		for _, category := range filter.Categories {
			pattern := containsPattern(category)
			exprs = append(exprs, "LOWER(category) LIKE ? OR LOWER(COALESCE(subcategory, '')) LIKE ?")
			args = append(args, pattern, pattern)
		}
		conds = append(conds, Condition{
			Expr: "(" + strings.Join(exprs, " OR ") + ")",
			Args: args,
		})
	}

	if filter.Occasion != nil {
		conds = append(conds, Condition{
			Expr: "LOWER(COALESCE(occasion, '')) LIKE ?",
			Args: []interface{}{containsPattern(*filter.Occasion)},
		})
	}
	if filter.Season != nil {
		conds = append(conds, Condition{
			Expr: "LOWER(season) LIKE ?",
			Args: []interface{}{containsPattern(*filter.Season)},
		})
	}

	if filter.Gender != "" {
		conds = append(conds, Condition{
			Expr: "LOWER(gender) = ?",
			Args: []interface{}{strings.ToLower(filter.Gender)},
		})
	}

	return conds
}

// categoryScope is the equality constraint used by multi-category
// search, where each call is pinned to exactly one detected category.
func categoryScope(category string) Condition {
	return Condition{
		Expr: "LOWER(category) = ?",
		Args: []interface{}{strings.ToLower(category)},
	}
}

func applyConditions(query *gorm.DB, conds []Condition) *gorm.DB {
	for _, cond := range conds {
		query = query.Where(cond.Expr, cond.Args...)
	}
	return query
}

func containsPattern(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}
