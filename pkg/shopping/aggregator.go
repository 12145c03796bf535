// Package shopping builds the consolidated shopping list for a user's cart.
package shopping

import (
	"Foodgram-Backend/domain"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	headerFormat   = "Shopping list for %s:"
	ingredientsTag = "Ingredients:"
	recipesTag     = "Recipes:"
)

type (
	// CartRecipe is one recipe in the cart together with its ingredient lines.
	CartRecipe struct {
		Name        string
		Ingredients []domain.ShoppingItem
	}

	Summary struct {
		Items   []domain.ShoppingItem
		Recipes []string
	}

	groupKey struct {
		name, unit string
	}
)

// Aggregate sums amounts per (name, unit) across all recipes and collects the distinct
// recipe names. Items are ordered by name then unit, recipes by name, both by byte order.
func Aggregate(recipes []CartRecipe) Summary {
	totals := make(map[groupKey]int64)
	names := make(map[string]struct{}, len(recipes))

	for _, recipe := range recipes {
		names[recipe.Name] = struct{}{}
		for _, item := range recipe.Ingredients {
			totals[groupKey{item.Name, item.MeasurementUnit}] += item.Amount
		}
	}

	summary := Summary{
		Items:   make([]domain.ShoppingItem, 0, len(totals)),
		Recipes: make([]string, 0, len(names)),
	}
	for key, amount := range totals {
		summary.Items = append(summary.Items, domain.ShoppingItem{
			Name:            key.name,
			MeasurementUnit: key.unit,
			Amount:          amount,
		})
	}
	for name := range names {
		summary.Recipes = append(summary.Recipes, name)
	}

	sort.Slice(summary.Items, func(i, j int) bool {
		a, b := summary.Items[i], summary.Items[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.MeasurementUnit < b.MeasurementUnit
	})
	sort.Strings(summary.Recipes)

	return summary
}

// Render formats the summary as the plain-text report; today is printed as DD.MM.YYYY.
func Render(summary Summary, today time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, headerFormat, today.Format(domain.ShoppingDateLayout))
	b.WriteString("\n")
	b.WriteString(ingredientsTag)
	for i, item := range summary.Items {
		fmt.Fprintf(&b, "\n%d. %s (%s) — %d", i+1, capitalize(item.Name), item.MeasurementUnit, item.Amount)
	}

	b.WriteString("\n\n")
	b.WriteString(recipesTag)
	for i, name := range summary.Recipes {
		fmt.Fprintf(&b, "\n%d. %s", i+1, name)
	}

	return b.String()
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
