package persistence

import (
	"fmt"
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC.
// Returns "ASC" when the input is empty or invalid, so listings default to
// ascending id order.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderClause builds an ORDER BY clause from whitelisted input. Non-id sorts
// get "id ASC" as a tiebreaker so pagination stays stable.
func OrderClause(orderBy, orderDir string, allowedFields map[string]bool) string {
	field := ValidateSortField(orderBy, allowedFields, "id")
	clause := fmt.Sprintf("%s %s", field, ValidateSortOrder(orderDir))
	if field != "id" {
		clause += ", id ASC"
	}
	return clause
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"title":      true,
	"price":      true,
}
