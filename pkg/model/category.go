package model

import (
	"fmt"
	"strings"
)

// Category is one kind of rentable unit. The set is closed and fixed at build time.
type Category string

const (
	CategorySedan Category = "SEDAN"
	CategorySUV   Category = "SUV"
	CategoryVan   Category = "VAN"
)

var categories = []Category{CategorySedan, CategorySUV, CategoryVan}

// Categories returns the closed set of categories in a stable order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts any casing and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
