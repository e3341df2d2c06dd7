package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category selects the list filter applied after the text search.
type Category uint64

const (
	CategoryAll        Category = iota + 1 // all
	CategoryTopGainers                     // top_gainers
	CategoryTopLosers                      // top_losers
	CategoryMarketCap                      // market_cap
)

var categoryNames = map[Category]string{
	CategoryAll:        "all",
	CategoryTopGainers: "top_gainers",
	CategoryTopLosers:  "top_losers",
	CategoryMarketCap:  "market_cap",
}

var categoryLabels = map[Category]string{
	CategoryAll:        "All",
	CategoryTopGainers: "Top Gainers",
	CategoryTopLosers:  "Top Losers",
	CategoryMarketCap:  "Market Cap",
}

// CategoryValues returns all categories in display order.
func CategoryValues() []Category {
	return []Category{CategoryAll, CategoryTopGainers, CategoryTopLosers, CategoryMarketCap}
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", uint64(c))
}

// Label is the human readable name shown on the filter menu.
func (c Category) Label() string {
	return categoryLabels[c]
}

func (c Category) IsACategory() bool {
	_, ok := categoryNames[c]
	return ok
}

// CategoryString parses either the wire name or the display label.
// An empty string means CategoryAll.
func CategoryString(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryAll, nil
	}
	for c, name := range categoryNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, categoryLabels[c]) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%s does not belong to Category values", s)
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Category should be a string, got %s", data)
	}
	var err error
	*c, err = CategoryString(s)
	return err
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	var err error
	*c, err = CategoryString(string(text))
	return err
}
