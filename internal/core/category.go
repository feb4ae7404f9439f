package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ExpenseCategory is one of the built-in expense categories.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "Food"
	CategoryTransport     ExpenseCategory = "Transport"
	CategoryShopping      ExpenseCategory = "Shopping"
	CategoryBills         ExpenseCategory = "Bills"
	CategoryEntertainment ExpenseCategory = "Entertainment"
	CategoryHealth        ExpenseCategory = "Health"
	CategoryEducation     ExpenseCategory = "Education"
	CategoryTravel        ExpenseCategory = "Travel"
	CategoryOther         ExpenseCategory = "Other"
)

var builtinColors = map[ExpenseCategory]string{
	CategoryFood:          "#F97316",
	CategoryTransport:     "#3B82F6",
	CategoryShopping:      "#EC4899",
	CategoryBills:         "#EF4444",
	CategoryEntertainment: "#8B5CF6",
	CategoryHealth:        "#10B981",
	CategoryEducation:     "#06B6D4",
	CategoryTravel:        "#F59E0B",
	CategoryOther:         "#6B7280",
}

// BuiltinCategories lists the built-in categories in display order.
func BuiltinCategories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryFood, CategoryTransport, CategoryShopping, CategoryBills,
		CategoryEntertainment, CategoryHealth, CategoryEducation,
		CategoryTravel, CategoryOther,
	}
}

func (c ExpenseCategory) IsValid() bool {
	_, ok := builtinColors[c]
	return ok
}

func (c ExpenseCategory) Color() string {
	if color, ok := builtinColors[c]; ok {
		return color
	}
	return builtinColors[CategoryOther]
}

// CustomCategory is a user defined expense category.
type CustomCategory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func (c CustomCategory) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > 50 {
		return ErrNameTooLong
	}
	if strings.EqualFold(name, OverallBudget) {
		return fmt.Errorf("%q is reserved: %w", name, ErrUnknownCategory)
	}
	if !colorPattern.MatchString(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

// Category is either a built-in or a custom category. Exactly one of
// Builtin and Custom is set.
type Category struct {
	Builtin ExpenseCategory
	Custom  *CustomCategory
}

func (c Category) IsCustom() bool {
	return c.Custom != nil
}

func (c Category) Name() string {
	if c.Custom != nil {
		return c.Custom.Name
	}
	return string(c.Builtin)
}

func (c Category) Color() string {
	if c.Custom != nil {
		return c.Custom.Color
	}
	return c.Builtin.Color()
}

func (c Category) MarshalJSON() ([]byte, error) {
	out := struct {
		ID     string `json:"id,omitempty"`
		Name   string `json:"name"`
		Color  string `json:"color"`
		Custom bool   `json:"custom"`
	}{
		Name:   c.Name(),
		Color:  c.Color(),
		Custom: c.IsCustom(),
	}
	if c.Custom != nil {
		out.ID = c.Custom.ID
	}
	return json.Marshal(out)
}

// ResolveCategory maps a stored category name to its Category. Built-in
// names win over custom ones; unknown names resolve to Other.
func ResolveCategory(name string, customs []CustomCategory) Category {
	if b := ExpenseCategory(name); b.IsValid() {
		return Category{Builtin: b}
	}
	for i := range customs {
		if customs[i].Name == name {
			return Category{Custom: &customs[i]}
		}
	}
	return Category{Builtin: CategoryOther}
}

// IsKnownCategory reports whether name is a built-in or one of customs.
func IsKnownCategory(name string, customs []CustomCategory) bool {
	if ExpenseCategory(name).IsValid() {
		return true
	}
	for _, c := range customs {
		if c.Name == name {
			return true
		}
	}
	return false
}

// IncomeSource is the closed set of income sources.
type IncomeSource string

const (
	SourceSalary     IncomeSource = "Salary"
	SourceFreelance  IncomeSource = "Freelance"
	SourceBusiness   IncomeSource = "Business"
	SourceInvestment IncomeSource = "Investment"
	SourceGift       IncomeSource = "Gift"
	SourceOther      IncomeSource = "Other"
)

func IncomeSources() []IncomeSource {
	return []IncomeSource{SourceSalary, SourceFreelance, SourceBusiness, SourceInvestment, SourceGift, SourceOther}
}

func (s IncomeSource) IsValid() bool {
	switch s {
	case SourceSalary, SourceFreelance, SourceBusiness, SourceInvestment, SourceGift, SourceOther:
		return true
	}
	return false
}
