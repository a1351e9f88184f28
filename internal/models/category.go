package models

// Category represents a budget category owned by a user.
//
// BudgetLimit is a monthly cap in the same currency as transaction
// amounts. A limit of zero means no limit is set.
type Category struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;uniqueIndex:idx_user_category_name" json:"user_id"`
	Name        string  `gorm:"not null;uniqueIndex:idx_user_category_name" json:"name"`
	Color       string  `gorm:"size:7;not null" json:"color"`
	BudgetLimit float64 `gorm:"default:0" json:"budget_limit"`
}

// DefaultCategory describes one of the categories seeded for new users.
type DefaultCategory struct {
	Name        string
	Color       string
	BudgetLimit float64
}

// DefaultCategories is the seed set created on a user's first category read.
var DefaultCategories = []DefaultCategory{
	{Name: "Alimentação", Color: "#f87171", BudgetLimit: 800},
	{Name: "Transporte", Color: "#60a5fa", BudgetLimit: 400},
	{Name: "Compras", Color: "#c084fc", BudgetLimit: 500},
	{Name: "Contas", Color: "#fbbf24", BudgetLimit: 1200},
	{Name: "Salário", Color: "#34d399", BudgetLimit: 0},
	{Name: "Saúde", Color: "#2dd4bf", BudgetLimit: 300},
	{Name: "Lazer", Color: "#f472b6", BudgetLimit: 400},
	{Name: "Outros", Color: "#94a3b8", BudgetLimit: 200},
}

// FallbackCategoryColor is used in breakdowns for deleted or unknown categories.
const FallbackCategoryColor = "#94a3b8"

// FallbackCategoryName is assigned when a transaction arrives without a category.
const FallbackCategoryName = "Outros"
