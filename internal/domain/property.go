package domain

type Category string

const (
	ShortTerm Category = "short-term"
	Monthly   Category = "monthly"
)

func (c Category) Valid() bool { return c == ShortTerm || c == Monthly }

type Property struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Active   bool     `json:"active"`
	Color    string   `json:"color"`
}

// Catalog is the fixed set of units loaded at initialization. Category and
// colour are set here once and never re-derived.
var Catalog = []Property{
	{Name: "TIDES 14 B", Category: ShortTerm, Active: true, Color: "#3498db"},
	{Name: "TIDES 5 L", Category: ShortTerm, Active: true, Color: "#e74c3c"},
	{Name: "TIDES 10 L", Category: ShortTerm, Active: true, Color: "#2ecc71"},
	{Name: "TIDES 10 F", Category: ShortTerm, Active: true, Color: "#9b59b6"},
	{Name: "TIDES 12 F", Category: ShortTerm, Active: true, Color: "#f39c12"},
	{Name: "Brickell", Category: Monthly, Active: true, Color: "#1abc9c"},
	{Name: "Local 1", Category: Monthly, Active: true, Color: "#e67e22"},
	{Name: "Local 2", Category: Monthly, Active: true, Color: "#34495e"},
}

// GeneralLabel names expenses with no property.
const GeneralLabel = "General"
