package dto

// Numeric fields hold raw operator input and are parsed as decimals.
type CreateProductInput struct {
	Name          string
	NameBN        string
	Description   string
	DescriptionBN string
	CategoryID    string
	Purity        string
	Weight        string
	MakingCharge  string
	StockStatus   string
	Images        []string
}

// UpdateProductInput replaces every field. Images are only replaced when
// new ones are given.
type UpdateProductInput struct {
	ID string
	CreateProductInput
}
