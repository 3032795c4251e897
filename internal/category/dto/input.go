package dto

type CreateCategoryInput struct {
	Name   string
	NameBN string
	Image  *string
}

type UpdateCategoryInput struct {
	ID     string
	Name   string
	NameBN string
	Image  *string // nil keeps the current image
}
