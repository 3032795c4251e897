package model

type Category struct {
	BaseModel
	Name   string  `db:"name" json:"name"`
	NameBN string  `db:"name_bn" json:"name_bn"`
	Image  *string `db:"image" json:"image"` // relative upload path, nullable
}
