package dto

// RecordRateInput carries raw operator input; values are parsed as decimals.
type RecordRateInput struct {
	Gold22K string
	Silver  string
}

type RecordTaxInput struct {
	Percentage string
}
