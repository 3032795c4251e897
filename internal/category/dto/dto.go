package dto

type CategoryFilters struct {
	Page     int
	PageSize int // 0 lists everything
}
