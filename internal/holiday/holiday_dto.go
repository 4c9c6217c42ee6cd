package holiday

type CreateHolidayRequest struct {
	HolidayDate string `json:"holiday_date" binding:"required"`
	Name        string `json:"name" binding:"required"`
	UnionOnly   bool   `json:"union_only"`
}

type HolidayResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	HolidayDate string `json:"holiday_date"`
	Name        string `json:"name"`
	UnionOnly   bool   `json:"union_only"`
}
