package employment

type CreateEmploymentRequest struct {
	EmployeeNumber     string `json:"employee_number"`
	FullName           string `json:"full_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone"`
	HireDate           string `json:"hire_date" binding:"required"`
	SeniorityStartDate string `json:"seniority_start_date"`
	IsDriver           bool   `json:"is_driver"`
	CountAllOvertime   bool   `json:"count_all_overtime"`
	UnionMember        bool   `json:"union_member"`
}

type UpdateEmploymentRequest struct {
	FullName           string `json:"full_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone"`
	HireDate           string `json:"hire_date" binding:"required"`
	SeniorityStartDate string `json:"seniority_start_date"`
	IsDriver           bool   `json:"is_driver"`
	CountAllOvertime   bool   `json:"count_all_overtime"`
	UnionMember        bool   `json:"union_member"`
	EmploymentStatus   string `json:"employment_status" binding:"omitempty,oneof=ACTIVE TERMINATED"`
	TerminationDate    string `json:"termination_date"`
}

type EmploymentResponse struct {
	ID                 string  `json:"id"`
	CompanyID          string  `json:"company_id"`
	EmployeeNumber     string  `json:"employee_number"`
	FullName           string  `json:"full_name"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone,omitempty"`
	HireDate           string  `json:"hire_date"`
	SeniorityStartDate *string `json:"seniority_start_date,omitempty"`
	IsDriver           bool    `json:"is_driver"`
	CountAllOvertime   bool    `json:"count_all_overtime"`
	UnionMember        bool    `json:"union_member"`
	EmploymentStatus   string  `json:"employment_status"`
	TerminationDate    *string `json:"termination_date,omitempty"`
}
