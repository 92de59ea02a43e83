package department

// DepartmentView is one row of the departments page.
type DepartmentView struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type DepartmentsResponse struct {
	Departments []DepartmentView `json:"departments"`
}

// DepartmentForm is the POST /departments body.
type DepartmentForm struct {
	Action string `json:"action"`
	Name   string `json:"name"`
}
