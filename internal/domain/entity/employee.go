package entity

// Employee is a row of the employee directory used at login.
type Employee struct {
	EmployeeNumber string `json:"employeeNumber"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	Role           string `json:"role"`
	CompanyEmail   string `json:"companyEmail,omitempty"`
	GoogleEmail    string `json:"googleEmail"`
}

// SessionUser is the identity carried by the session cookie.
type SessionUser struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	CompanyEmail   string `json:"companyEmail,omitempty"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	Department     string `json:"department,omitempty"`
	Role           string `json:"role,omitempty"`
}
