package model

import "time"

// Attendance status values as stored. Anything outside this set is
// rendered with the absent treatment.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Employee is a registered portal user. The id is user-supplied and acts
// as the external identifier; uniqueness is enforced by the employees
// table, not by application code. QRCodeURL is set to the id at creation
// and never mutated afterward.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	QRCodeURL  string    `json:"qr_code_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// QRPayload is the string encoded into the employee's QR artifact.
func (e Employee) QRPayload() string {
	if e.QRCodeURL != "" {
		return e.QRCodeURL
	}
	return e.ID
}

// AttendanceRecord is a single attendance event. Records are created and
// mutated outside the portal; this service only reads them.
type AttendanceRecord struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
