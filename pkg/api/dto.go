package api

// ErrorResponse is the body of every non-assignment error
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AssignRequest is the body of POST /api/shifts/{id}/assign
type AssignRequest struct {
	CaregiverID string `json:"caregiver_id"`
	Source      string `json:"source,omitempty"`
}
