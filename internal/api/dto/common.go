package dto

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message   string `json:"message"`
	EmailSent *bool  `json:"email_sent,omitempty"`
}
