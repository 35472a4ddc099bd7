package dto

// EncryptedRequest wraps every sealed request body.
type EncryptedRequest struct {
	Payload string `json:"payload"`
}

// IDRequest is the sealed body of delete operations.
type IDRequest struct {
	ID string `json:"id"`
}

// Response is the envelope of every JSON response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
