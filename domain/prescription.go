package domain

import "time"

// Prescription is a customer upload awaiting review. File holds the document
// as a base64 data URL.
type Prescription struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Note      string    `json:"note"`
	File      string    `json:"file"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

type PrescriptionInput struct {
	Name     string
	Phone    string
	Note     string
	File     string
	FileName string
	FileType string
}
