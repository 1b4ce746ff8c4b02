package model

// Contact is a vendor, crew member or other payee in the workspace.
type Contact struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Company *string  `json:"company,omitempty" yaml:"company,omitempty"`
	Email   *string  `json:"email,omitempty" yaml:"email,omitempty"`
	Phone   *string  `json:"phone,omitempty" yaml:"phone,omitempty"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ContactInput is the body for creating or updating a contact.
type ContactInput struct {
	Name    string   `json:"name,omitempty"`
	Company *string  `json:"company,omitempty"`
	Email   *string  `json:"email,omitempty"`
	Phone   *string  `json:"phone,omitempty"`
	Type    string   `json:"type,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}
