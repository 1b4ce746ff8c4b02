// Package model defines the domain types exchanged with the budgeting API.
package model

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

// Project statuses.
const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Project is a budgeted production or engagement.
type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description *string       `json:"description,omitempty" yaml:"description,omitempty"`
	Status      ProjectStatus `json:"status" yaml:"status"`
	Labels      []string      `json:"labels,omitempty" yaml:"labels,omitempty"`
	Currency    string        `json:"currency,omitempty" yaml:"currency,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// ProjectInput is the body for creating or updating a project.
type ProjectInput struct {
	Name        string        `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      ProjectStatus `json:"status,omitempty"`
	Labels      []string      `json:"labels,omitempty"`
	TemplateID  *string       `json:"templateId,omitempty"`
}
