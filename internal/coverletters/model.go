// Package coverletters manages cover letter templates and generates letters
// from them.
package coverletters

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("template already exists")
	ErrReadOnly     = errors.New("system templates cannot be modified")
	ErrInvalidInput = errors.New("invalid input")
)

// Template is a cover letter body with {placeholder} fields. System templates
// have no owner and are visible to every user.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Industry  string    `json:"industry,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Letter is a generated cover letter kept for its author.
type Letter struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	TemplateID  string            `json:"template_id,omitempty"`
	JobTitle    string            `json:"job_title"`
	CompanyName string            `json:"company_name"`
	Content     string            `json:"content"`
	Meta        map[string]string `json:"meta"`
	CreatedAt   time.Time         `json:"created_at"`
}

type TemplateInput struct {
	ID       string `json:"id" validate:"omitempty,max=100"`
	Name     string `json:"name" validate:"required,max=200"`
	Content  string `json:"content" validate:"required,max=20000"`
	Industry string `json:"industry" validate:"max=200"`
}

type GenerateRequest struct {
	TemplateID      string   `json:"template_id" validate:"required"`
	JobTitle        string   `json:"job_title" validate:"required,max=200"`
	CompanyName     string   `json:"company_name" validate:"required,max=200"`
	ApplicantName   string   `json:"applicant_name" validate:"required,max=200"`
	HiringManager   string   `json:"hiring_manager" validate:"max=200"`
	Background      string   `json:"background" validate:"max=500"`
	Experience      string   `json:"experience" validate:"max=500"`
	Skills          []string `json:"skills" validate:"max=30,dive,max=100"`
	JobDescription  string   `json:"job_description" validate:"max=20000"`
	JobSource       string   `json:"job_source" validate:"max=200"`
	CompanyInterest string   `json:"company_interest" validate:"max=500"`
	Tone            string   `json:"tone" validate:"omitempty,max=50"`
}
