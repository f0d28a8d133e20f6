// Package market serves salary, demand, career path, trend and industry skill
// reference data, and scores how competitive a candidate is for a role.
package market

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	LevelEntry  = "entry"
	LevelMid    = "mid"
	LevelSenior = "senior"
)

type SalaryRange struct {
	ID              string    `json:"id"`
	JobTitle        string    `json:"job_title" validate:"required,max=200"`
	IndustryName    string    `json:"industry_name,omitempty" validate:"max=200"`
	Location        string    `json:"location,omitempty" validate:"max=200"`
	ExperienceLevel string    `json:"experience_level,omitempty" validate:"omitempty,oneof=entry mid senior"`
	MinSalary       float64   `json:"min_salary" validate:"gte=0"`
	MaxSalary       float64   `json:"max_salary" validate:"gtefield=MinSalary"`
	MedianSalary    float64   `json:"median_salary" validate:"gte=0"`
	Currency        string    `json:"currency" validate:"omitempty,len=3"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type JobDemand struct {
	ID           string    `json:"id"`
	JobTitle     string    `json:"job_title" validate:"required,max=200"`
	IndustryName string    `json:"industry_name,omitempty" validate:"max=200"`
	Location     string    `json:"location,omitempty" validate:"max=200"`
	TimePeriod   string    `json:"time_period,omitempty" validate:"max=50"`
	DemandScore  float64   `json:"demand_score" validate:"gte=0,lte=1"`
	GrowthRate   float64   `json:"growth_rate"`
	JobCount     int       `json:"job_count" validate:"gte=0"`
	TopSkills    []string  `json:"top_skills"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CareerPath struct {
	ID             string    `json:"id"`
	StartingRole   string    `json:"starting_role" validate:"required,max=200"`
	IndustryName   string    `json:"industry_name,omitempty" validate:"max=200"`
	NextRoles      []string  `json:"next_roles"`
	RequiredSkills []string  `json:"required_skills"`
	TypicalYears   float64   `json:"typical_years" validate:"gte=0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type IndustryTrend struct {
	ID             string    `json:"id"`
	IndustryName   string    `json:"industry_name" validate:"required,max=200"`
	TrendName      string    `json:"trend_name" validate:"required,max=200"`
	Description    string    `json:"description"`
	ImpactLevel    string    `json:"impact_level" validate:"omitempty,oneof=low medium high"`
	RelevanceScore float64   `json:"relevance_score" validate:"gte=0,lte=1"`
	RelatedSkills  []string  `json:"related_skills"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type IndustrySkillSet struct {
	ID           string    `json:"id"`
	IndustryName string    `json:"industry_name" validate:"required,max=200"`
	Description  string    `json:"description"`
	Skills       []string  `json:"skills" validate:"required,min=1,dive,required"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SalaryQuery filters salary lookups. JobTitle matches as a case-insensitive
// substring; the other fields match exactly when set.
type SalaryQuery struct {
	JobTitle        string
	IndustryName    string
	Location        string
	ExperienceLevel string
}

type DemandQuery struct {
	JobTitle     string
	IndustryName string
	Location     string
}

// ExperienceLevel buckets years of experience.
func ExperienceLevel(years float64) string {
	switch {
	case years >= 5:
		return LevelSenior
	case years >= 2:
		return LevelMid
	default:
		return LevelEntry
	}
}
