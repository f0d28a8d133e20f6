package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/scoring"
)

func TestExtractFindsSkillsInTaxonomyOrder(t *testing.T) {
	e := NewExtractor(DefaultTaxonomy(), 0)
	res := e.Extract("Built APIs with Django and SQL. Expert in Python; familiar with Docker and k8s.")

	assert.Equal(t, []string{"python", "sql", "django", "docker", "kubernetes"}, res.Skills)
	assert.Equal(t, []string{"python", "sql"}, res.ByCategory["programming"])
	assert.Equal(t, []string{"docker", "kubernetes"}, res.ByCategory["tools"])
	assert.Equal(t, 0.9, res.Confidence["python"])
	assert.Equal(t, 0.4, res.Confidence["docker"])
	assert.Greater(t, res.Overall, 0.0)
}

func TestExtractRespectsTokenBoundaries(t *testing.T) {
	e := NewExtractor(DefaultTaxonomy(), 0)

	res := e.Extract("Javascript developer. Used node.js, C++ and C#.")
	assert.Contains(t, res.Skills, "javascript")
	assert.Contains(t, res.Skills, "node.js")
	assert.Contains(t, res.Skills, "c++")
	assert.Contains(t, res.Skills, "c#")
	assert.NotContains(t, res.Skills, "java")

	res = e.Extract("Passionate about going the extra mile; I love ragtime.")
	assert.NotContains(t, res.Skills, "go")
	assert.NotContains(t, res.Skills, "git")

	res = e.Extract("Backend services in Go and Golang tooling")
	assert.Equal(t, []string{"go"}, res.Skills)
}

func TestExtractCapsSkills(t *testing.T) {
	e := NewExtractor(DefaultTaxonomy(), 3)
	res := e.Extract("python java sql aws docker")
	assert.Len(t, res.Skills, 3)
	assert.Len(t, res.Confidence, 3)
}

func TestExtractAllIgnoresCap(t *testing.T) {
	e := NewExtractor(DefaultTaxonomy(), 3)
	res := e.ExtractAll("python java sql aws docker")
	assert.Equal(t, []string{"python", "java", "sql", "aws", "docker"}, res.Skills)
	assert.Len(t, res.Confidence, 5)
}

func TestExtractEmptyText(t *testing.T) {
	res := NewExtractor(DefaultTaxonomy(), 0).Extract("")
	assert.Empty(t, res.Skills)
	assert.Equal(t, 0.0, res.Overall)
	require.NotNil(t, res.ByCategory)
}

func TestNormalize(t *testing.T) {
	e := NewExtractor(DefaultTaxonomy(), 0)
	assert.Equal(t, "go", e.Normalize("  Golang "))
	assert.Equal(t, "kubernetes", e.Normalize("K8S"))
	assert.Equal(t, "postgresql", e.Normalize("postgres"))
	assert.Equal(t, "cobol", e.Normalize("COBOL"))
	assert.Equal(t, []string{"javascript", "python"}, e.NormalizeAll([]string{"JS", "javascript", " ", "python"}))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Led a team of five", "led"))
	assert.False(t, Contains("Handled requests", "led"))
}

func TestDetectYears(t *testing.T) {
	assert.Equal(t, 5.0, DetectYears("5+ years of experience with Go, 3 yrs of Python"))
	assert.Equal(t, 7.0, DetectYears("Requires 3-5 years; ideally 7 years"))
	assert.Equal(t, 0.0, DetectYears("graduated in 2019"))
	assert.Equal(t, 0.0, DetectYears("over 100 years of combined history"))
}

func TestDetectEducation(t *testing.T) {
	assert.Equal(t, scoring.DegreeMaster, DetectEducation("M.S. in Computer Science, B.S. in Math"))
	assert.Equal(t, scoring.DegreeBachelor, DetectEducation("Bachelor's degree required"))
	assert.Equal(t, scoring.DegreePhD, DetectEducation("PhD candidate"))
	assert.Equal(t, scoring.DegreeNone, DetectEducation("Scrum practitioner"))
}

func TestCategoryOf(t *testing.T) {
	cat, ok := DefaultTaxonomy().CategoryOf("django")
	assert.True(t, ok)
	assert.Equal(t, "frameworks", cat)
}
