package jobdesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/scoring"
	"resume-analyzer/internal/skills"
)

func newParser() *Parser {
	return NewParser(skills.NewExtractor(skills.DefaultTaxonomy(), 0))
}

func TestParsePlainText(t *testing.T) {
	req, err := newParser().Parse("We need a developer to build and maintain Django services. 3+ years with Python and SQL. Bachelor's degree preferred.", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "sql", "django"}, req.Skills)
	assert.Equal(t, 3.0, req.Years)
	assert.Equal(t, scoring.DegreeBachelor, req.Education)
	assert.Equal(t, []string{"develop", "build", "maintain"}, req.Keywords)
}

func TestParseMergesExplicitRequirementsFirst(t *testing.T) {
	req, err := newParser().Parse("Experience with AWS", []string{"Golang", "aws", " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "aws"}, req.Skills)
}

func TestParseKeepsEveryRequiredSkillPastExtractorCap(t *testing.T) {
	p := NewParser(skills.NewExtractor(skills.DefaultTaxonomy(), 2))
	req, err := p.Parse("Stack: Python, Java, SQL, AWS, Docker and Kubernetes.", []string{"rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rust", "python", "java", "sql", "aws", "docker", "kubernetes"}, req.Skills)
}

func TestParseHTML(t *testing.T) {
	html := `<html><head><style>.x{}</style><script>var python = 1;</script></head>
<body><nav>Home</nav><h2>Requirements</h2><ul><li>Python</li><li>SQL</li><li>Managing stakeholders</li></ul></body></html>`

	req, err := newParser().Parse(html, nil)
	require.NoError(t, err)
	assert.Equal(t, "Requirements\nPython\nSQL\nManaging stakeholders", req.Text)
	assert.Equal(t, []string{"python", "sql"}, req.Skills)
	assert.Equal(t, []string{"manage"}, req.Keywords)
}

func TestParseEmpty(t *testing.T) {
	req, err := newParser().Parse("   ", nil)
	require.NoError(t, err)
	assert.Empty(t, req.Skills)
	assert.Empty(t, req.Keywords)
	assert.Equal(t, scoring.DegreeNone, req.Education)
}
