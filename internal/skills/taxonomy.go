package skills

// Skill is a canonical skill name plus the spellings that map to it.
type Skill struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms,omitempty"`
	// CaseSensitive terms only match with the exact casing ("Go", "R").
	CaseSensitive []string `json:"case_sensitive,omitempty"`
}

// Category groups related skills.
type Category struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

// Taxonomy is an ordered list of categories. Extraction reports skills in
// taxonomy order.
type Taxonomy []Category

// DefaultTaxonomy returns the built-in skill taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "programming", Skills: []Skill{
			{Name: "python", Synonyms: []string{"python3", "py"}},
			{Name: "java"},
			{Name: "c++", Synonyms: []string{"cpp"}},
			{Name: "c#", Synonyms: []string{"csharp", "c sharp"}},
			{Name: "javascript", Synonyms: []string{"js", "ecmascript", "es6"}},
			{Name: "typescript", Synonyms: []string{"ts"}},
			{Name: "go", Synonyms: []string{"golang"}, CaseSensitive: []string{"Go"}},
			{Name: "rust"},
			{Name: "sql"},
			{Name: "ruby"},
			{Name: "swift"},
			{Name: "kotlin"},
			{Name: "scala"},
			{Name: "php"},
		}},
		{Name: "cloud", Skills: []Skill{
			{Name: "aws", Synonyms: []string{"amazon web services"}},
			{Name: "azure", Synonyms: []string{"microsoft azure"}},
			{Name: "gcp", Synonyms: []string{"google cloud", "google cloud platform"}},
			{Name: "cloud computing"},
			{Name: "terraform"},
			{Name: "serverless", Synonyms: []string{"lambda"}},
		}},
		{Name: "frameworks", Skills: []Skill{
			{Name: "django"},
			{Name: "flask"},
			{Name: "fastapi"},
			{Name: "react", Synonyms: []string{"react.js", "reactjs"}},
			{Name: "angular", Synonyms: []string{"angularjs"}},
			{Name: "vue", Synonyms: []string{"vue.js", "vuejs"}},
			{Name: "spring", Synonyms: []string{"spring boot"}},
			{Name: "node.js", Synonyms: []string{"nodejs", "node"}},
			{Name: "gin"},
		}},
		{Name: "databases", Skills: []Skill{
			{Name: "postgresql", Synonyms: []string{"postgres", "psql"}},
			{Name: "mysql"},
			{Name: "mongodb", Synonyms: []string{"mongo"}},
			{Name: "redis"},
			{Name: "elasticsearch", Synonyms: []string{"elastic search"}},
		}},
		{Name: "data", Skills: []Skill{
			{Name: "machine learning", Synonyms: []string{"ml"}},
			{Name: "data analysis", Synonyms: []string{"data analytics"}},
			{Name: "pandas"},
			{Name: "tensorflow"},
			{Name: "pytorch"},
			{Name: "spark", Synonyms: []string{"apache spark", "pyspark"}},
		}},
		{Name: "tools", Skills: []Skill{
			{Name: "git", Synonyms: []string{"github", "gitlab"}},
			{Name: "docker", Synonyms: []string{"containers"}},
			{Name: "kubernetes", Synonyms: []string{"k8s"}},
			{Name: "jenkins"},
			{Name: "ansible"},
			{Name: "linux"},
			{Name: "ci/cd", Synonyms: []string{"cicd", "continuous integration"}},
		}},
		{Name: "soft_skills", Skills: []Skill{
			{Name: "communication"},
			{Name: "leadership", Synonyms: []string{"team lead"}},
			{Name: "teamwork", Synonyms: []string{"collaboration"}},
			{Name: "problem solving", Synonyms: []string{"problem-solving"}},
			{Name: "project management"},
		}},
	}
}

// CategoryOf returns the category of a canonical skill name.
func (t Taxonomy) CategoryOf(name string) (string, bool) {
	for _, c := range t {
		for _, s := range c.Skills {
			if s.Name == name {
				return c.Name, true
			}
		}
	}
	return "", false
}
