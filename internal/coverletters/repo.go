package coverletters

import "context"

// Repo persists templates and letters. Template reads return system templates
// plus those owned by userID.
type Repo interface {
	EnsureSystemTemplates(ctx context.Context, templates []Template) error
	CreateTemplate(ctx context.Context, t Template) error
	GetTemplate(ctx context.Context, userID, id string) (Template, error)
	ListTemplates(ctx context.Context, userID string) ([]Template, error)
	UpdateTemplate(ctx context.Context, t Template) (Template, error)
	DeleteTemplate(ctx context.Context, userID, id string) error

	CreateLetter(ctx context.Context, l Letter) error
	ListLetters(ctx context.Context, userID string, limit, offset int) ([]Letter, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
