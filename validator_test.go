package credex_test

import (
	"testing"

	"github.com/fwojciec/credex"
	"github.com/stretchr/testify/assert"
)

func completeRecord() *credex.Record {
	return &credex.Record{
		Title:      "Launch Spot",
		VideoLinks: []string{"https://vimeo.com/1"},
		Companies: []credex.Company{{
			ID:   "c1",
			Name: "Acme Films",
			Credits: []credex.Credit{{
				Person: credex.Person{ID: "p1", Name: "Jane Doe"},
				Role:   "Director",
			}},
		}},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("complete record has no missing fields", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, credex.Validate(completeRecord()))
	})

	t.Run("poster image satisfies media", func(t *testing.T) {
		t.Parallel()

		r := completeRecord()
		r.VideoLinks = nil
		r.PosterImage = "https://cdn.example.com/poster.jpg"

		assert.Empty(t, credex.Validate(r))
	})

	t.Run("empty record reports title companies and media", func(t *testing.T) {
		t.Parallel()

		missing := credex.Validate(&credex.Record{})

		assert.Equal(t, []credex.MissingField{
			credex.MissingTitle,
			credex.MissingCompanies,
			credex.MissingMedia,
		}, missing)
	})

	t.Run("reports all flags at once in priority order", func(t *testing.T) {
		t.Parallel()

		r := &credex.Record{
			Companies: []credex.Company{
				{Name: "Empty Co"},
				{Name: "Acme", Credits: []credex.Credit{{Person: credex.Person{Name: "Jane"}}}},
			},
		}

		assert.Equal(t, []credex.MissingField{
			credex.MissingTitle,
			credex.MissingCompanyCredits,
			credex.MissingRoles,
			credex.MissingMedia,
		}, credex.Validate(r))
	})
}

func TestMissingFieldNames(t *testing.T) {
	t.Parallel()

	names := credex.MissingFieldNames([]credex.MissingField{credex.MissingTitle, credex.MissingRoles})

	assert.Equal(t, []string{"title", "roles"}, names)
}
