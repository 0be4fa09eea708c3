package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactFormRejectsEmptyNameAndShortMessage(t *testing.T) {
	form := ContactForm{Name: "", Email: "a@b.com", Subject: "Hi", Message: "short"}

	err := form.Validate()
	require.Error(t, err)

	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.GreaterOrEqual(t, len(fields), 2)
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "must be at least 10 characters", fields["message"])
	assert.NotContains(t, fields, "email")
	assert.NotContains(t, fields, "subject")
}

func TestContactFormAcceptsMinimalValidInput(t *testing.T) {
	form := ContactForm{Name: "A", Email: "a@b.com", Subject: "Hi", Message: "This is a long enough message."}
	assert.NoError(t, form.Validate())
	assert.False(t, form.IsSpam())
}

func TestContactFormBounds(t *testing.T) {
	base := ContactForm{Name: "Ada", Email: "ada@example.com", Subject: "Hello", Message: "0123456789"}
	require.NoError(t, base.Validate())

	cases := map[string]func(f *ContactForm){
		"name":    func(f *ContactForm) { f.Name = strings.Repeat("n", 101) },
		"email":   func(f *ContactForm) { f.Email = "not-an-email" },
		"subject": func(f *ContactForm) { f.Subject = strings.Repeat("s", 151) },
		"message": func(f *ContactForm) { f.Message = strings.Repeat("m", 2001) },
	}
	for field, mutate := range cases {
		field, mutate := field, mutate
		t.Run(field, func(t *testing.T) {
			f := base
			mutate(&f)
			var fields FieldErrors
			require.ErrorAs(t, f.Validate(), &fields)
			assert.Contains(t, fields, field)
			assert.Len(t, fields, 1)
		})
	}
}

func TestContactFormHoneypot(t *testing.T) {
	form := ContactForm{Name: "Bot", Email: "bot@spam.io", Subject: "Buy", Message: "cheap watches here", Website: "http://spam.io"}
	assert.True(t, form.IsSpam())
	assert.NoError(t, form.Validate())
}

func TestContactFormNormalizeTrims(t *testing.T) {
	form := ContactForm{Name: "  ", Email: " a@b.com ", Subject: " Hi ", Message: "   This is long enough   "}
	form.Normalize()
	assert.Equal(t, "a@b.com", form.Email)
	assert.Equal(t, "This is long enough", form.Message)

	var fields FieldErrors
	require.ErrorAs(t, form.Validate(), &fields)
	assert.Contains(t, fields, "name")
}
