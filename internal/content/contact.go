package content

import "strings"

// ContactForm is a visitor message from the contact section. Website is a
// honeypot: people never see it, bots fill it in.
type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required,min=1,max=150"`
	Message string `json:"message" form:"message" validate:"required,min=10,max=2000"`
	Website string `json:"website,omitempty" form:"website"`
}

func (f *ContactForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
}

// IsSpam reports whether the honeypot was filled.
func (f ContactForm) IsSpam() bool {
	return strings.TrimSpace(f.Website) != ""
}

func (f ContactForm) Validate() error {
	return Validate(f)
}
