package email

type EmailTemplateType string

const (
	SMTPHost       = "smtp.gmail.com"
	SMTPPort       = 587
	EmailDirectory = "./email/templates"

	EmailTemplateTypeWelcome EmailTemplateType = "welcome"
)

type SendEmailInput struct {
	To      string
	Subject string
	Body    string
}

type WelcomeEmailData struct {
	FirstName        string
	LastName         string
	MembershipNumber string
}
