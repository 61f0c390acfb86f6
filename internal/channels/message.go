package channels

// EmailPayload is a rendered email.
type EmailPayload struct {
	Subject  string
	HTMLBody string
}

// EmailRequest is the outbound email envelope.
type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// BuildEmail assembles the envelope for to.
func BuildEmail(to string, p EmailPayload) EmailRequest {
	return EmailRequest{To: to, Subject: p.Subject, Body: p.HTMLBody}
}

// SMSRequest is the outbound text message.
type SMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// BuildSMS assembles the text message for to.
func BuildSMS(to, message string) SMSRequest {
	return SMSRequest{To: to, Message: message}
}
