package mailer

// Message письмо для отправки через почтовый API
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`
}

// SendResponse ответ почтового API
type SendResponse struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки от почтового API
type ErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
