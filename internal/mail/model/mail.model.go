package model

type SendEmailRequest struct {
	To      []string `json:"to" validate:"required,min=1,max=20,dive,email"`
	Subject string   `json:"subject" validate:"notblank,max=200"`
	Content string   `json:"content" validate:"required_without=DocID,max=200000"`
	DocID   string   `json:"document_id" validate:"max=128"` // send the latest revision when content is empty
}

type SendEmailResponse struct {
	MessageID string   `json:"message_id"`
	To        []string `json:"to"`
}
