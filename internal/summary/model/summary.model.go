package model

import histmodel "ringkasan/internal/history/model"

// DefaultInstruction is used when the caller gives none.
const DefaultInstruction = "Summarize the following transcript into clear, concise notes. " +
	"List the key points, decisions and action items."

type SummarizeRequest struct {
	Content     string `json:"content" validate:"notblank,max=200000"`
	Instruction string `json:"instruction" validate:"max=2000"`
	DocID       string `json:"document_id" validate:"max=128"`
	AuthorID    string `json:"author_id"`
}

type SummarizeResponse struct {
	DocID    string             `json:"document_id"`
	Provider string             `json:"provider"`
	Summary  string             `json:"summary"`
	Revision histmodel.Revision `json:"revision"`
}

// Result is the text produced by one provider.
type Result struct {
	Text     string
	Provider string
}
