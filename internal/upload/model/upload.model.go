package model

// Extraction is the text recovered from an uploaded document.
type Extraction struct {
	Text  string
	Pages int
}

type UploadResponse struct {
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	Size      int64  `json:"size"`
	Pages     int    `json:"pages,omitempty"`
	WordCount int    `json:"word_count"`
	Text      string `json:"text"`
}
