package entities

// InboundItem is one unit of case material handed over by the ingestion pipeline.
// An empty Email means no email was provided.
type InboundItem struct {
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CaseTitle       string `json:"case_title"`
	DocumentName    string `json:"document_name"`
	DocumentContent []byte `json:"-"`
}

// Resolution is the outcome of processing one InboundItem.
type Resolution struct {
	ClientID        string `json:"client_id"`
	CaseID          string `json:"case_id"`
	DocumentID      string `json:"document_id"`
	ClientCreated   bool   `json:"client_created"`
	CaseCreated     bool   `json:"case_created"`
	DocumentCreated bool   `json:"document_created"`
}
