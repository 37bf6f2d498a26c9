package crowdin

import (
	"encoding/json"
	"time"
)

// User is the author or reviewer embedded in translation payloads
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

// Project is the subset of the project resource we log
type Project struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Identifier        string    `json:"identifier"`
	SourceLanguageID  string    `json:"sourceLanguageId"`
	TargetLanguageIDs []string  `json:"targetLanguageIds"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Label is a project label
type Label struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	IsSystem bool   `json:"isSystem"`
}

// SourceString is a project string; Text is a JSON string or a plural object
type SourceString struct {
	ID         int64           `json:"id"`
	ProjectID  int64           `json:"projectId"`
	FileID     int64           `json:"fileId"`
	Identifier string          `json:"identifier"`
	Text       json.RawMessage `json:"text"`
	Type       string          `json:"type"`
	CreatedAt  time.Time       `json:"createdAt"`

	Raw json.RawMessage `json:"-"`
}

// PlainText returns Text when it is a JSON string, otherwise the raw JSON
func (s SourceString) PlainText() string {
	var out string
	if err := json.Unmarshal(s.Text, &out); err == nil {
		return out
	}
	return string(s.Text)
}

// LanguageTranslation is one translation from the language translations listing
type LanguageTranslation struct {
	StringID      int64     `json:"stringId"`
	ContentType   string    `json:"contentType"`
	TranslationID int64     `json:"translationId"`
	Text          string    `json:"text"`
	User          User      `json:"user"`
	CreatedAt     time.Time `json:"createdAt"`

	Raw json.RawMessage `json:"-"`
}

// Approval is one approval of a translation
type Approval struct {
	ID            int64     `json:"id"`
	User          User      `json:"user"`
	TranslationID int64     `json:"translationId"`
	StringID      int64     `json:"stringId"`
	LanguageID    string    `json:"languageId"`
	CreatedAt     time.Time `json:"createdAt"`

	Raw json.RawMessage `json:"-"`
}

// Page is an offset window into a listing
type Page struct {
	Offset int
	Limit  int
}

// ApprovalFilter narrows the approvals listing
type ApprovalFilter struct {
	LanguageID      string
	ExcludeLabelIDs []int64
}

// item is the {"data": T} wrapper crowdin puts around each resource
type item struct {
	Data json.RawMessage `json:"data"`
}

// list is the crowdin collection envelope
type list struct {
	Data       []item `json:"data"`
	Pagination struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	} `json:"pagination"`
}

// single is the crowdin envelope for one resource
type single[T any] struct {
	Data T `json:"data"`
}
