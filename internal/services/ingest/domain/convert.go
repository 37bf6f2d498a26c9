package domain

import "conflux/internal/adapters/ingest/crowdin"

// FromStrings maps a crowdin page onto rows
func FromStrings(in []crowdin.SourceString) []StringRow {
	out := make([]StringRow, 0, len(in))
	for _, s := range in {
		out = append(out, StringRow{
			ID:         s.ID,
			ProjectID:  s.ProjectID,
			FileID:     s.FileID,
			Identifier: s.Identifier,
			Text:       s.PlainText(),
			Type:       s.Type,
			CreatedAt:  s.CreatedAt,
			Raw:        s.Raw,
		})
	}
	return out
}

// FromTranslations maps a crowdin page onto rows; the listing omits the language so it is passed in
func FromTranslations(languageID string, in []crowdin.LanguageTranslation) []TranslationRow {
	out := make([]TranslationRow, 0, len(in))
	for _, t := range in {
		out = append(out, TranslationRow{
			TranslationID: t.TranslationID,
			StringID:      t.StringID,
			LanguageID:    languageID,
			Text:          t.Text,
			Username:      t.User.Username,
			UserID:        t.User.ID,
			CreatedAt:     t.CreatedAt,
			Raw:           t.Raw,
		})
	}
	return out
}

// FromApprovals maps a crowdin page onto rows, falling back to the requested language
func FromApprovals(languageID string, in []crowdin.Approval) []ApprovalRow {
	out := make([]ApprovalRow, 0, len(in))
	for _, a := range in {
		lang := a.LanguageID
		if lang == "" {
			lang = languageID
		}
		out = append(out, ApprovalRow{
			ApprovalID:    a.ID,
			TranslationID: a.TranslationID,
			StringID:      a.StringID,
			LanguageID:    lang,
			Username:      a.User.Username,
			UserID:        a.User.ID,
			CreatedAt:     a.CreatedAt,
			Raw:           a.Raw,
		})
	}
	return out
}
