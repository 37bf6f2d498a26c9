package crowdin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	perr "conflux/internal/platform/errors"
)

// MaxLimit is the largest page crowdin serves
const MaxLimit = 500

// GetProject fetches one project
func (c *Client) GetProject(ctx context.Context, projectID int64) (Project, error) {
	var out single[Project]
	if err := c.get(ctx, fmt.Sprintf("/projects/%d", projectID), nil, &out); err != nil {
		return Project{}, err
	}
	return out.Data, nil
}

// ListLabels lists one page of project labels
func (c *Client) ListLabels(ctx context.Context, projectID int64, p Page) ([]Label, error) {
	return listPage(ctx, c, fmt.Sprintf("/projects/%d/labels", projectID), p.query(), func(*Label, json.RawMessage) {})
}

// ListProjectStrings lists one page of source strings
func (c *Client) ListProjectStrings(ctx context.Context, projectID int64, p Page) ([]SourceString, error) {
	return listPage(ctx, c, fmt.Sprintf("/projects/%d/strings", projectID), p.query(),
		func(s *SourceString, raw json.RawMessage) { s.Raw = raw })
}

// ListLanguageTranslations lists one page of translations into languageID
func (c *Client) ListLanguageTranslations(ctx context.Context, projectID int64, languageID string, p Page) ([]LanguageTranslation, error) {
	path := fmt.Sprintf("/projects/%d/languages/%s/translations", projectID, url.PathEscape(languageID))
	return listPage(ctx, c, path, p.query(), func(t *LanguageTranslation, raw json.RawMessage) { t.Raw = raw })
}

// ListTranslationApprovals lists one page of approvals
func (c *Client) ListTranslationApprovals(ctx context.Context, projectID int64, f ApprovalFilter, p Page) ([]Approval, error) {
	q := p.query()
	if f.LanguageID != "" {
		q.Set("languageId", f.LanguageID)
	}
	if len(f.ExcludeLabelIDs) > 0 {
		ids := make([]string, len(f.ExcludeLabelIDs))
		for i, id := range f.ExcludeLabelIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		q.Set("excludeLabelIds", strings.Join(ids, ","))
	}
	return listPage(ctx, c, fmt.Sprintf("/projects/%d/approvals", projectID), q,
		func(a *Approval, raw json.RawMessage) { a.Raw = raw })
}

func (p Page) query() url.Values {
	q := url.Values{}
	limit := p.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(max(p.Offset, 0)))
	return q
}

// listPage fetches a collection and unwraps each {"data": T}; keep stores the raw object
func listPage[T any](ctx context.Context, c *Client, path string, q url.Values, keep func(*T, json.RawMessage)) ([]T, error) {
	var env list
	if err := c.get(ctx, path, q, &env); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(env.Data))
	for i, it := range env.Data {
		var v T
		if err := json.Unmarshal(it.Data, &v); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "crowdin %s item %d", path, i)
		}
		keep(&v, it.Data)
		out = append(out, v)
	}
	return out, nil
}
