package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// The upstream model does not reliably follow the requested key names, so
// entities accept both camelCase and snake_case spellings plus a few
// synonyms seen in practice. Tax IDs may arrive as JSON numbers.

var (
	candidateNameKeys   = []string{"name", "company", "companyName", "company_name", "full_name"}
	candidateRegionKeys = []string{"region", "location", "city"}
	candidateCodeKeys   = []string{"industryCode", "industry_code", "okved", "industry"}
	candidateTaxIDKeys  = []string{"taxId", "tax_id", "inn", "INN", "taxID"}
	candidateSourceKeys = []string{"sourceUrl", "source_url", "source", "url", "link"}

	personNameKeys    = []string{"fullName", "full_name", "name", "fio"}
	personRoleKeys    = []string{"roleTitle", "role_title", "role", "title", "position"}
	personSourcesKeys = []string{"sources", "source", "links", "citations"}

	sourceLabelKeys = []string{"label", "title", "name"}
	sourceURLKeys   = []string{"url", "link", "href", "source"}
	sourceDateKeys  = []string{"date", "published", "publishedAt", "published_at"}
)

func (c *CompanyCandidate) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	*c = CompanyCandidate{}
	switch t := v.(type) {
	case string:
		c.Name = strings.TrimSpace(t)
	case map[string]any:
		c.Name = pickString(t, candidateNameKeys...)
		c.Region = pickString(t, candidateRegionKeys...)
		c.IndustryCode = pickString(t, candidateCodeKeys...)
		c.TaxID = pickString(t, candidateTaxIDKeys...)
		c.SourceURL = pickString(t, candidateSourceKeys...)
	}
	return nil
}

func (p *Person) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	*p = Person{Sources: []SourceCitation{}}
	switch t := v.(type) {
	case string:
		p.FullName = strings.TrimSpace(t)
	case map[string]any:
		p.FullName = pickString(t, personNameKeys...)
		p.RoleTitle = pickString(t, personRoleKeys...)
		p.Sources = pickSources(t, personSourcesKeys...)
	}
	return nil
}

func (s *SourceCitation) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	*s, _ = sourceFromValue(v)
	return nil
}

func decodeLoose(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// pickString returns the first non-empty scalar found under keys.
func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch t := m[k].(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case json.Number:
			return t.String()
		}
	}
	return ""
}

func pickSources(m map[string]any, keys ...string) []SourceCitation {
	out := []SourceCitation{}
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		items, isList := v.([]any)
		if !isList {
			items = []any{v}
		}
		for _, it := range items {
			if s, ok := sourceFromValue(it); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return out
}

func sourceFromValue(v any) (SourceCitation, bool) {
	switch t := v.(type) {
	case string:
		u := strings.TrimSpace(t)
		return SourceCitation{URL: u}, u != ""
	case map[string]any:
		s := SourceCitation{
			Label: pickString(t, sourceLabelKeys...),
			URL:   pickString(t, sourceURLKeys...),
			Date:  pickString(t, sourceDateKeys...),
		}
		return s, s.URL != ""
	}
	return SourceCitation{}, false
}
