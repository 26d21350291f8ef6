package models

// ========================
// WIZARD ENTITIES
// ========================

// CompanyCandidate is one possible match for a company lookup.
// Every field except Name may be empty when the model did not report it.
type CompanyCandidate struct {
	Name         string `json:"name"`
	Region       string `json:"region,omitempty"`
	IndustryCode string `json:"industryCode,omitempty"`
	TaxID        string `json:"taxId,omitempty"`
	SourceURL    string `json:"sourceUrl"`
}

// SourceCitation points at a public page the model claims supports a fact.
// Date is passed through as written; it is not validated.
type SourceCitation struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
	Date  string `json:"date,omitempty"`
}

// Person is a decision-maker candidate. There is no stable identifier:
// identity is the full name string.
type Person struct {
	FullName  string           `json:"fullName"`
	RoleTitle string           `json:"roleTitle"`
	Sources   []SourceCitation `json:"sources"`
}

// ========================
// API REQUEST PAYLOADS
// ========================

type ResolveCompanyRequest struct {
	Mode  string `json:"mode" validate:"oneof=name taxId"`
	Query string `json:"query" validate:"required"`
}

type FindPeopleRequest struct {
	TaxID        string `json:"taxId" validate:"required"`
	INN          string `json:"inn,omitempty"` // legacy alias for taxId
	CompanyName  string `json:"companyName,omitempty"`
	Region       string `json:"region,omitempty"`
	SourceDomain string `json:"sourceDomain,omitempty"`
}

type SynthesizeProfilesRequest struct {
	People         []Person `json:"people" validate:"required,min=1"`
	ProductContext string   `json:"productContext"`
	ProductInfo    string   `json:"productInfo,omitempty"` // legacy alias for productContext
}

// ========================
// API RESPONSE PAYLOADS
// ========================

type ResolveCompanyResponse struct {
	Candidates []CompanyCandidate `json:"candidates"`
	DebugText  string             `json:"debugText,omitempty"`
}

type FindPeopleResponse struct {
	People    []Person `json:"people"`
	DebugText string   `json:"debugText,omitempty"`
}

// ProfileSection is one "###" block of a generated profile text.
// PersonIndex is the 0-based index into the request's people, nil when
// the section could not be matched to anyone.
type ProfileSection struct {
	Title       string `json:"title"`
	PersonIndex *int   `json:"personIndex,omitempty"`
	Markdown    string `json:"markdown"`
	HTML        string `json:"html"`
}

type SynthesizeProfilesResponse struct {
	ProfileText string           `json:"profileText"`
	Profiles    []ProfileSection `json:"profiles"`
	DebugText   string           `json:"debugText,omitempty"`
}
