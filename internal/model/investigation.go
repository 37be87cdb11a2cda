// Package model defines the core data types shared across the investigation
// pipeline. Types here are plain data with no behavior beyond small helpers.
package model

// TargetType classifies what kind of value an investigation target is.
type TargetType string

// Target types, in cascade priority order.
const (
	TargetEmail     TargetType = "email"
	TargetCPF       TargetType = "cpf"
	TargetCNPJ      TargetType = "cnpj"
	TargetPhoneBR   TargetType = "phone_br"
	TargetPhoneIntl TargetType = "phone_intl"
	TargetURL       TargetType = "url"
	TargetDomain    TargetType = "domain"
	TargetName      TargetType = "name"
	TargetUsername  TargetType = "username"
	TargetGeneric   TargetType = "generic"
)

// TargetDescriptor is the classified, normalized form of the raw target
// string. It is produced once per run and immutable afterwards. The
// Normalized value is a pure function of Raw.
type TargetDescriptor struct {
	Raw        string     `json:"raw"`
	Type       TargetType `json:"type"`
	Normalized string     `json:"clean"`
}

// SearchHit is one normalized search-engine result.
type SearchHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// IdentityHit records a platform where the probed username exists.
type IdentityHit struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// CrawlRecord is the outcome of extracting one URL. It is a tagged variant:
// either Error is set and everything else is zero, or Error is empty and the
// extracted fields are populated. Set-valued fields are deduplicated and
// sorted.
type CrawlRecord struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	Phones      []string `json:"phones,omitempty"`
	Documents   []string `json:"documents,omitempty"`
	SocialLinks []string `json:"social_links,omitempty"`
	RawText     string   `json:"raw_text,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Failed reports whether the record is the error variant.
func (r CrawlRecord) Failed() bool { return r.Error != "" }

// EntryKind tags a collected bundle entry.
type EntryKind string

// Bundle entry kinds.
const (
	KindGoogleSearch   EntryKind = "google_search"
	KindSocialProfiles EntryKind = "social_profiles"
	KindWebsiteCrawl   EntryKind = "website_crawl"
	KindRegistryLookup EntryKind = "registry_lookup"
)

// CollectedEntry is one typed block of gathered data. Entries are appended
// in phase order and never mutated afterwards.
type CollectedEntry struct {
	Kind EntryKind `json:"type"`
	Data any       `json:"data"`
}

// RunMode restricts which pipeline phases execute.
type RunMode string

// Run modes.
const (
	ModeFull       RunMode = "full"
	ModeSearchOnly RunMode = "search"
	ModeCrawlOnly  RunMode = "crawl"
)

// Valid reports whether m is a known run mode.
func (m RunMode) Valid() bool {
	switch m {
	case ModeFull, ModeSearchOnly, ModeCrawlOnly:
		return true
	}
	return false
}

// Dossier is the terminal report artifact of a run.
type Dossier struct {
	Summary           string   `json:"summary"`
	KeyFacts          []string `json:"key_facts"`
	ExtractedContacts []string `json:"extracted_contacts"`
	ConfidenceScore   int      `json:"confidence_score"`
}

// RunContext carries run metadata into the synthesis payload and artifact.
type RunContext struct {
	HasLocalRegistry  bool    `json:"has_local_cnpj"`
	PotentialUsername string  `json:"potential_username,omitempty"`
	Mode              RunMode `json:"mode"`
}

// Artifact is the persisted JSON bundle for one completed run.
type Artifact struct {
	Target  TargetDescriptor `json:"target"`
	Context RunContext       `json:"context"`
	Dossier Dossier          `json:"dossier"`
}
