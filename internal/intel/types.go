package intel

import "context"

// Intelligence categories, as they appear in a Record's MissingInfo list.
const (
	CategoryUPI   = "upi_id"
	CategoryLink  = "phishing_link"
	CategoryPhone = "phone_number"
	CategoryBank  = "bank_account"
)

var knownCategories = map[string]bool{
	CategoryUPI:   true,
	CategoryLink:  true,
	CategoryPhone: true,
	CategoryBank:  true,
}

// Record accumulates scam artifacts extracted across a conversation.
type Record struct {
	UPIIDs        []string `json:"upi_ids"`
	BankAccounts  []string `json:"bank_accounts"`
	PhishingLinks []string `json:"phishing_links"`
	PhoneNumbers  []string `json:"phone_numbers"`
	Tactics       []string `json:"tactics"`
	MissingInfo   []string `json:"missing_info"`
}

// Extractor maps the latest scammer message and the previously accumulated
// record to an updated record. Implementations must be monotonic: the
// returned record never drops a value already present in prev.
type Extractor interface {
	Extract(ctx context.Context, latest string, prev Record) (Record, error)
}

// Merge combines a newer extraction into r without losing anything already
// known. Identifier lists are unioned; MissingInfo is taken from the newer
// record with unrecognized category labels rejected.
func (r Record) Merge(newer Record) Record {
	return Record{
		UPIIDs:        union(r.UPIIDs, newer.UPIIDs),
		BankAccounts:  union(r.BankAccounts, newer.BankAccounts),
		PhishingLinks: union(r.PhishingLinks, newer.PhishingLinks),
		PhoneNumbers:  union(r.PhoneNumbers, newer.PhoneNumbers),
		Tactics:       union(r.Tactics, newer.Tactics),
		MissingInfo:   filterKnown(newer.MissingInfo),
	}
}

// ActionableCount returns the number of identifiers considered sufficient
// grounds to end extraction: payment ids, phone numbers, and bank accounts.
func (r Record) ActionableCount() int {
	return len(r.UPIIDs) + len(r.PhoneNumbers) + len(r.BankAccounts)
}

// Saturation is the fraction of the four identifier categories that have at
// least one extracted value.
func (r Record) Saturation() float64 {
	found := 0
	for _, vals := range [][]string{r.UPIIDs, r.BankAccounts, r.PhoneNumbers, r.PhishingLinks} {
		if len(vals) > 0 {
			found++
		}
	}
	return float64(found) / 4.0
}

// ComputeMissing derives the missing-category list from the identifier lists.
// Category order matters downstream: the strategy engine targets the first
// missing category in this order.
func (r Record) ComputeMissing() []string {
	var missing []string
	if len(r.UPIIDs) == 0 {
		missing = append(missing, CategoryUPI)
	}
	if len(r.PhishingLinks) == 0 {
		missing = append(missing, CategoryLink)
	}
	if len(r.PhoneNumbers) == 0 {
		missing = append(missing, CategoryPhone)
	}
	if len(r.BankAccounts) == 0 {
		missing = append(missing, CategoryBank)
	}
	return missing
}

// HasMissing reports whether category is listed in MissingInfo.
func (r Record) HasMissing(category string) bool {
	for _, m := range r.MissingInfo {
		if m == category {
			return true
		}
	}
	return false
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, lists := range [][]string{a, b} {
		for _, v := range lists {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func filterKnown(categories []string) []string {
	var out []string
	for _, c := range categories {
		if knownCategories[c] {
			out = append(out, c)
		}
	}
	return out
}
