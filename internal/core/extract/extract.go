package extract

import (
	"strings"

	"github.com/contactsphere/backend/internal/core/model"
)

// Family identifies one axis of comparison used to group contacts. The set is
// closed: adding a family means adding a constant here and a policy in the
// inference engine, not registering a plugin.
type Family int

const (
	FamilyOrganization Family = iota
	FamilyCity
	FamilyDomain
	FamilyBirthday
	FamilySchool
	FamilyTag
)

func (f Family) String() string {
	switch f {
	case FamilyOrganization:
		return "organization"
	case FamilyCity:
		return "city"
	case FamilyDomain:
		return "domain"
	case FamilyBirthday:
		return "birthday"
	case FamilySchool:
		return "school"
	case FamilyTag:
		return "tag"
	}
	return "unknown"
}

// Families returns all attribute families in evaluation order.
func Families() []Family {
	return []Family{
		FamilyOrganization,
		FamilyCity,
		FamilyDomain,
		FamilyBirthday,
		FamilySchool,
		FamilyTag,
	}
}

// consumerDomains are generic webmail providers that never form a group.
// Matching is exact after lowercasing, not suffix-based.
var consumerDomains = map[string]struct{}{
	"gmail.com":   {},
	"yahoo.com":   {},
	"hotmail.com": {},
	"outlook.com": {},
	"aol.com":     {},
	"icloud.com":  {},
	"me.com":      {},
	"live.com":    {},
	"msn.com":     {},
	"web.de":      {},
	"gmx.com":     {},
	"gmx.de":      {},
	"yandex.com":  {},
	"mail.ru":     {},
	"t-online.de": {},
}

var schoolKeywords = []string{"university", "college", "school", "institute", "academy"}

var knownSchools = []string{
	"mit", "stanford", "harvard", "caltech", "ucla", "usc", "berkeley",
	"oxford", "cambridge", "yale", "princeton", "columbia", "cornell",
}

// Keys returns the normalized grouping keys a contact contributes to the
// given family. Pure and total: missing or blank fields produce no keys,
// never an error.
func Keys(f Family, c model.Contact) []string {
	switch f {
	case FamilyOrganization:
		return OrganizationKeys(c)
	case FamilyCity:
		return singleKey(c.City)
	case FamilyDomain:
		return DomainKey(c)
	case FamilyBirthday:
		return singleKey(c.Birthday)
	case FamilySchool:
		return SchoolKeys(c)
	case FamilyTag:
		return TagKeys(c)
	}
	return nil
}

// OrganizationKeys emits the normalized current organization and, when
// present and distinct, the normalized previous organization. A contact can
// therefore sit in two organization groups at once, which is how former
// colleagues end up linked through the same grouping pass. Note this means
// a large former employer is subject to the same hub policy as a current one.
func OrganizationKeys(c model.Contact) []string {
	var keys []string
	if org := Normalize(c.Organization); org != "" {
		keys = append(keys, org)
	}
	if prev := Normalize(c.PreviousOrganization); prev != "" {
		if len(keys) == 0 || keys[0] != prev {
			keys = append(keys, prev)
		}
	}
	return keys
}

// DomainKey extracts the lower-cased part after '@', dropping consumer
// webmail providers entirely.
func DomainKey(c model.Contact) []string {
	email := strings.TrimSpace(c.Email)
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return nil
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	if domain == "" {
		return nil
	}
	if _, skip := consumerDomains[domain]; skip {
		return nil
	}
	return []string{domain}
}

// SchoolKeys derives school names from two independent signals: the
// organization field when it looks like an institution, and school-typed
// entries in the raw payload's organizations list. Duplicates collapse.
func SchoolKeys(c model.Contact) []string {
	seen := make(map[string]struct{})
	var keys []string
	add := func(name string) {
		key := Normalize(name)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	if org := strings.ToLower(c.Organization); org != "" {
		if containsAny(org, schoolKeywords) || containsAny(org, knownSchools) {
			add(c.Organization)
		}
	}

	orgs, _ := c.RawData["organizations"].([]interface{})
	for _, entry := range orgs {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if typ, _ := m["type"].(string); typ != "school" {
			continue
		}
		if name, _ := m["name"].(string); name != "" {
			add(name)
		}
	}

	return keys
}

// TagKeys returns every tag verbatim; tags are normalized by the caller.
func TagKeys(c model.Contact) []string {
	var keys []string
	for _, tag := range c.Tags {
		if tag != "" {
			keys = append(keys, tag)
		}
	}
	return keys
}

// Normalize is the shared grouping-key normalization: trim then lowercase.
func Normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func singleKey(v string) []string {
	if key := Normalize(v); key != "" {
		return []string{key}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
