package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contactsphere/backend/internal/core/model"
)

func TestOrganizationKeys(t *testing.T) {
	c := model.Contact{ID: "1", Name: "Alice", Organization: "  Acme Corp "}
	assert.Equal(t, []string{"acme corp"}, OrganizationKeys(c))

	// Previous employer lands the contact in a second group.
	c.PreviousOrganization = "Globex"
	assert.Equal(t, []string{"acme corp", "globex"}, OrganizationKeys(c))

	// Same employer twice collapses to one key.
	c.PreviousOrganization = "ACME CORP"
	assert.Equal(t, []string{"acme corp"}, OrganizationKeys(c))

	assert.Empty(t, OrganizationKeys(model.Contact{ID: "2", Name: "Bob"}))
	assert.Empty(t, OrganizationKeys(model.Contact{ID: "3", Name: "Eve", Organization: "   "}))
}

func TestDomainKey(t *testing.T) {
	c := model.Contact{ID: "1", Name: "John", Email: "John@Acme.COM"}
	assert.Equal(t, []string{"acme.com"}, DomainKey(c))

	// Consumer providers never group, regardless of case.
	assert.Empty(t, DomainKey(model.Contact{Email: "bob@gmail.com"}))
	assert.Empty(t, DomainKey(model.Contact{Email: "bob@GMAIL.com"}))

	// Denylist matching is exact, not suffix-based.
	assert.Equal(t, []string{"notgmail.com"}, DomainKey(model.Contact{Email: "x@notgmail.com"}))

	assert.Empty(t, DomainKey(model.Contact{Email: "no-at-sign"}))
	assert.Empty(t, DomainKey(model.Contact{Email: "trailing@"}))
	assert.Empty(t, DomainKey(model.Contact{}))
}

func TestSchoolKeys_FromOrganization(t *testing.T) {
	byKeyword := model.Contact{ID: "1", Name: "A", Organization: "Leipzig University"}
	assert.Equal(t, []string{"leipzig university"}, SchoolKeys(byKeyword))

	byKnownName := model.Contact{ID: "2", Name: "B", Organization: "MIT"}
	assert.Equal(t, []string{"mit"}, SchoolKeys(byKnownName))

	notASchool := model.Contact{ID: "3", Name: "C", Organization: "Acme Corp"}
	assert.Empty(t, SchoolKeys(notASchool))
}

func TestSchoolKeys_FromRawData(t *testing.T) {
	c := model.Contact{
		ID:   "1",
		Name: "A",
		RawData: map[string]interface{}{
			"organizations": []interface{}{
				map[string]interface{}{"type": "school", "name": "Stanford University"},
				map[string]interface{}{"type": "work", "name": "Acme Corp"},
				map[string]interface{}{"type": "school"}, // nameless, ignored
			},
		},
	}
	assert.Equal(t, []string{"stanford university"}, SchoolKeys(c))
}

func TestSchoolKeys_BothSignalsDeduplicated(t *testing.T) {
	c := model.Contact{
		ID:           "1",
		Name:         "A",
		Organization: "MIT",
		RawData: map[string]interface{}{
			"organizations": []interface{}{
				map[string]interface{}{"type": "school", "name": "mit"},
				map[string]interface{}{"type": "school", "name": "Harvard"},
			},
		},
	}
	assert.Equal(t, []string{"mit", "harvard"}, SchoolKeys(c))
}

func TestSchoolKeys_MalformedRawData(t *testing.T) {
	// The extractor is total: odd payload shapes yield no keys, never a panic.
	cases := []model.Contact{
		{ID: "1", Name: "A", RawData: map[string]interface{}{"organizations": "not a list"}},
		{ID: "2", Name: "B", RawData: map[string]interface{}{"organizations": []interface{}{"not a map", 42}}},
		{ID: "3", Name: "C", RawData: nil},
	}
	for _, c := range cases {
		assert.Empty(t, SchoolKeys(c))
	}
}

func TestKeys_BlankFieldsProduceNoKeys(t *testing.T) {
	c := model.Contact{ID: "1", Name: "A", City: "  ", Birthday: ""}
	for _, f := range Families() {
		assert.Empty(t, Keys(f, c), "family %s", f)
	}
}

func TestKeys_AllFamilies(t *testing.T) {
	c := model.Contact{
		ID:           "1",
		Name:         "Alice",
		Email:        "alice@acme.com",
		Organization: "Acme",
		City:         " Berlin ",
		Birthday:     "03-15",
		Tags:         []string{"climbing", "book-club"},
	}
	assert.Equal(t, []string{"acme"}, Keys(FamilyOrganization, c))
	assert.Equal(t, []string{"berlin"}, Keys(FamilyCity, c))
	assert.Equal(t, []string{"acme.com"}, Keys(FamilyDomain, c))
	assert.Equal(t, []string{"03-15"}, Keys(FamilyBirthday, c))
	assert.Empty(t, Keys(FamilySchool, c))
	assert.Equal(t, []string{"climbing", "book-club"}, Keys(FamilyTag, c))
}
