package naming

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func Example() {
	type convention interface {
		Convert(string) string
		Join([]string) string
	}
	conventions := []convention{SnakeCase, CamelCase, SameCase, LowerCase}
	names := []string{"snake case", "camel case", "same case", "lower case"}

	for i, convention := range conventions {
		fmt.Printf("\n%s:\n\n", names[i])
		fmt.Println(convention.Convert("firstName"))
		fmt.Println(convention.Convert("home_address"))
		fmt.Println(convention.Join([]string{
			convention.Convert("homeAddress"),
			convention.Convert("street_name"),
		}))
	}

	// Output:
	//
	// snake case:
	//
	// first_name
	// home_address
	// home_address_street_name
	//
	// camel case:
	//
	// firstName
	// homeAddress
	// homeAddressStreetName
	//
	// same case:
	//
	// firstName
	// home_address
	// homeAddressstreet_name
	//
	// lower case:
	//
	// firstname
	// home_address
	// homeaddressstreet_name
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"firstName", "first_name"},
		{"first_name", "first_name"},
		{"name", "name"},
		{"FirstName", "first_name"},
		{"apiToken", "api_token"},
		{"first_Name", "first_name"},
		{"first name", "first_name"},
		{"first-name", "first_name"},
		{"addressLine1", "address_line1"},
		{"UserID", "user_i_d"},
		{"_id", "_id"},
		{"", ""},
	}

	for _, tt := range tests {
		if want, got := tt.expected, SnakeCase.Convert(tt.name); want != got {
			t.Errorf("%q: expected=%q, actual=%q", tt.name, want, got)
		}
	}
}

func TestCamelCase(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"first_name", "firstName"},
		{"firstName", "firstName"},
		{"name", "name"},
		{"FirstName", "firstName"},
		{"api_token", "apiToken"},
		{"_id", "id"},
		{"created__at", "createdAt"},
		{"kebab-case-name", "kebabCaseName"},
		{"address_line1", "addressLine1"},
		{"", ""},
	}

	for _, tt := range tests {
		if want, got := tt.expected, CamelCase.Convert(tt.name); want != got {
			t.Errorf("%q: expected=%q, actual=%q", tt.name, want, got)
		}
	}
}

func TestSnakeJoin(t *testing.T) {
	tests := []struct {
		names    []string
		expected string
	}{
		{
			names:    []string{"name"},
			expected: "name",
		},
		{
			names:    []string{"name1", "name2"},
			expected: "name1_name2",
		},
	}

	for _, tt := range tests {
		if want, got := tt.expected, SnakeCase.Join(tt.names); want != got {
			t.Errorf("expected=%q, actual=%q", want, got)
		}
	}
}

func TestIsPivot(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"pivot_role_id", true},
		{"pivot_", true},
		{"pivotRoleId", false},
		{"role_id", false},
	}
	for _, tt := range tests {
		if want, got := tt.expected, IsPivot(tt.name); want != got {
			t.Errorf("%q: expected=%v, actual=%v", tt.name, want, got)
		}
	}
}

func TestConversionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	storageForm := gen.RegexMatch(`[a-z]{1,8}(_[a-z]{1,8}){0,4}`)
	applicationForm := gen.RegexMatch(`[a-z]{1,8}([A-Z][a-z]{0,7}){0,4}`)
	anyName := gen.RegexMatch(`[A-Za-z_ -]{0,24}`)

	properties.Property("storage form round trips", prop.ForAll(
		func(name string) bool {
			return SnakeCase.Convert(CamelCase.Convert(name)) == name
		},
		storageForm,
	))
	properties.Property("application form round trips", prop.ForAll(
		func(name string) bool {
			return CamelCase.Convert(SnakeCase.Convert(name)) == name
		},
		applicationForm,
	))
	properties.Property("snake case is idempotent", prop.ForAll(
		func(name string) bool {
			once := SnakeCase.Convert(name)
			return SnakeCase.Convert(once) == once
		},
		anyName,
	))
	properties.Property("camel case is idempotent", prop.ForAll(
		func(name string) bool {
			once := CamelCase.Convert(name)
			return CamelCase.Convert(once) == once
		},
		anyName,
	))

	properties.TestingRun(t)
}
