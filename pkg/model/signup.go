package model

import "strconv"

// CountryPlaceholder is the first select option; it is rendered but never a
// valid choice.
const CountryPlaceholder = "Select a country"

// DefaultPasswordMinLength is the minimum number of characters a password
// must have.
const DefaultPasswordMinLength = 8

// Catalog carries the configurable option lists of the sign-up form.
type Catalog struct {
	Countries         []string
	Hobbies           []string
	Genders           []Option
	PasswordMinLength int
	Descriptions      map[string]string
}

// DefaultCatalog returns the stock option lists.
func DefaultCatalog() Catalog {
	return Catalog{
		Countries: []string{"USA", "Canada", "Australia", "Other"},
		Hobbies:   []string{"Reading", "Traveling", "Sports", "Music", "Cooking"},
		Genders: []Option{
			{Value: "male", Label: "Male"},
			{Value: "female", Label: "Female"},
		},
		PasswordMinLength: DefaultPasswordMinLength,
	}
}

// SignupForm builds the sign-up form model from a catalog. Zero-valued catalog
// entries fall back to DefaultCatalog.
func SignupForm(catalog Catalog) FormModel {
	defaults := DefaultCatalog()
	if len(catalog.Countries) == 0 {
		catalog.Countries = defaults.Countries
	}
	if len(catalog.Hobbies) == 0 {
		catalog.Hobbies = defaults.Hobbies
	}
	if len(catalog.Genders) == 0 {
		catalog.Genders = defaults.Genders
	}
	if catalog.PasswordMinLength <= 0 {
		catalog.PasswordMinLength = defaults.PasswordMinLength
	}

	countries := make([]Option, 0, len(catalog.Countries)+1)
	countries = append(countries, Option{Value: CountryPlaceholder, Label: CountryPlaceholder})
	for _, country := range catalog.Countries {
		countries = append(countries, Option{Value: country, Label: country})
	}

	hobbies := make([]Option, 0, len(catalog.Hobbies))
	for _, hobby := range catalog.Hobbies {
		hobbies = append(hobbies, Option{Value: hobby, Label: hobby})
	}

	minLength := strconv.Itoa(catalog.PasswordMinLength)

	fields := []Field{
		{
			Name:            "name",
			Type:            FieldTypeText,
			Label:           "Name",
			Required:        true,
			RequiredMessage: "Name is required",
		},
		{
			Name:            "email",
			Type:            FieldTypeEmail,
			Label:           "Email",
			Required:        true,
			RequiredMessage: "Email is required",
			Validations: []ValidationRule{
				{Kind: ValidationRuleEmail, Message: "Invalid email format"},
			},
		},
		{
			Name:            "password",
			Type:            FieldTypePassword,
			Label:           "Password",
			Required:        true,
			RequiredMessage: "Password is required",
			Validations: []ValidationRule{
				{
					Kind:    ValidationRuleMinLength,
					Params:  map[string]string{"value": minLength},
					Message: "Password must be at least " + minLength + " characters",
				},
			},
		},
		{
			Name:  "subscribe",
			Type:  FieldTypeCheckbox,
			Label: "Subscribe to Newsletter",
		},
		{
			Name:            "gender",
			Type:            FieldTypeRadio,
			Label:           "Gender",
			Required:        true,
			RequiredMessage: "Gender is required",
			Options:         append([]Option{}, catalog.Genders...),
			Validations: []ValidationRule{
				{Kind: ValidationRuleOneOf, Message: "Gender is required"},
			},
		},
		{
			Name:            "country",
			Type:            FieldTypeSelect,
			Label:           "Country",
			Required:        true,
			RequiredMessage: "Country is required",
			Options:         countries,
			Validations: []ValidationRule{
				{
					Kind:    ValidationRuleNotEqual,
					Params:  map[string]string{"value": CountryPlaceholder},
					Message: "Country is required",
				},
				{Kind: ValidationRuleOneOf, Message: "Country is required"},
			},
		},
		{
			Name:    "hobbies",
			Type:    FieldTypeCheckboxGroup,
			Label:   "Hobbies",
			Options: hobbies,
			Validations: []ValidationRule{
				{
					Kind:    ValidationRuleMinItems,
					Params:  map[string]string{"value": "1"},
					Message: "Select at least one hobby",
				},
				{Kind: ValidationRuleOneOf, Message: "Select hobbies from the list"},
			},
		},
		{
			Name:  "comments",
			Type:  FieldTypeTextArea,
			Label: "Comments",
		},
	}

	for i := range fields {
		if desc, ok := catalog.Descriptions[fields[i].Name]; ok {
			fields[i].Description = desc
		}
	}

	return FormModel{
		ID:          "signup",
		Title:       "Form with Formik and Bootstrap",
		Endpoint:    "/",
		Method:      "POST",
		SubmitLabel: "Submit",
		Fields:      fields,
	}
}
