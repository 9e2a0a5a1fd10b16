package resume

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Profile is the typed view of a normalized record used by the PDF builder.
type Profile struct {
	FirstName      string            `mapstructure:"first_name"`
	LastName       string            `mapstructure:"last_name"`
	Email          string            `mapstructure:"email"`
	Phone          string            `mapstructure:"phone"`
	Location       string            `mapstructure:"location"`
	Social         map[string]string `mapstructure:"social"`
	Skills         string            `mapstructure:"skills"`
	Work           []Position        `mapstructure:"work"`
	Education      []Education       `mapstructure:"education"`
	Projects       []NamedItem       `mapstructure:"projects"`
	Certifications []NamedItem       `mapstructure:"certifications"`
	Achievements   []NamedItem       `mapstructure:"achievements"`
	Other          map[string]string `mapstructure:"other"`
	Summary        string            `mapstructure:"summary"`
}

// Position is a single work history entry.
type Position struct {
	Company     string `mapstructure:"company"`
	Title       string `mapstructure:"title"`
	StartDate   string `mapstructure:"startDate"`
	EndDate     string `mapstructure:"endDate"`
	Description string `mapstructure:"description"`
}

// Education is a single education history entry.
type Education struct {
	Degree      string `mapstructure:"degree"`
	Institution string `mapstructure:"institution"`
	StartDate   string `mapstructure:"startDate"`
	EndDate     string `mapstructure:"endDate"`
	GPA         string `mapstructure:"percentage/gpa"`
}

// NamedItem is a name/description pair used for projects, certifications and
// achievements.
type NamedItem struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// FullName joins the first and last name, tolerating either being empty.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DecodeProfile converts a record into its typed view. Scalar mismatches are
// coerced rather than rejected since the model output is not contractually
// typed.
func DecodeProfile(r Record) (*Profile, error) {
	var profile Profile

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &profile,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building profile decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(r)); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	return &profile, nil
}
