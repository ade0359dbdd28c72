package site

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-internsite/pkg/application"
)

//go:embed content/site.yaml
var defaultContent []byte

// Content is the copy shown on the marketing pages.
type Content struct {
	Brand    Brand         `yaml:"brand" json:"brand"`
	Nav      []Link        `yaml:"nav" json:"nav"`
	Footer   []LinkGroup   `yaml:"footer" json:"footer"`
	Home     HomePage      `yaml:"home" json:"home"`
	Services ServicesPage  `yaml:"services" json:"services"`
	About    AboutPage     `yaml:"about" json:"about"`
	Contact  ContactPage   `yaml:"contact" json:"contact"`
	Apply    ApplySelector `yaml:"apply" json:"apply"`
}

type Brand struct {
	Name      string `yaml:"name" json:"name"`
	ShortName string `yaml:"short_name" json:"short_name"`
	Title     string `yaml:"title" json:"title"`
	Tagline   string `yaml:"tagline" json:"tagline"`
	Email     string `yaml:"email" json:"email"`
	Phone     string `yaml:"phone" json:"phone"`
	Location  string `yaml:"location" json:"location"`
	Copyright string `yaml:"copyright" json:"copyright"`
}

type Link struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

type LinkGroup struct {
	Title string `yaml:"title" json:"title"`
	Links []Link `yaml:"links" json:"links"`
}

type Stat struct {
	Value  string `yaml:"value" json:"value"`
	Suffix string `yaml:"suffix" json:"suffix"`
	Label  string `yaml:"label" json:"label"`
}

type Card struct {
	ID          string   `yaml:"id,omitempty" json:"id,omitempty"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Contact     string   `yaml:"contact,omitempty" json:"contact,omitempty"`
	Features    []string `yaml:"features,omitempty" json:"features,omitempty"`
	Tags        []string `yaml:"technologies,omitempty" json:"technologies,omitempty"`
}

type CallToAction struct {
	Title  string `yaml:"title" json:"title"`
	Body   string `yaml:"body" json:"body"`
	Action string `yaml:"action" json:"action"`
}

type HomePage struct {
	Badge     string       `yaml:"badge" json:"badge"`
	Headline  string       `yaml:"headline" json:"headline"`
	Highlight string       `yaml:"highlight" json:"highlight"`
	Intro     string       `yaml:"intro" json:"intro"`
	Rating    string       `yaml:"rating" json:"rating"`
	Placed    string       `yaml:"placed" json:"placed"`
	Stats     []Stat       `yaml:"stats" json:"stats"`
	CTA       CallToAction `yaml:"cta" json:"cta"`
}

type ServicesPage struct {
	Badge           string       `yaml:"badge" json:"badge"`
	Title           string       `yaml:"title" json:"title"`
	Intro           string       `yaml:"intro" json:"intro"`
	Items           []Card       `yaml:"items" json:"items"`
	AdditionalTitle string       `yaml:"additional_title" json:"additional_title"`
	AdditionalIntro string       `yaml:"additional_intro" json:"additional_intro"`
	Additional      []Card       `yaml:"additional" json:"additional"`
	CTA             CallToAction `yaml:"cta" json:"cta"`
}

type TeamMember struct {
	Name string `yaml:"name" json:"name"`
	Role string `yaml:"role" json:"role"`
}

type AboutPage struct {
	Badge           string       `yaml:"badge" json:"badge"`
	Title           string       `yaml:"title" json:"title"`
	Intro           string       `yaml:"intro" json:"intro"`
	StatsTitle      string       `yaml:"stats_title" json:"stats_title"`
	StatsIntro      string       `yaml:"stats_intro" json:"stats_intro"`
	Stats           []Stat       `yaml:"stats" json:"stats"`
	ValuesTitle     string       `yaml:"values_title" json:"values_title"`
	ValuesIntro     string       `yaml:"values_intro" json:"values_intro"`
	Values          []Card       `yaml:"values" json:"values"`
	TeamTitle       string       `yaml:"team_title" json:"team_title"`
	TeamIntro       string       `yaml:"team_intro" json:"team_intro"`
	Team            []TeamMember `yaml:"team" json:"team"`
	MilestonesTitle string       `yaml:"milestones_title" json:"milestones_title"`
	MilestonesIntro string       `yaml:"milestones_intro" json:"milestones_intro"`
	Milestones      []Card       `yaml:"milestones" json:"milestones"`
	CTA             CallToAction `yaml:"cta" json:"cta"`
}

type Office struct {
	Title   string `yaml:"title" json:"title"`
	Body    string `yaml:"body" json:"body"`
	Address string `yaml:"address" json:"address"`
	Hours   string `yaml:"hours" json:"hours"`
}

type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type ContactPage struct {
	Badge        string `yaml:"badge" json:"badge"`
	Title        string `yaml:"title" json:"title"`
	Intro        string `yaml:"intro" json:"intro"`
	Cards        []Card `yaml:"cards" json:"cards"`
	SuccessTitle string `yaml:"success_title" json:"success_title"`
	SuccessBody  string `yaml:"success_body" json:"success_body"`
	Office       Office `yaml:"office" json:"office"`
	FAQTitle     string `yaml:"faq_title" json:"faq_title"`
	FAQIntro     string `yaml:"faq_intro" json:"faq_intro"`
	FAQ          []FAQ  `yaml:"faq" json:"faq"`
}

type ApplyCard struct {
	Variant     application.Variant `yaml:"variant" json:"variant"`
	Title       string              `yaml:"title" json:"title"`
	Description string              `yaml:"description" json:"description"`
	Features    []string            `yaml:"features" json:"features"`
	Action      string              `yaml:"action" json:"action"`
	Success     string              `yaml:"success" json:"success"`
}

type ApplySelector struct {
	Badge     string      `yaml:"badge" json:"badge"`
	Title     string      `yaml:"title" json:"title"`
	Intro     string      `yaml:"intro" json:"intro"`
	HelpTitle string      `yaml:"help_title" json:"help_title"`
	HelpBody  string      `yaml:"help_body" json:"help_body"`
	Note      string      `yaml:"note" json:"note"`
	Cards     []ApplyCard `yaml:"cards" json:"cards"`
}

// Card returns the selection card for variant.
func (a ApplySelector) Card(variant application.Variant) (ApplyCard, bool) {
	for _, c := range a.Cards {
		if c.Variant == variant {
			return c, true
		}
	}
	return ApplyCard{}, false
}

// DefaultContent parses the embedded catalog.
func DefaultContent() (*Content, error) {
	return LoadContent(defaultContent)
}

// LoadContent parses a YAML content catalog. Unknown keys are rejected and
// every apply card must name a known application variant.
func LoadContent(data []byte) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("site: parse content: %w", err)
	}
	if c.Brand.Name == "" {
		return nil, errors.New("site: content brand name is required")
	}
	for _, card := range c.Apply.Cards {
		if _, err := application.ParseVariant(string(card.Variant)); err != nil {
			return nil, fmt.Errorf("site: apply card: %w", err)
		}
	}
	return &c, nil
}
