package content

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Site is everything rendered on the landing page.
type Site struct {
	Title        string        `yaml:"title"`
	Description  string        `yaml:"description"`
	Brand        string        `yaml:"brand"`
	Nav          []Link        `yaml:"nav"`
	Hero         Hero          `yaml:"hero"`
	Features     []Feature     `yaml:"features"`
	Services     []Service     `yaml:"services"`
	Preview      []PreviewStat `yaml:"preview"`
	Partners     []Partner     `yaml:"partners"`
	Plans        []Plan        `yaml:"plans"`
	Testimonials []Testimonial `yaml:"testimonials"`
	Posts        []Post        `yaml:"posts"`
	Footer       Footer        `yaml:"footer"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Hero struct {
	Headline     string `yaml:"headline"`
	Subheadline  string `yaml:"subheadline"`
	PrimaryCTA   string `yaml:"primary_cta"`
	SecondaryCTA string `yaml:"secondary_cta"`
	Stats        []Stat `yaml:"stats"`
}

// Stat is a hero counter such as "5,000+ Happy Customers".
type Stat struct {
	Label  string `yaml:"label"`
	Value  int    `yaml:"value"`
	Suffix string `yaml:"suffix"`
}

type Feature struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Benefits    []string `yaml:"benefits"`
	Image       string   `yaml:"image"`
}

type Service struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
}

type PreviewStat struct {
	Label  string `yaml:"label"`
	Value  string `yaml:"value"`
	Change string `yaml:"change"`
}

type Partner struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Testimonial struct {
	Quote    string `yaml:"quote"`
	Author   string `yaml:"author"`
	Position string `yaml:"position"`
	Company  string `yaml:"company"`
}

type Post struct {
	Title    string    `yaml:"title"`
	Excerpt  string    `yaml:"excerpt"`
	Author   string    `yaml:"author"`
	Date     time.Time `yaml:"date"`
	Category string    `yaml:"category"`
	Image    string    `yaml:"image"`
}

// DisplayDate formats the post date the way the blog cards show it.
func (p Post) DisplayDate() string {
	return p.Date.Format("January 2, 2006")
}

type Footer struct {
	Columns []FooterColumn `yaml:"columns"`
	Social  []string       `yaml:"social"`
}

type FooterColumn struct {
	Title string   `yaml:"title"`
	Links []string `yaml:"links"`
}

// Load reads site content from path, or the built-in content when path
// is empty, and validates it.
func Load(path string) (*Site, error) {
	data := defaultContent
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrContentRead, path, err)
		}
	}

	return Parse(data)
}

// Parse decodes and validates YAML site content.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentParse, err)
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}

	return &site, nil
}

// Default returns the built-in content. It panics if the embedded file is
// invalid, which the package tests rule out.
func Default() *Site {
	site, err := Parse(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("built-in content is invalid: %v", err))
	}
	return site
}

// Validate checks the invariants the page templates rely on.
func (s *Site) Validate() error {
	if len(s.Plans) == 0 {
		return ErrNoPlans
	}
	if len(s.Testimonials) == 0 {
		return ErrNoTestimonials
	}

	seen := make(map[string]bool, len(s.Plans))
	for _, plan := range s.Plans {
		if seen[plan.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlan, plan.Name)
		}
		seen[plan.Name] = true

		if plan.Monthly < 0 || plan.Annual < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, plan.Name)
		}
	}

	return nil
}

// Testimonial returns the testimonial at index i, wrapping in both
// directions.
func (s *Site) Testimonial(i int) Testimonial {
	return s.Testimonials[Wrap(i, len(s.Testimonials))]
}

// Wrap maps i into [0, n). It returns 0 when n is not positive.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// NextTestimonial returns the carousel index after i.
func (s *Site) NextTestimonial(i int) int {
	return Wrap(i+1, len(s.Testimonials))
}

// PrevTestimonial returns the carousel index before i.
func (s *Site) PrevTestimonial(i int) int {
	return Wrap(i-1, len(s.Testimonials))
}
