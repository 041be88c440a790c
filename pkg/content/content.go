// Package content holds the event's read-only page content: the headline,
// the details card, the schedule, the FAQ and the option lists offered by
// the RSVP form.
//
// Content is read from YAML. The binary embeds a default event so the site
// runs without any file on disk.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vmtco/funday/internal/errors"
)

//go:embed event.yaml
var defaultEvent []byte

// NoDietaryRestriction must be the first dietary option.
const NoDietaryRestriction = "None"

// Event is everything the pages display about one event.
type Event struct {
	Name         string         `yaml:"name"`
	ShortName    string         `yaml:"shortName"`
	Tagline      string         `yaml:"tagline"`
	Highlights   []Highlight    `yaml:"highlights"`
	Details      Details        `yaml:"details"`
	Schedule     []ScheduleItem `yaml:"schedule"`
	ScheduleNote string         `yaml:"scheduleNote"`
	FAQ          []FAQ          `yaml:"faq"`

	// Activities is the closed catalog offered on the RSVP form.
	Activities []string `yaml:"activities"`

	// DietaryOptions starts with NoDietaryRestriction.
	DietaryOptions []string `yaml:"dietaryOptions"`
}

// Highlight is one summary card on the home page.
type Highlight struct {
	Heading string   `yaml:"heading"`
	Lines   []string `yaml:"lines"`
}

// Details is the event information and contact card.
type Details struct {
	Date         string `yaml:"date"`
	Time         string `yaml:"time"`
	Location     string `yaml:"location"`
	Address      string `yaml:"address"`
	ContactEmail string `yaml:"contactEmail"`
	ContactPhone string `yaml:"contactPhone"`
}

// ScheduleItem is one row of the schedule.
type ScheduleItem struct {
	Time     string `yaml:"time"`
	Activity string `yaml:"activity"`
}

// FAQ is a question and its answer.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Title returns ShortName, falling back to Name.
func (e *Event) Title() string {
	if e.ShortName != "" {
		return e.ShortName
	}
	return e.Name
}

// Default returns the embedded event. It panics if the embedded file is
// invalid, which is a build defect.
func Default() *Event {
	ev, err := Parse(defaultEvent)
	if err != nil {
		panic(fmt.Sprintf("content: embedded event: %v", err))
	}
	return ev
}

// DefaultYAML returns the embedded event file.
func DefaultYAML() []byte {
	return bytes.Clone(defaultEvent)
}

// Load reads and validates the event at path. An empty path returns the
// embedded default.
func Load(path string) (*Event, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeContentMissing).
				WithSource(path).
				WithSuggestion("Pass a valid --content path, or omit it to use the built-in event")
		}
		return nil, errors.New(errors.CodeContentParse).WithSource(path).Wrap(err)
	}
	ev, err := Parse(data)
	if err != nil {
		return nil, errors.FromError(err, errors.CodeContentParse).WithSource(path)
	}
	return ev, nil
}

// Parse decodes and validates YAML event content. Unknown keys are rejected.
func Parse(data []byte) (*Event, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, errors.New(errors.CodeContentParse).
			Wrap(err).
			WithSuggestion("Check the YAML syntax and field names")
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Validate checks the event for missing or inconsistent content.
func (e *Event) Validate() error {
	var problems []string

	if strings.TrimSpace(e.Name) == "" {
		problems = append(problems, "name is required")
	}
	if len(e.Schedule) == 0 {
		problems = append(problems, "schedule must have at least one item")
	}
	for i, item := range e.Schedule {
		if item.Time == "" || item.Activity == "" {
			problems = append(problems, fmt.Sprintf("schedule[%d] needs time and activity", i))
		}
	}
	for i, f := range e.FAQ {
		if f.Question == "" || f.Answer == "" {
			problems = append(problems, fmt.Sprintf("faq[%d] needs question and answer", i))
		}
	}

	if len(e.Activities) == 0 {
		problems = append(problems, "activities must not be empty")
	}
	if dup := firstDuplicate(e.Activities); dup != "" {
		problems = append(problems, fmt.Sprintf("activity %q is listed twice", dup))
	}

	switch {
	case len(e.DietaryOptions) == 0:
		problems = append(problems, "dietaryOptions must not be empty")
	case e.DietaryOptions[0] != NoDietaryRestriction:
		problems = append(problems, fmt.Sprintf("dietaryOptions must start with %q", NoDietaryRestriction))
	}
	if dup := firstDuplicate(e.DietaryOptions); dup != "" {
		problems = append(problems, fmt.Sprintf("dietary option %q is listed twice", dup))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.CodeContentInvalid).
		WithDetail(strings.Join(problems, "; "))
}

func firstDuplicate(list []string) string {
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			return s
		}
		seen[s] = struct{}{}
	}
	return ""
}
