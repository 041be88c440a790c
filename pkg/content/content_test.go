package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vmtco/funday/internal/errors"
	"github.com/vmtco/funday/pkg/rsvp"
)

func TestDefault(t *testing.T) {
	ev := Default()

	if ev.Name != "VMT Fun Day 2025" {
		t.Errorf("Name = %q", ev.Name)
	}
	if ev.Title() != "VMT Fun Day" {
		t.Errorf("Title() = %q", ev.Title())
	}
	if ev.Details.ContactEmail != "funday@vmtcompany.com" {
		t.Errorf("ContactEmail = %q", ev.Details.ContactEmail)
	}
	if len(ev.Schedule) != 6 {
		t.Errorf("len(Schedule) = %d, want 6", len(ev.Schedule))
	}
	if got := ev.Schedule[0]; got != (ScheduleItem{Time: "14:00 PM", Activity: "Check-in & Welcome Refreshments"}) {
		t.Errorf("Schedule[0] = %+v", got)
	}
	if len(ev.FAQ) != 4 {
		t.Errorf("len(FAQ) = %d, want 4", len(ev.FAQ))
	}
	if len(ev.Highlights) != 3 {
		t.Errorf("len(Highlights) = %d, want 3", len(ev.Highlights))
	}
}

func TestDefault_MatchesFormCatalog(t *testing.T) {
	ev := Default()
	if diff := cmp.Diff(rsvp.DefaultActivities, ev.Activities); diff != "" {
		t.Errorf("Activities (-form +content):\n%s", diff)
	}
	if diff := cmp.Diff(rsvp.DefaultDietaryOptions, ev.DietaryOptions); diff != "" {
		t.Errorf("DietaryOptions (-form +content):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		ev, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if ev.Name != Default().Name {
			t.Errorf("Name = %q", ev.Name)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.yaml")
		data := strings.Replace(string(DefaultYAML()), "VMT Fun Day 2025", "Winter Social", 1)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		ev, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if ev.Name != "Winter Social" {
			t.Errorf("Name = %q, want %q", ev.Name, "Winter Social")
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, errors.CodeContentMissing) {
			t.Errorf("err = %v, want %s", err, errors.CodeContentMissing)
		}
	})

	t.Run("invalid records source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("name: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !errors.Is(err, errors.CodeContentInvalid) {
			t.Fatalf("err = %v, want %s", err, errors.CodeContentInvalid)
		}
		if ae := errors.FromError(err, ""); ae.Source != path {
			t.Errorf("Source = %q, want %q", ae.Source, path)
		}
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		code   string
		detail string
	}{
		{
			name: "syntax",
			yaml: "name: [unterminated",
			code: errors.CodeContentParse,
		},
		{
			name: "unknown field",
			yaml: "name: x\nvenue: somewhere\n",
			code: errors.CodeContentParse,
		},
		{
			name:   "missing name",
			yaml:   "schedule: [{time: '1', activity: a}]\nactivities: [a]\ndietaryOptions: [None]\n",
			code:   errors.CodeContentInvalid,
			detail: "name is required",
		},
		{
			name:   "empty schedule",
			yaml:   "name: x\nactivities: [a]\ndietaryOptions: [None]\n",
			code:   errors.CodeContentInvalid,
			detail: "schedule must have at least one item",
		},
		{
			name:   "duplicate activity",
			yaml:   "name: x\nschedule: [{time: '1', activity: a}]\nactivities: [a, b, a]\ndietaryOptions: [None]\n",
			code:   errors.CodeContentInvalid,
			detail: `activity "a" is listed twice`,
		},
		{
			name:   "dietary default not first",
			yaml:   "name: x\nschedule: [{time: '1', activity: a}]\nactivities: [a]\ndietaryOptions: [Vegan, None]\n",
			code:   errors.CodeContentInvalid,
			detail: `dietaryOptions must start with "None"`,
		},
		{
			name:   "incomplete faq",
			yaml:   "name: x\nschedule: [{time: '1', activity: a}]\nfaq: [{question: why}]\nactivities: [a]\ndietaryOptions: [None]\n",
			code:   errors.CodeContentInvalid,
			detail: "faq[0] needs question and answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if tt.detail != "" && !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("err = %q, want it to mention %q", err.Error(), tt.detail)
			}
		})
	}
}
