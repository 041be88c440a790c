package urlparam

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringParam(t *testing.T) {
	name := String("name", "Friend")

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"absent", "", "Friend"},
		{"empty", "name=", "Friend"},
		{"present", "name=Jane", "Jane"},
		{"escaped", "name=Jane+Doe", "Jane Doe"},
		{"percent escaped", "name=Zo%C3%AB%20%26%20co", "Zoë & co"},
		{"whitespace kept", "name=%20", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if got := name.From(values); got != tt.want {
				t.Errorf("From(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestStringsParam(t *testing.T) {
	activities := Strings("activities")

	tests := []struct {
		name   string
		values url.Values
		want   []string
	}{
		{"absent", url.Values{}, nil},
		{"single empty", url.Values{"activities": {""}}, nil},
		{"all empty", url.Values{"activities": {"", ""}}, nil},
		{"repeated", url.Values{"activities": {"Volleyball", "", "Swimming"}}, []string{"Volleyball", "Swimming"}},
		{"order kept", url.Values{"activities": {"Swimming", "Volleyball"}}, []string{"Swimming", "Volleyball"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, activities.From(tt.values)); diff != "" {
				t.Errorf("From() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	name := String("name", "Friend")

	tests := []struct {
		name  string
		pairs []Pair
		want  string
	}{
		{"no params", nil, "/confirmation"},
		{"simple", []Pair{name.With("Jane")}, "/confirmation?name=Jane"},
		{"space", []Pair{name.With("Jane Doe")}, "/confirmation?name=Jane+Doe"},
		{"reserved", []Pair{name.With("A&B=C?")}, "/confirmation?name=A%26B%3DC%3F"},
		{"sorted", []Pair{String("x", "").With("2"), name.With("x")}, "/confirmation?name=x&x=2"},
		{"repeated", []Pair{Strings("tag").With([]string{"a", "b"})}, "/confirmation?tag=a&tag=b"},
		{"empty slice dropped", []Pair{Strings("tag").With(nil)}, "/confirmation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build("/confirmation", tt.pairs...); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildRoundTrip(t *testing.T) {
	name := String("name", "Friend")
	for _, in := range []string{"Jane", "Jane Doe", "Zoë", "a+b", "100%", "<script>"} {
		u, err := url.Parse(Build("/confirmation", name.With(in)))
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := name.From(u.Query()); got != in {
			t.Errorf("round trip %q -> %q", in, got)
		}
	}
}
