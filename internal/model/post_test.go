package model

import (
	"encoding/json"
	"testing"
)

func TestSamplePostJSON(t *testing.T) {
	data, err := json.Marshal(SamplePost())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"title":"My first post","body":"This is my first post","published":true}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestGreetingString(t *testing.T) {
	for _, tc := range []struct {
		g    Greeting
		want string
	}{
		{Greeting{Name: "Ann", Age: 30}, "Hello, Ann! You are 30 years old!"},
		{Greeting{}, "Hello, ! You are 0 years old!"},
		{Greeting{Name: "Bob", Age: 255}, "Hello, Bob! You are 255 years old!"},
	} {
		if got := tc.g.String(); got != tc.want {
			t.Errorf("Greeting%+v.String() = %q, want %q", tc.g, got, tc.want)
		}
	}
}
