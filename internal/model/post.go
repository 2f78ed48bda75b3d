package model

import "fmt"

// BlogPost is a single row of the blog_posts table.
// The ID is supplied by the caller on insert; the store does not generate it.
type BlogPost struct {
	ID        int32  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

// SamplePost returns the fixed post served by GET /blog-posts/random.
func SamplePost() BlogPost {
	return BlogPost{
		ID:        1,
		Title:     "My first post",
		Body:      "This is my first post",
		Published: true,
	}
}

// Greeting is the name/age pair served by GET /config.
type Greeting struct {
	Name string `toml:"name" json:"name"`
	Age  uint8  `toml:"age" json:"age"`
}

// String formats the greeting sentence.
func (g Greeting) String() string {
	return fmt.Sprintf("Hello, %s! You are %d years old!", g.Name, g.Age)
}
