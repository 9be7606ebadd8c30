package seed

// File is the top-level structure of a seed file: a list of groups, each
// keyed by the category id its prompts are filed under.
//
//	- code:
//	    - title: Refactor
//	      content: Refactor this function for readability.
//	- photo:
//	    - title: Product shot
//	      content: Studio photo of the product on white.
//	      favorite: true
type File []map[string][]Entry

// Entry is one starter prompt.
type Entry struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	URL      string `yaml:"url,omitempty"`
	Favorite bool   `yaml:"favorite,omitempty"`
}
