package seed

// ShelvesConfig is the top-level structure of a seed file.
// Shelf names are dynamic keys, as are book titles:
//
//	- Science Fiction:
//	    - Dune:
//	        author: Frank Herbert
//	        pages: 412
type ShelvesConfig []map[string][]map[string]BookProps

// BookProps holds the properties of one seeded book.
type BookProps struct {
	Author   string `yaml:"author"`
	Pages    int    `yaml:"pages"`
	Cover    string `yaml:"cover,omitempty"`
	Status   string `yaml:"status,omitempty"`   // reading | later
	Priority string `yaml:"priority,omitempty"` // high | medium | low | none
}
