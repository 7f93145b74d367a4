package parser

// UnknownAuthor is used when no author name can be recovered from a page.
const UnknownAuthor = "Unknown"

// Post holds the fields recovered from one public post page.
type Post struct {
	AuthorName       string
	AuthorAvatar     string
	AuthorProfileURL string
	Content          string
	RelativeDate     string
	ImageURL         string
	Likes            int
	Comments         int
}

type Field string

const (
	FieldAuthorName       Field = "author_name"
	FieldAuthorAvatar     Field = "author_avatar"
	FieldAuthorProfileURL Field = "author_profile_url"
	FieldContent          Field = "content"
	FieldRelativeDate     Field = "relative_date"
	FieldImageURL         Field = "image_url"
	FieldLikes            Field = "likes"
	FieldComments         Field = "comments"
)

// Extraction is the outcome of parsing one page. Recovered lists the fields
// found in the markup; every other field carries its default.
type Extraction struct {
	Post      Post
	Recovered map[Field]bool
}

func (e Extraction) Defaulted() []Field {
	var defaulted []Field
	for _, r := range rules {
		if !e.Recovered[r.field] {
			defaulted = append(defaulted, r.field)
		}
	}
	return defaulted
}

func defaultPost() Post {
	return Post{AuthorName: UnknownAuthor}
}
