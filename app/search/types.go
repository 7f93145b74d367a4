package search

// Hit is one organic result returned by the search provider.
type Hit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Result is a search hit enriched with the fields extracted from its page.
type Result struct {
	Title            string `json:"title"`
	Link             string `json:"link"`
	Snippet          string `json:"snippet"`
	AuthorName       string `json:"authorName"`
	AuthorAvatar     string `json:"authorAvatar"`
	AuthorProfileURL string `json:"authorProfileUrl"`
	Content          string `json:"content"`
	RelativeDate     string `json:"relativeDate"`
	ImageURL         string `json:"imageUrl"`
	Likes            int    `json:"likes"`
	Comments         int    `json:"comments"`
}

// Page is one page of enriched results. Failed marks a page that says nothing
// about what lies beyond it: the provider query failed, or the request was
// cancelled mid-enrichment.
type Page struct {
	Results []Result `json:"results"`
	HasMore bool     `json:"hasMore"`
	Failed  bool     `json:"-"`
}

func emptyPage() Page {
	return Page{Results: []Result{}}
}

func failedPage() Page {
	return Page{Results: []Result{}, Failed: true}
}
