package domain

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is the profile shape returned by users/me/.
type User struct {
	ID                int64   `json:"id"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	IsAdmin           bool    `json:"is_admin"`
	FavoriteGenres    []Genre `json:"favorite_genres"`
	PreferredLanguage string  `json:"preferred_language"`
	SavedBooks        []int64 `json:"saved_books"`
	CreatedAt         string  `json:"created_at,omitempty"`
	UpdatedAt         string  `json:"updated_at,omitempty"`
}

// HasSaved reports membership of id in the saved-book set.
func (u User) HasSaved(id int64) bool {
	for _, saved := range u.SavedBooks {
		if saved == id {
			return true
		}
	}
	return false
}

type Book struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            string   `json:"isbn"`
	Description     string   `json:"description"`
	CoverImage      string   `json:"cover_image"`
	PublishDate     string   `json:"publish_date"`
	Rating          float64  `json:"rating"`
	LikedPercentage float64  `json:"liked_percentage"`
	Genres          []string `json:"genres"`
	Language        string   `json:"language"`
	PageCount       int      `json:"page_count"`
	Publisher       string   `json:"publisher"`
	BuyNowURL       string   `json:"buy_now_url,omitempty"`
	PreviewURL      string   `json:"preview_url,omitempty"`
	DownloadURL     string   `json:"download_url,omitempty"`
}

// ExplorePage is one page of the paginated explore listing.
type ExplorePage struct {
	Books      []Book `json:"books"`
	HasMore    bool   `json:"has_more"`
	TotalCount int    `json:"total_count"`
}

type DashboardStats struct {
	TotalBooks        int      `json:"total_books"`
	TotalUsers        int      `json:"total_users"`
	MostPopularGenres []string `json:"most_popular_genres"`
	RecentSearches    []string `json:"recent_searches"`
	TopRatedBooks     []Book   `json:"top_rated_books"`
}

// FilterOptions lists the distinct values offered by the explore filters.
type FilterOptions struct {
	Authors    []string `json:"authors"`
	Genres     []string `json:"genres"`
	Publishers []string `json:"publishers"`
	Languages  []string `json:"languages"`
	Years      []string `json:"published_years"`
}
