package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bookoracle/pkg/api"
	"bookoracle/pkg/domain"
)

func (a *App) cmdSearch(ctx context.Context, query string) {
	if query == "" {
		fmt.Fprintln(a.out, "Usage: search <text>")
		return
	}
	books, err := a.client.SearchBooks(ctx, query)
	if err != nil {
		a.fail(err)
		return
	}
	if len(books) == 0 {
		fmt.Fprintln(a.out, "No books found.")
		return
	}
	a.printBooks(books)
}

// parseFilters reads "field=value" pairs. Unknown fields are rejected so a
// typo does not silently return the unfiltered listing.
func parseFilters(args string) (api.ExploreFilters, error) {
	filters := api.ExploreFilters{}
	if args == "" {
		return filters, nil
	}
	for _, pair := range strings.Fields(args) {
		field, value, ok := strings.Cut(pair, "=")
		if !ok {
			return filters, fmt.Errorf("expected field=value, got %q", pair)
		}
		switch field {
		case "author":
			filters.Author = value
		case "isbn":
			filters.ISBN = value
		case "genre":
			filters.Genre = value
		case "year":
			filters.PublishedYear = value
		case "publisher":
			filters.Publisher = value
		case "language":
			filters.Language = value
		default:
			return filters, fmt.Errorf("unknown filter %q", field)
		}
	}
	return filters, nil
}

func (a *App) cmdExplore(ctx context.Context, args string) {
	filters, err := parseFilters(args)
	if err != nil {
		a.fail(err)
		return
	}
	if err := a.explore.Load(ctx, filters); err != nil {
		a.fail(err)
		return
	}
	a.printExplorePage()
}

func (a *App) cmdMore(ctx context.Context) {
	if !a.explore.HasMore() {
		fmt.Fprintln(a.out, "No more results. Run 'explore' to start over.")
		return
	}
	if err := a.explore.LoadMore(ctx); err != nil {
		a.fail(err)
		return
	}
	a.printExplorePage()
}

func (a *App) printExplorePage() {
	items := a.explore.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No books match.")
		return
	}
	a.printBooks(items)
	if a.explore.HasMore() {
		fmt.Fprintf(a.out, "Showing %d of %d. Type 'more' for the next page.\n",
			len(items), a.explore.TotalCount())
	} else {
		fmt.Fprintf(a.out, "All %d results shown.\n", len(items))
	}
}

func (a *App) cmdBook(ctx context.Context, arg string) {
	id, err := parseID(arg, "book")
	if err != nil {
		a.fail(err)
		return
	}
	book, err := a.client.GetBook(ctx, id)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintf(a.out, "%s by %s (%s)\n", book.Title, book.Author, book.PublishDate)
	fmt.Fprintf(a.out, "  Rating %.1f, liked by %.0f%%, %d pages, %s\n",
		book.Rating, book.LikedPercentage, book.PageCount, book.Language)
	if len(book.Genres) > 0 {
		fmt.Fprintf(a.out, "  Genres: %s\n", strings.Join(book.Genres, ", "))
	}
	if book.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", book.Description)
	}
}

func (a *App) cmdSave(ctx context.Context, arg string) {
	id, err := parseID(arg, "book")
	if err != nil {
		a.fail(err)
		return
	}
	result, err := a.saved.ToggleSave(ctx, id)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, result.Message)
	if result.ProfileStale {
		fmt.Fprintln(a.out, "(saved list may display stale until the next refresh)")
	}
}

func (a *App) cmdSaved(ctx context.Context) {
	books, err := a.client.SavedBooks(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	if len(books) == 0 {
		fmt.Fprintln(a.out, "No saved books yet.")
		return
	}
	a.printBooks(books)
}

func (a *App) cmdRecommend(ctx context.Context) {
	books, err := a.client.RecommendedBooks(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	a.printBooks(books)
}

func (a *App) cmdGenres(ctx context.Context) {
	genres, err := a.client.Genres(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	fmt.Fprintln(a.out, strings.Join(names, ", "))
}

func (a *App) cmdPrefer(ctx context.Context, args string) {
	if args == "" {
		fmt.Fprintln(a.out, "Usage: prefer <genre,genre,...>")
		return
	}
	var genres []string
	for _, name := range strings.Split(args, ",") {
		if name = strings.TrimSpace(name); name != "" {
			genres = append(genres, name)
		}
	}
	if err := a.client.UpdateGenrePreferences(ctx, genres); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "Preferences updated.")
}

func (a *App) printBooks(books []domain.Book) {
	for _, book := range books {
		fmt.Fprintf(a.out, "%6d  %-40s  %-24s  %.1f\n",
			book.ID, clip(book.Title, 40), clip(book.Author, 24), book.Rating)
	}
}

func parseID(arg, kind string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a numeric %s id, got %q", kind, arg)
	}
	return id, nil
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
