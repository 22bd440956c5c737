package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (a *App) cmdDashboard(ctx context.Context) {
	stats, err := a.client.DashboardStats(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintf(a.out, "Books: %d  Users: %d\n", stats.TotalBooks, stats.TotalUsers)
	if len(stats.MostPopularGenres) > 0 {
		fmt.Fprintf(a.out, "Popular genres: %s\n", strings.Join(stats.MostPopularGenres, ", "))
	}
	if len(stats.RecentSearches) > 0 {
		fmt.Fprintf(a.out, "Recent searches: %s\n", strings.Join(stats.RecentSearches, ", "))
	}
	if len(stats.TopRatedBooks) > 0 {
		fmt.Fprintln(a.out, "Top rated:")
		a.printBooks(stats.TopRatedBooks)
	}
}

func (a *App) cmdAdmin(ctx context.Context, args string) {
	sub, rest, _ := strings.Cut(args, " ")
	rest = strings.TrimSpace(rest)

	switch sub {
	case "users":
		a.cmdAdminUsers(ctx)
	case "rmuser":
		a.cmdAdminDeleteUser(ctx, rest)
	case "books":
		a.cmdAdminBooks(ctx, rest)
	case "addbook":
		a.cmdAdminAddBook(ctx)
	case "editbook":
		a.cmdAdminEditBook(ctx, rest)
	case "rmbook":
		a.cmdAdminDeleteBook(ctx, rest)
	case "addgenre":
		a.cmdAdminAddGenres(ctx, rest)
	case "import":
		a.cmdAdminImport(ctx, rest)
	default:
		fmt.Fprintln(a.out, "Usage: admin users|rmuser|books|addbook|editbook|rmbook|addgenre|import")
	}
}

func (a *App) cmdAdminUsers(ctx context.Context) {
	users, err := a.client.AdminUsers(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	for _, user := range users {
		role := "reader"
		if user.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(a.out, "%6d  %-32s  %s\n", user.ID, user.Email, role)
	}
}

func (a *App) cmdAdminDeleteUser(ctx context.Context, arg string) {
	id, err := parseID(arg, "user")
	if err != nil {
		a.fail(err)
		return
	}
	if err := a.client.AdminDeleteUser(ctx, id); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "User deleted.")
}

func (a *App) cmdAdminBooks(ctx context.Context, query string) {
	page, err := a.client.AdminBooks(ctx, query, 0, 25)
	if err != nil {
		a.fail(err)
		return
	}
	a.printBooks(page.Books)
	if page.HasMore {
		fmt.Fprintf(a.out, "Showing %d of %d; refine the query to narrow.\n",
			len(page.Books), page.TotalCount)
	}
}

// bookFields gathers catalog fields interactively. Empty answers are
// omitted so edits only touch what the operator typed.
func (a *App) bookFields() map[string]any {
	fields := make(map[string]any)
	ask := func(key, label string) {
		if value := a.prompt(label); value != "" {
			fields[key] = value
		}
	}
	ask("title", "Title: ")
	ask("author", "Author: ")
	ask("isbn", "ISBN: ")
	ask("description", "Description: ")
	ask("genres", "Genres (comma separated): ")
	ask("publish_date", "Publish date (YYYY-MM-DD): ")
	ask("publisher", "Publisher: ")
	ask("language", "Language: ")
	ask("cover_image", "Cover image URL: ")
	ask("buyNowUrl", "Buy-now URL: ")
	ask("previewUrl", "Preview URL: ")
	ask("downloadUrl", "Download URL: ")
	if raw, ok := fields["genres"].(string); ok {
		var genres []string
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				genres = append(genres, name)
			}
		}
		fields["genres"] = genres
	}
	return fields
}

func (a *App) cmdAdminAddBook(ctx context.Context) {
	book, err := a.client.AdminAddBook(ctx, a.bookFields())
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintf(a.out, "Added book %d: %s\n", book.ID, book.Title)
}

func (a *App) cmdAdminEditBook(ctx context.Context, arg string) {
	id, err := parseID(arg, "book")
	if err != nil {
		a.fail(err)
		return
	}
	if err := a.client.AdminEditBook(ctx, id, a.bookFields()); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "Book updated.")
}

func (a *App) cmdAdminDeleteBook(ctx context.Context, arg string) {
	id, err := parseID(arg, "book")
	if err != nil {
		a.fail(err)
		return
	}
	if err := a.client.AdminDeleteBook(ctx, id); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "Book deleted.")
}

func (a *App) cmdAdminAddGenres(ctx context.Context, args string) {
	var names []string
	for _, name := range strings.Split(args, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		fmt.Fprintln(a.out, "Usage: admin addgenre <name,name,...>")
		return
	}
	if err := a.client.AdminAddGenres(ctx, names); err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, "Genres added.")
}

func (a *App) cmdAdminImport(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(a.out, "Usage: admin import <file.csv>")
		return
	}
	file, err := os.Open(path)
	if err != nil {
		a.fail(err)
		return
	}
	defer file.Close()
	message, err := a.client.ImportBooksCSV(ctx, filepath.Base(path), file)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Fprintln(a.out, message)
}
