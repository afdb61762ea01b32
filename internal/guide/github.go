package guide

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mbenedetti/viaggio/internal/domain"
)

const (
	githubAPIBaseURL = "https://api.github.com"

	// maxGuideFiles bounds how many matching repo files are downloaded
	// per destination.
	maxGuideFiles = 5

	// chunkChars is the raw excerpt size handed to the packer. Larger
	// than the packer's per-source budget so sentence-greedy trimming
	// has material to choose from.
	chunkChars = 800

	guideCacheTTL = time.Hour
)

// GitHubRetriever pulls destination guides from a GitHub repository via
// the contents API. Files are matched by name against the destination
// and results are cached per destination for an hour.
type GitHubRetriever struct {
	repo    string // "owner/name"
	token   string
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
}

// NewGitHubRetriever constructs the retriever for an "owner/name" repo.
// The token is optional and only raises the API rate limit.
func NewGitHubRetriever(repo, token string, timeout time.Duration) *GitHubRetriever {
	return &GitHubRetriever{
		repo:    repo,
		token:   token,
		baseURL: githubAPIBaseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   gocache.New(guideCacheTTL, 10*time.Minute),
	}
}

var _ Retriever = (*GitHubRetriever)(nil)

type repoEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// matchesGuide reports whether a repo file is a guide for the trip: a
// markdown or plain-text file whose name contains one of the lowercased
// name variants (destination, country).
func matchesGuide(name string, variants []string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".md") && !strings.HasSuffix(lower, ".txt") {
		return false
	}
	for _, v := range variants {
		if v != "" && strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// Excerpts returns guide excerpts for the destination, at most
// maxGuideFiles sources chunked to chunkChars each, destination matches
// before country matches. A repository or network failure is wrapped in
// domain.ErrDataSource.
func (g *GitHubRetriever) Excerpts(ctx context.Context, destination, country string, _ []string) ([]domain.GuideExcerpt, error) {
	variants := []string{
		strings.ToLower(strings.TrimSpace(destination)),
		strings.ToLower(strings.TrimSpace(country)),
	}
	key := variants[0] + "|" + variants[1]
	if cached, ok := g.cache.Get(key); ok {
		return cached.([]domain.GuideExcerpt), nil
	}

	entries, err := g.listFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("guide.GitHubRetriever.Excerpts: %w: %w", domain.ErrDataSource, err)
	}

	// destination-named guides rank ahead of country-level ones
	sort.SliceStable(entries, func(i, j int) bool {
		return matchesGuide(entries[i].Name, variants[:1]) && !matchesGuide(entries[j].Name, variants[:1])
	})

	var excerpts []domain.GuideExcerpt
	for _, entry := range entries {
		if len(excerpts) == maxGuideFiles {
			break
		}
		if entry.Type != "file" || entry.DownloadURL == "" || !matchesGuide(entry.Name, variants) {
			continue
		}
		content, err := g.download(ctx, entry.DownloadURL)
		if err != nil {
			// one unreadable file does not fail the whole retrieval
			continue
		}
		excerpts = append(excerpts, domain.GuideExcerpt{
			Source: entry.Name,
			Text:   chunk(content, chunkChars),
		})
	}

	g.cache.Set(key, excerpts, guideCacheTTL)
	return excerpts, nil
}

func (g *GitHubRetriever) listFiles(ctx context.Context) ([]repoEntry, error) {
	var entries []repoEntry
	if err := g.get(ctx, fmt.Sprintf("%s/repos/%s/contents/", g.baseURL, g.repo), func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&entries)
	}); err != nil {
		return nil, err
	}
	return entries, nil
}

func (g *GitHubRetriever) download(ctx context.Context, rawURL string) (string, error) {
	var content string
	err := g.get(ctx, rawURL, func(body io.Reader) error {
		raw, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		content = string(raw)
		return nil
	})
	return content, err
}

func (g *GitHubRetriever) get(ctx context.Context, rawURL string, read func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("github: status %d", resp.StatusCode)
	}
	return read(resp.Body)
}

// chunk returns the leading n runes of s.
func chunk(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
