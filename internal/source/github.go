package source

import (
	"context"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/go-github/v69/github"
)

const requestTimeout = 30 * time.Second

// GitHubRef identifies a repository subtree to read templates from.
type GitHubRef struct {
	Owner   string
	Repo    string
	Ref     string // branch, tag, or commit SHA
	Subpath string // optional subdirectory within the repo
}

var githubURLPattern = regexp.MustCompile(`^github://([^/]+)/([^/@]+)(?:@([^/]+))?(?:/(.*))?$`)

// ParseGitHubURL parses a github://owner/repo[@ref][/subpath] location.
// The ref defaults to "main" when omitted.
func ParseGitHubURL(url string) (GitHubRef, error) {
	m := githubURLPattern.FindStringSubmatch(url)
	if m == nil {
		return GitHubRef{}, fmt.Errorf("invalid GitHub URL %q (expected github://owner/repo[@ref][/subpath])", url)
	}
	ref := m[3]
	if ref == "" {
		ref = "main"
	}
	return GitHubRef{Owner: m[1], Repo: m[2], Ref: ref, Subpath: m[4]}, nil
}

// GitHub is a read-only Source backed by the GitHub contents API. Fetched
// files and directory listings are cached for the life of the process.
type GitHub struct {
	ref    GitHubRef
	client *github.Client

	mu    sync.Mutex
	files map[string]string   // path -> content
	dirs  map[string][]string // dir -> entry names
}

// NewGitHub returns a Source for the given repository subtree. A GITHUB_TOKEN
// environment variable, when set, is used for authenticated requests.
func NewGitHub(ref GitHubRef) *GitHub {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHub{
		ref:    ref,
		client: client,
		files:  make(map[string]string),
		dirs:   make(map[string][]string),
	}
}

func (g *GitHub) fullPath(p string) string {
	if g.ref.Subpath == "" {
		return p
	}
	return path.Join(g.ref.Subpath, p)
}

func (g *GitHub) Exists(p string) bool {
	if _, err := g.ReadFile(p); err == nil {
		return true
	}
	_, err := g.list(p)
	return err == nil
}

func (g *GitHub) ReadFile(p string) (string, error) {
	g.mu.Lock()
	if content, ok := g.files[p]; ok {
		g.mu.Unlock()
		return content, nil
	}
	g.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	opts := &github.RepositoryContentGetOptions{Ref: g.ref.Ref}
	file, _, _, err := g.client.Repositories.GetContents(ctx, g.ref.Owner, g.ref.Repo, g.fullPath(p), opts)
	if err != nil {
		return "", fmt.Errorf("fetching %s from %s/%s@%s: %w", p, g.ref.Owner, g.ref.Repo, g.ref.Ref, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory in %s/%s", p, g.ref.Owner, g.ref.Repo)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", p, err)
	}

	g.mu.Lock()
	g.files[p] = content
	g.mu.Unlock()
	return content, nil
}

func (g *GitHub) Glob(dir, pattern string) ([]string, error) {
	entries, err := g.list(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range entries {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("globbing %s/%s: %w", dir, pattern, err)
		}
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (g *GitHub) list(dir string) ([]string, error) {
	g.mu.Lock()
	if entries, ok := g.dirs[dir]; ok {
		g.mu.Unlock()
		return entries, nil
	}
	g.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	opts := &github.RepositoryContentGetOptions{Ref: g.ref.Ref}
	_, listing, _, err := g.client.Repositories.GetContents(ctx, g.ref.Owner, g.ref.Repo, g.fullPath(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("listing %s in %s/%s@%s: %w", dir, g.ref.Owner, g.ref.Repo, g.ref.Ref, err)
	}
	if listing == nil {
		return nil, fmt.Errorf("%s is not a directory in %s/%s", dir, g.ref.Owner, g.ref.Repo)
	}

	entries := make([]string, 0, len(listing))
	for _, item := range listing {
		if item.GetType() == "file" {
			entries = append(entries, item.GetName())
		}
	}

	g.mu.Lock()
	g.dirs[dir] = entries
	g.mu.Unlock()
	return entries, nil
}
