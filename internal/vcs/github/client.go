package github

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/google/go-github/github"
	domainErrors "github.com/thomas-vilte/diffmate/internal/errors"
	"github.com/thomas-vilte/diffmate/internal/logger"
	"golang.org/x/oauth2"
)

type PullRequestsService interface {
	GetRaw(ctx context.Context, owner, repo string, number int, opts github.RawOptions) (string, *github.Response, error)
}

// PRRef points at a single pull request.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

func (r PRRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

var (
	shortRefPattern = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
	urlRefPattern   = regexp.MustCompile(`^https?://github\.com/([\w.-]+)/([\w.-]+)/pull/(\d+)/?$`)
)

// ParsePRRef accepts owner/repo#123 or a github.com pull request URL.
func ParsePRRef(s string) (PRRef, error) {
	m := shortRefPattern.FindStringSubmatch(s)
	if m == nil {
		m = urlRefPattern.FindStringSubmatch(s)
	}
	if m == nil {
		return PRRef{}, domainErrors.ErrInvalidPRRef.WithContext("ref", s)
	}

	number, err := strconv.Atoi(m[3])
	if err != nil || number <= 0 {
		return PRRef{}, domainErrors.ErrInvalidPRRef.WithContext("ref", s).WithError(err)
	}

	return PRRef{Owner: m[1], Repo: m[2], Number: number}, nil
}

type GitHubClient struct {
	prService PullRequestsService
}

// NewGitHubClient authenticates with token when given, anonymously otherwise.
func NewGitHubClient(token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubClient{
		prService: client.PullRequests,
	}
}

func NewGitHubClientWithServices(prService PullRequestsService) *GitHubClient {
	return &GitHubClient{prService: prService}
}

// GetPRDiff downloads the unified diff of the pull request.
func (ghc *GitHubClient) GetPRDiff(ctx context.Context, ref PRRef) (string, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching pull request diff", "pr", ref.String())

	diff, resp, err := ghc.prService.GetRaw(ctx, ref.Owner, ref.Repo, ref.Number, github.RawOptions{Type: github.Diff})
	if err != nil {
		appErr := domainErrors.ErrPRDiff.WithContext("pr", ref.String()).WithError(err)
		if resp != nil {
			appErr = appErr.WithContext("status", resp.StatusCode)
		}
		return "", appErr
	}

	log.Debug("fetched pull request diff", "pr", ref.String(), "size", len(diff))
	return diff, nil
}
