// Package github provides a core.Uploader backed by the GitHub contents API.
//
// Each upload becomes a commit that creates or updates a single file in a
// repository, so a checkpoint series is browsable (and diffable) like any
// other repository content. The returned URL is the web view of the uploaded
// file. Works against github.com and GitHub Enterprise installations.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/hupe1980/modelkeep/core"
)

// repositoriesAPI is the narrow slice of *github.RepositoriesService the
// uploader needs. Kept small so tests can fake it without a network.
type repositoriesAPI interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	Create(ctx context.Context, org string, repo *github.Repository) (*github.Repository, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

var _ repositoriesAPI = (*github.RepositoriesService)(nil)

// Options configures the GitHub uploader.
type Options struct {
	// Branch is the target branch. Empty means the repository default.
	Branch string

	// CommitMessage overrides the generated per-upload commit message.
	CommitMessage string

	// AutoCreateRepo creates the repository on first upload when it does not
	// exist yet. The repository is created under the account owning the
	// credential, so the owner segment of the repo id must match that
	// account. Default false: a missing repository fails the upload with
	// core.ErrContainerNotFound in the error chain.
	AutoCreateRepo bool

	// PrivateRepo marks an auto-created repository private.
	PrivateRepo bool

	// BaseURL points the client at a GitHub Enterprise installation,
	// e.g. "https://github.example.com/api/v3/". Empty means github.com.
	BaseURL string

	// HTTPClient overrides the transport, e.g. for custom proxies or
	// recorded tests.
	HTTPClient *http.Client
}

// Uploader implements core.Uploader on top of the GitHub contents API.
//
// The credential passed per Upload call is a personal access or installation
// token; an empty credential yields an anonymous client, which can read
// public repositories but cannot commit.
type Uploader struct {
	owner string
	repo  string
	opts  Options

	// clientFn builds the API surface for one call. Swapped in tests.
	clientFn func(cred core.Credential) (repositoriesAPI, error)
}

// New returns an uploader committing into the given repository. The repo id
// must have the form "owner/name".
func New(repoID string, optFns ...func(o *Options)) (*Uploader, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	parts := strings.Split(repoID, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, core.NewConfigError("repo", fmt.Sprintf("invalid repo id %q, want \"owner/name\"", repoID))
	}

	if opts.BaseURL != "" {
		if _, err := github.NewClient(nil).WithEnterpriseURLs(opts.BaseURL, opts.BaseURL); err != nil {
			return nil, core.NewConfigError("base_url", err.Error())
		}
	}

	u := &Uploader{owner: parts[0], repo: parts[1], opts: opts}
	u.clientFn = u.newRepositories

	return u, nil
}

func (u *Uploader) newRepositories(cred core.Credential) (repositoriesAPI, error) {
	client := github.NewClient(u.opts.HTTPClient)

	if u.opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(u.opts.BaseURL, u.opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("enterprise urls: %w", err)
		}
	}

	if !cred.Empty() {
		client = client.WithAuthToken(string(cred))
	}

	return client.Repositories, nil
}

// Upload commits the payload to the configured repository under dest,
// creating the file on first upload and updating it (blob SHA handshake)
// on later ones. It returns the web URL of the committed file.
func (u *Uploader) Upload(ctx context.Context, payload []byte, dest string, cred core.Credential) (core.UploadResult, error) {
	api, err := u.clientFn(cred)
	if err != nil {
		return core.UploadResult{}, core.NewUploadError(dest, err)
	}

	content, _, _, err := api.GetContents(ctx, u.owner, u.repo, dest, u.getOptions())
	switch {
	case err == nil && content != nil:
		resp, err := u.writeFile(ctx, api, dest, payload, content.GetSHA())
		return u.finish(dest, resp, err)
	case isNotFound(err):
		// Either the file or the whole repository is missing; only the
		// repository lookup can tell which.
		if _, _, repoErr := api.Get(ctx, u.owner, u.repo); repoErr != nil {
			if !isNotFound(repoErr) {
				return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("get repository: %w", repoErr))
			}
			if !u.opts.AutoCreateRepo {
				return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("repository %s/%s: %w", u.owner, u.repo, core.ErrContainerNotFound))
			}
			if err := u.createRepo(ctx, api); err != nil {
				return core.UploadResult{}, core.NewUploadError(dest, err)
			}
		}
		resp, werr := u.writeFile(ctx, api, dest, payload, "")
		return u.finish(dest, resp, werr)
	case err != nil:
		return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("get contents: %w", err))
	default:
		// GetContents resolved dest to a directory listing.
		return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("path %q is a directory", dest))
	}
}

func (u *Uploader) createRepo(ctx context.Context, api repositoriesAPI) error {
	repo := &github.Repository{
		Name:    github.String(u.repo),
		Private: github.Bool(u.opts.PrivateRepo),
	}
	if _, _, err := api.Create(ctx, "", repo); err != nil {
		return fmt.Errorf("create repository: %w", err)
	}
	return nil
}

// writeFile performs the actual commit. A non-empty sha updates the existing
// blob; an empty sha creates the file.
func (u *Uploader) writeFile(ctx context.Context, api repositoriesAPI, dest string, payload []byte, sha string) (*github.RepositoryContentResponse, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(u.commitMessage(dest)),
		Content: payload,
	}
	if u.opts.Branch != "" {
		opts.Branch = github.String(u.opts.Branch)
	}

	if sha != "" {
		opts.SHA = github.String(sha)
		resp, _, err := api.UpdateFile(ctx, u.owner, u.repo, dest, opts)
		if err != nil {
			return nil, fmt.Errorf("update file: %w", err)
		}
		return resp, nil
	}

	resp, _, err := api.CreateFile(ctx, u.owner, u.repo, dest, opts)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return resp, nil
}

func (u *Uploader) finish(dest string, resp *github.RepositoryContentResponse, err error) (core.UploadResult, error) {
	if err != nil {
		return core.UploadResult{}, core.NewUploadError(dest, err)
	}

	url := resp.Content.GetHTMLURL()
	if url == "" {
		url = resp.Content.GetDownloadURL()
	}
	return core.UploadResult{URL: url}, nil
}

func (u *Uploader) getOptions() *github.RepositoryContentGetOptions {
	if u.opts.Branch == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: u.opts.Branch}
}

func (u *Uploader) commitMessage(dest string) string {
	if u.opts.CommitMessage != "" {
		return u.opts.CommitMessage
	}
	return fmt.Sprintf("upload checkpoint %s", dest)
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
