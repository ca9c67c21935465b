package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v66/github"

	"github.com/hupe1980/modelkeep/core"
)

// Interface compliance (compile-time assertions)
var _ core.Uploader = (*Uploader)(nil)

func notFoundErr() error {
	return &github.ErrorResponse{Response: &http.Response{StatusCode: http.StatusNotFound}}
}

// fakeRepositories scripts the contents API without a network. Files live in
// a map keyed by path; blob SHAs are synthesized per write so the update
// handshake can be asserted.
type fakeRepositories struct {
	repoExists bool
	files      map[string][]byte
	shas       map[string]string

	writeErr    error
	createdRepo *github.Repository
	lastMessage string
	lastBranch  string
	lastSHA     string
	createCalls int
	updateCalls int
}

func newFakeRepositories(repoExists bool) *fakeRepositories {
	return &fakeRepositories{
		repoExists: repoExists,
		files:      make(map[string][]byte),
		shas:       make(map[string]string),
	}
}

func (f *fakeRepositories) Get(_ context.Context, _, _ string) (*github.Repository, *github.Response, error) {
	if !f.repoExists {
		return nil, nil, notFoundErr()
	}
	return &github.Repository{}, nil, nil
}

func (f *fakeRepositories) Create(_ context.Context, _ string, repo *github.Repository) (*github.Repository, *github.Response, error) {
	f.createdRepo = repo
	f.repoExists = true
	return repo, nil, nil
}

func (f *fakeRepositories) GetContents(_ context.Context, _, _, path string, _ *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	if !f.repoExists {
		return nil, nil, nil, notFoundErr()
	}
	sha, ok := f.shas[path]
	if !ok {
		return nil, nil, nil, notFoundErr()
	}
	return &github.RepositoryContent{SHA: github.String(sha)}, nil, nil, nil
}

func (f *fakeRepositories) CreateFile(_ context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	f.createCalls++
	return f.write(owner, repo, path, opts)
}

func (f *fakeRepositories) UpdateFile(_ context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	f.updateCalls++
	f.lastSHA = opts.GetSHA()
	return f.write(owner, repo, path, opts)
}

func (f *fakeRepositories) write(owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	if f.writeErr != nil {
		return nil, nil, f.writeErr
	}
	f.lastMessage = opts.GetMessage()
	f.lastBranch = opts.GetBranch()
	f.files[path] = opts.Content
	f.shas[path] = fmt.Sprintf("sha-%d", f.createCalls+f.updateCalls)
	html := fmt.Sprintf("https://github.com/%s/%s/blob/main/%s", owner, repo, path)
	return &github.RepositoryContentResponse{
		Content: &github.RepositoryContent{HTMLURL: github.String(html)},
	}, nil, nil
}

func newTestUploader(t *testing.T, fake *fakeRepositories, optFns ...func(o *Options)) *Uploader {
	t.Helper()
	u, err := New("hupe/model-weights", optFns...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	u.clientFn = func(core.Credential) (repositoriesAPI, error) { return fake, nil }
	return u
}

func TestNew_ValidatesRepoID(t *testing.T) {
	for _, repoID := range []string{"", "noslash", "owner/", "/name", "a/b/c"} {
		_, err := New(repoID)
		var cfgErr *core.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("repoID %q: expected *core.ConfigError, got %v", repoID, err)
		}
		if cfgErr.Field != "repo" {
			t.Fatalf("repoID %q: field = %q", repoID, cfgErr.Field)
		}
	}
	if _, err := New("owner/name"); err != nil {
		t.Fatalf("valid repo id rejected: %v", err)
	}
}

func TestUploader_CreateThenUpdate(t *testing.T) {
	fake := newFakeRepositories(true)
	u := newTestUploader(t, fake)

	res, err := u.Upload(context.Background(), []byte("v1"), "net-0.pt", "tok")
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if res.URL != "https://github.com/hupe/model-weights/blob/main/net-0.pt" {
		t.Fatalf("url = %q", res.URL)
	}
	if fake.createCalls != 1 || fake.updateCalls != 0 {
		t.Fatalf("calls = %d create / %d update", fake.createCalls, fake.updateCalls)
	}
	if fake.lastMessage != "upload checkpoint net-0.pt" {
		t.Fatalf("commit message = %q", fake.lastMessage)
	}

	if _, err := u.Upload(context.Background(), []byte("v2"), "net-0.pt", "tok"); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if fake.updateCalls != 1 {
		t.Fatalf("expected update path on existing file, got %d updates", fake.updateCalls)
	}
	if fake.lastSHA != "sha-1" { // blob SHA from the first write
		t.Fatalf("update sha = %q", fake.lastSHA)
	}
	if string(fake.files["net-0.pt"]) != "v2" {
		t.Fatalf("stored = %q", fake.files["net-0.pt"])
	}
}

func TestUploader_MissingRepoWithoutAutoCreate(t *testing.T) {
	fake := newFakeRepositories(false)
	u := newTestUploader(t, fake)

	_, err := u.Upload(context.Background(), []byte("v1"), "net-0.pt", "tok")
	var upErr *core.UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *core.UploadError, got %T: %v", err, err)
	}
	if !errors.Is(err, core.ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound in chain, got %v", err)
	}
	if fake.createdRepo != nil {
		t.Fatal("repository must not be created")
	}
}

func TestUploader_AutoCreateRepo(t *testing.T) {
	fake := newFakeRepositories(false)
	u := newTestUploader(t, fake, func(o *Options) {
		o.AutoCreateRepo = true
		o.PrivateRepo = true
	})

	res, err := u.Upload(context.Background(), []byte("v1"), "net-0.pt", "tok")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.URL == "" {
		t.Fatal("expected url")
	}
	if fake.createdRepo == nil {
		t.Fatal("expected repository creation")
	}
	if got := fake.createdRepo.GetName(); got != "model-weights" {
		t.Fatalf("created repo name = %q", got)
	}
	if !fake.createdRepo.GetPrivate() {
		t.Fatal("expected private repository")
	}
	if fake.createCalls != 1 {
		t.Fatalf("createFile calls = %d", fake.createCalls)
	}
}

func TestUploader_BranchAndMessageOptions(t *testing.T) {
	fake := newFakeRepositories(true)
	u := newTestUploader(t, fake, func(o *Options) {
		o.Branch = "checkpoints"
		o.CommitMessage = "nightly snapshot"
	})

	if _, err := u.Upload(context.Background(), []byte("v1"), "net-0.pt", "tok"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if fake.lastBranch != "checkpoints" {
		t.Fatalf("branch = %q", fake.lastBranch)
	}
	if fake.lastMessage != "nightly snapshot" {
		t.Fatalf("message = %q", fake.lastMessage)
	}
}

func TestUploader_WriteFailure(t *testing.T) {
	fake := newFakeRepositories(true)
	fake.writeErr = errors.New("422 conflict")
	u := newTestUploader(t, fake)

	_, err := u.Upload(context.Background(), []byte("v1"), "net-0.pt", "tok")
	var upErr *core.UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *core.UploadError, got %T: %v", err, err)
	}
	if upErr.Dest != "net-0.pt" {
		t.Fatalf("dest = %q", upErr.Dest)
	}
}

func TestUploader_CredentialReachesClientFactory(t *testing.T) {
	fake := newFakeRepositories(true)
	u := newTestUploader(t, fake)

	var seen core.Credential
	u.clientFn = func(cred core.Credential) (repositoriesAPI, error) {
		seen = cred
		return fake, nil
	}

	if _, err := u.Upload(context.Background(), []byte("v1"), "net-0.pt", "hf_token"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if seen != "hf_token" {
		t.Fatalf("credential = %q", seen)
	}
}
