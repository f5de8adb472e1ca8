// Package apiaudit reports, for every release branch of a RIOT repository,
// the last commit that touched each of the core API headers.
package apiaudit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// DefaultBranches are the release branches audited by default
	DefaultBranches = []string{
		"origin/2015.09-branch",
		"origin/2015.12-branch",
		"origin/2016.04-branch",
		"origin/2016.07-branch",
		"origin/2016.10-branch",
		"origin/2017.01-branch",
		"origin/2017.04-branch",
		"origin/2017.07-branch",
		"origin/2017.10-branch",
		"origin/2018.01-branch",
		"origin/2018.04-branch",
		"origin/2018.07-branch",
		"origin/master",
	}

	// DefaultHeaders are the API headers audited by default
	DefaultHeaders = []string{
		"core/include/irq.h",
		"core/include/kernel_defines.h",
		"core/include/kernel_init.h",
		"core/include/kernel_types.h",
		"core/include/mbox.h",
		"core/include/mutex.h",
		"core/include/msg.h",
		"core/include/thread.h",
		"drivers/include/net/netdev.h",
		"drivers/include/periph/gpio.h",
	}
)

// WithBranches overrides the audited branches.
func WithBranches(branches []string) func(*Auditor) {
	return func(a *Auditor) {
		a.branches = branches
	}
}

// WithHeaders overrides the audited headers.
func WithHeaders(headers []string) func(*Auditor) {
	return func(a *Auditor) {
		a.headers = headers
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) func(*Auditor) {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// Auditor looks up header history in a git repository.
type Auditor struct {
	repo *git.Repository

	branches []string
	headers  []string
	logger   *slog.Logger
}

// Open opens the repository containing path.
func Open(path string, options ...func(*Auditor)) (*Auditor, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	return New(repo, options...), nil
}

// New creates an Auditor over an already opened repository.
func New(repo *git.Repository, options ...func(*Auditor)) *Auditor {
	a := Auditor{
		repo:     repo,
		branches: DefaultBranches,
		headers:  DefaultHeaders,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&a)
	}
	return &a
}

// LastCommit returns the newest commit reachable from branch that changed
// header. found is false when no such commit exists. An error is returned
// when branch cannot be resolved or the history cannot be walked.
func (a *Auditor) LastCommit(branch, header string) (hash plumbing.Hash, found bool, err error) {
	from, err := a.repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("resolving %s: %w", branch, err)
	}

	commits, err := a.repo.Log(&git.LogOptions{
		From:     *from,
		Order:    git.LogOrderCommitterTime,
		FileName: &header,
	})
	if err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("walking %s: %w", branch, err)
	}
	defer commits.Close()

	c, err := commits.Next()
	if errors.Is(err, io.EOF) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("walking %s: %w", branch, err)
	}
	return c.Hash, true, nil
}

// Run writes the audit report for all branches and headers to w.
func (a *Auditor) Run(w io.Writer) error {
	for _, branch := range a.branches {
		if _, err := fmt.Fprintf(w, "analyzing branch '%s'\n", branch); err != nil {
			return err
		}

		for _, header := range a.headers {
			var line string

			hash, found, err := a.LastCommit(branch, header)
			switch {
			case err != nil:
				a.logger.Debug("lookup failed", slog.String("branch", branch), slog.String("header", header), slog.String("error", err.Error()))
				line = "  not found\n"
			case found:
				line = fmt.Sprintf("  %s - %s\n", hash, header)
			default:
				line = fmt.Sprintf("  %s not found\n", header)
			}

			if _, err = io.WriteString(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
