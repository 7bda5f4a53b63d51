// Package checker runs the traceability pipeline over a repository.
//
// For every specification document it extracts claims, checks each acceptance
// identifier for an anchor, resolves each test pointer and verifies the named
// function exists. Nothing short-circuits: every document, identifier and
// pointer is checked and every failure is collected before the run returns.
package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/tracelint/internal/anchor"
	"github.com/harrison/tracelint/internal/config"
	"github.com/harrison/tracelint/internal/display"
	"github.com/harrison/tracelint/internal/fileutil"
	"github.com/harrison/tracelint/internal/models"
	"github.com/harrison/tracelint/internal/parser"
	"github.com/harrison/tracelint/internal/resolver"
	"github.com/harrison/tracelint/internal/source"
)

var (
	// ErrNoSpecDocuments is returned when the specification directory is
	// missing or holds no documents. It is a configuration error, not a pass.
	ErrNoSpecDocuments = errors.New("no specification documents found")

	// ErrLintFailed is returned by callers once a report with at least one
	// unanchored identifier or broken pointer has been printed.
	ErrLintFailed = errors.New("traceability check failed")
)

// Logger receives run diagnostics. All methods must be safe for concurrent use.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogDocumentResult(result models.DocumentResult)
}

// Options configures a Checker.
type Options struct {
	RepoRoot string
	Config   *config.Config
	Logger   Logger               // Optional
	Warnings io.Writer            // Receives user-facing warnings; nil discards
	Progress io.Writer            // Receives one line per finished document; nil disables
	Runner   anchor.CommandRunner // Overrides how grep is executed
}

// Run is the aggregated outcome of checking every document.
type Run struct {
	Results                []models.DocumentResult // Sorted by document path
	Summary                models.Summary
	MissingSearchRoots     []string
	MissingResolutionRoots []string
}

// Checker coordinates the per-document pipelines.
type Checker struct {
	repoRoot string
	cfg      *config.Config
	parser   *parser.Parser
	language source.Language
	logger   Logger
	warnings io.Writer
	progress io.Writer
	runner   anchor.CommandRunner

	resolutions sync.Map // pointer filename -> models.Resolution
}

// New validates the configuration and prepares a Checker.
func New(opts Options) (*Checker, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	root := opts.RepoRoot
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	lang, _ := source.Lookup(opts.Config.Language)
	p, err := parser.NewParser(opts.Config.IDPrefixes, lang.Extension)
	if err != nil {
		return nil, err
	}

	return &Checker{
		repoRoot: abs,
		cfg:      opts.Config,
		parser:   p,
		language: lang,
		logger:   opts.Logger,
		warnings: opts.Warnings,
		progress: opts.Progress,
		runner:   opts.Runner,
	}, nil
}

// Locate returns the repository-relative paths of every specification document.
// A missing directory or an empty one yields ErrNoSpecDocuments.
func (c *Checker) Locate() ([]string, error) {
	paths, err := parser.LocateSpecs(c.repoRoot, c.cfg.SpecDir, c.cfg.SpecExtension)
	if err != nil {
		c.debugf("%v", err)
	}
	if len(paths) == 0 {
		c.warn(display.WarnNoSpecDocuments(c.cfg.SpecDir, c.cfg.SpecExtension))
		return nil, fmt.Errorf("%w in %s", ErrNoSpecDocuments, c.cfg.SpecDir)
	}
	return paths, nil
}

// Run checks every document and aggregates the results. It handles
// SIGINT/SIGTERM by cancelling outstanding searches; the partial run is
// still returned together with the context error.
func (c *Checker) Run(ctx context.Context) (*Run, error) {
	paths, err := c.Locate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			c.warnf("received interrupt signal, cancelling remaining searches")
			cancel()
		case <-ctx.Done():
		}
	}()

	docs := make([]models.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := parser.LoadDocument(c.repoRoot, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	run := &Run{}
	searchRoots, err := fileutil.ExpandRoots(c.repoRoot, c.cfg.SearchRoots)
	if err != nil {
		return nil, fmt.Errorf("failed to expand search roots: %w", err)
	}
	resolutionRoots, err := fileutil.ExpandRoots(c.repoRoot, c.cfg.ResolutionRoots)
	if err != nil {
		return nil, fmt.Errorf("failed to expand resolution roots: %w", err)
	}
	run.MissingSearchRoots = searchRoots.Missing
	run.MissingResolutionRoots = resolutionRoots.Missing
	if len(searchRoots.Missing) > 0 {
		c.warn(display.WarnMissingRoots("search", searchRoots.Missing))
	}
	if len(resolutionRoots.Missing) > 0 {
		c.warn(display.WarnMissingRoots("resolution", resolutionRoots.Missing))
	}

	res, err := resolver.New(c.repoRoot, resolutionRoots.Dirs, c.cfg.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	// Hits inside any specification document never count as anchors
	anchors := anchor.NewChecker(anchor.Limit(c.searcher(searchRoots.Dirs), c.cfg.Jobs), paths, c.cfg.Jobs)

	c.debugf("checking %d document(s) with %d search root(s) and %d resolution root(s)",
		len(docs), len(searchRoots.Dirs), len(resolutionRoots.Dirs))

	var progress *display.ProgressIndicator
	if c.progress != nil {
		progress = display.NewProgressIndicator(c.progress, len(docs))
		progress.Start()
	}

	run.Results = make([]models.DocumentResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Jobs)
	for i, doc := range docs {
		g.Go(func() error {
			result := c.checkDocument(gctx, doc, anchors, res)
			run.Results[i] = result
			if c.logger != nil {
				c.logger.LogDocumentResult(result)
			}
			if progress != nil {
				progress.Step(doc.Name, result.Passed())
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress != nil {
		progress.Complete()
	}

	sort.SliceStable(run.Results, func(i, j int) bool {
		return run.Results[i].Document.Path < run.Results[j].Document.Path
	})

	var empty []string
	for _, r := range run.Results {
		run.Summary.Add(r)
		if !r.HasClaims() {
			empty = append(empty, r.Document.Path)
		}
	}
	if len(empty) > 0 {
		c.warn(display.WarnEmptyDocuments(empty))
	}

	return run, ctx.Err()
}

// CheckDocument runs the pipeline for a single document with a fresh
// resolver and searcher.
func (c *Checker) CheckDocument(ctx context.Context, doc models.Document) (models.DocumentResult, error) {
	searchRoots, err := fileutil.ExpandRoots(c.repoRoot, c.cfg.SearchRoots)
	if err != nil {
		return models.DocumentResult{}, fmt.Errorf("failed to expand search roots: %w", err)
	}
	resolutionRoots, err := fileutil.ExpandRoots(c.repoRoot, c.cfg.ResolutionRoots)
	if err != nil {
		return models.DocumentResult{}, fmt.Errorf("failed to expand resolution roots: %w", err)
	}
	res, err := resolver.New(c.repoRoot, resolutionRoots.Dirs, c.cfg.ExcludeDirs)
	if err != nil {
		return models.DocumentResult{}, err
	}
	anchors := anchor.NewChecker(c.searcher(searchRoots.Dirs), []string{doc.Path}, c.cfg.Jobs)
	return c.checkDocument(ctx, doc, anchors, res), nil
}

// Resolver builds a resolver over the configured resolution roots.
func (c *Checker) Resolver() (*resolver.Resolver, []string, error) {
	roots, err := fileutil.ExpandRoots(c.repoRoot, c.cfg.ResolutionRoots)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to expand resolution roots: %w", err)
	}
	r, err := resolver.New(c.repoRoot, roots.Dirs, c.cfg.ExcludeDirs)
	if err != nil {
		return nil, nil, err
	}
	return r, roots.Missing, nil
}

// Parser returns the claim extractor built from the configuration.
func (c *Checker) Parser() *parser.Parser {
	return c.parser
}

// RepoRoot returns the absolute repository root.
func (c *Checker) RepoRoot() string {
	return c.repoRoot
}

func (c *Checker) checkDocument(ctx context.Context, doc models.Document, anchors *anchor.Checker, res *resolver.Resolver) models.DocumentResult {
	claims := c.parser.Parse(doc)
	c.debugf("%s: extracted %d id(s) and %d pointer(s)", doc.Path, len(claims.IDs), len(claims.Pointers))

	result := models.DocumentResult{
		Document:   doc,
		IDs:        claims.IDs,
		Unanchored: []string{},
		Pointers:   claims.Pointers,
		Broken:     []models.BrokenPointer{},
	}

	for _, a := range anchors.Check(ctx, claims.IDs) {
		if !a.Anchored() {
			result.Unanchored = append(result.Unanchored, a.ID)
		}
	}

	for _, p := range claims.Pointers {
		if b, broken := c.verifyPointer(p, res); broken {
			result.Broken = append(result.Broken, b)
		}
	}

	return result
}

// verifyPointer resolves the pointer file and checks the function declaration.
func (c *Checker) verifyPointer(p models.Pointer, res *resolver.Resolver) (models.BrokenPointer, bool) {
	resolution := c.resolve(p.File, res)

	switch resolution.Outcome {
	case models.NotFound:
		return models.BrokenPointer{Pointer: p, Reason: models.ReasonFileNotFound}, true
	case models.Ambiguous:
		return models.BrokenPointer{Pointer: p, Reason: models.ReasonAmbiguous, Candidates: resolution.Candidates}, true
	}

	if !c.language.HasFunction(res.Abs(resolution.Path), p.Function) {
		return models.BrokenPointer{Pointer: p, Reason: models.ReasonFunctionNotFound, Path: resolution.Path}, true
	}
	return models.BrokenPointer{}, false
}

// resolve memoizes resolutions; the tree does not change during a run.
func (c *Checker) resolve(name string, res *resolver.Resolver) models.Resolution {
	if v, ok := c.resolutions.Load(name); ok {
		return v.(models.Resolution)
	}
	r := res.Resolve(name)
	c.resolutions.Store(name, r)
	return r
}

func (c *Checker) searcher(roots []string) anchor.Searcher {
	if c.cfg.SearchBackend == config.BackendScan {
		return &anchor.ScanSearcher{
			RepoRoot:   c.repoRoot,
			Roots:      roots,
			Extensions: c.cfg.AnchorExtensions,
			WholeWord:  c.cfg.StrictAnchors,
			Logger:     c.logger,
		}
	}
	return &anchor.GrepSearcher{
		RepoRoot:   c.repoRoot,
		Roots:      roots,
		Extensions: c.cfg.AnchorExtensions,
		Timeout:    c.cfg.SearchTimeout,
		WholeWord:  c.cfg.StrictAnchors,
		Runner:     c.runner,
		Logger:     c.logger,
	}
}

func (c *Checker) warn(w display.Warning) {
	if c.warnings != nil {
		w.Display(c.warnings)
	}
}

func (c *Checker) warnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.LogWarn(fmt.Sprintf(format, args...))
	}
}

func (c *Checker) debugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.LogDebug(fmt.Sprintf(format, args...))
	}
}
