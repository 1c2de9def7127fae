package pathresolve

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/devbush/lecturenotes/internal/adapters/process"
	"github.com/devbush/lecturenotes/internal/ports"
)

// InterpreterName is the interpreter the speech engine script targets
const InterpreterName = "python3.11"

// Known install locations, checked in order before asking a login shell
var interpreterLocations = []string{
	"/opt/homebrew/opt/python@3.11/bin/python3.11",
	"/usr/local/opt/python@3.11/bin/python3.11",
	"/opt/homebrew/bin/python3.11",
	"/usr/local/bin/python3.11",
}

// Directories prepended to PATH for login shell lookups and subprocesses
var preferredDirs = []string{
	"/opt/homebrew/bin",
	"/opt/homebrew/opt/python@3.11/bin",
	"/usr/local/bin",
	"/usr/bin",
	"/bin",
	"/usr/sbin",
	"/sbin",
}

const (
	shellLookupTimeout = 5 * time.Second
	cacheSize          = 16
)

// Resolver finds executables the way an interactive login shell would
type Resolver struct {
	overrides map[string]string
	binDir    string
	shell     string
	runner    *process.Runner
	logger    *slog.Logger
	cache     *lru.Cache[string, string]

	isExecutable func(path string) bool
	shellLookup  func(ctx context.Context, name string) string
	environ      func() []string
}

// Option configures a Resolver
type Option func(*Resolver)

// WithOverride pins name to an explicit path, bypassing discovery
func WithOverride(name, path string) Option {
	return func(r *Resolver) {
		if path != "" {
			r.overrides[name] = path
		}
	}
}

// WithBinDir adds an application-managed bin directory checked before system locations
func WithBinDir(dir string) Option {
	return func(r *Resolver) {
		r.binDir = dir
	}
}

// WithShell sets the login shell used for the slow path
func WithShell(shell string) Option {
	return func(r *Resolver) {
		r.shell = shell
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver that runs login shell lookups through runner
func NewResolver(runner *process.Runner, opts ...Option) *Resolver {
	cache, _ := lru.New[string, string](cacheSize)

	r := &Resolver{
		overrides:    make(map[string]string),
		runner:       runner,
		logger:       slog.Default(),
		cache:        cache,
		isExecutable: isExecutable,
		environ:      os.Environ,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.shell == "" {
		r.shell = defaultShell()
	}
	r.shellLookup = r.loginShellLookup
	return r
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" && filepath.IsAbs(sh) {
		return sh
	}
	return "/bin/zsh"
}

// ResolveInterpreter returns the engine interpreter path, or "" when it is not installed
func (r *Resolver) ResolveInterpreter(ctx context.Context) string {
	return r.resolve(ctx, InterpreterName, interpreterLocations)
}

// ResolveTool returns an absolute path for name, or "" when it is not installed
func (r *Resolver) ResolveTool(ctx context.Context, name string) string {
	var candidates []string
	if r.binDir != "" {
		candidates = append(candidates, filepath.Join(r.binDir, name))
	}
	for _, dir := range preferredDirs {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	return r.resolve(ctx, name, candidates)
}

func (r *Resolver) resolve(ctx context.Context, name string, candidates []string) string {
	if path, ok := r.overrides[name]; ok {
		if r.isExecutable(path) {
			return path
		}
		r.logger.Warn("configured path is not executable", "tool", name, "path", path)
	}

	if path, ok := r.cache.Get(name); ok {
		return path
	}

	for _, path := range candidates {
		if r.isExecutable(path) {
			r.cache.Add(name, path)
			return path
		}
	}

	path := r.shellLookup(ctx, name)
	if path == "" || !filepath.IsAbs(path) || !r.isExecutable(path) {
		r.logger.Debug("tool not resolved", "tool", name)
		return ""
	}

	r.logger.Debug("tool resolved via login shell", "tool", name, "path", path)
	r.cache.Add(name, path)
	return path
}

// loginShellLookup asks an interactive login shell for name, picking up
// package-manager paths that only shell init files add.
func (r *Resolver) loginShellLookup(ctx context.Context, name string) string {
	if r.runner == nil || !r.isExecutable(r.shell) {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, shellLookupTimeout)
	defer cancel()

	var last string
	p, err := r.runner.Start(ctx, process.Command{
		Path: r.shell,
		Args: []string{"-lc", "command -v " + shellQuote(name)},
		Env:  r.SubprocessEnv(),
	}, process.Handlers{
		OnStdoutLine: func(line string) {
			if line = strings.TrimSpace(line); line != "" {
				last = line
			}
		},
	})
	if err != nil {
		r.logger.Debug("login shell lookup failed", "shell", r.shell, "error", err)
		return ""
	}

	if status := p.Wait(); status.Code != 0 {
		return ""
	}
	return last
}

// SubprocessEnv returns the parent environment with the preferred directories ahead of PATH
func (r *Resolver) SubprocessEnv() []string {
	env := r.environ()
	out := make([]string, 0, len(env)+1)
	current := ""
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			current = strings.TrimPrefix(kv, "PATH=")
			continue
		}
		out = append(out, kv)
	}
	return append(out, "PATH="+MergedPath(current))
}

// MergedPath prefixes current with the preferred directories
func MergedPath(current string) string {
	merged := strings.Join(preferredDirs, string(os.PathListSeparator))
	if current == "" {
		return merged
	}
	return merged + string(os.PathListSeparator) + current
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var _ ports.PathResolver = (*Resolver)(nil)
