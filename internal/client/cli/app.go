package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/avasilenko/snapdiary/internal/client/client"
	"github.com/avasilenko/snapdiary/internal/client/config"
	"github.com/avasilenko/snapdiary/internal/client/connectivity"
	"github.com/avasilenko/snapdiary/internal/client/services"
	"github.com/avasilenko/snapdiary/internal/filex"
	"github.com/avasilenko/snapdiary/internal/logging"

	_ "modernc.org/sqlite"
)

// Mode reflects the session state shown in the prompt.
type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// App wires configuration, the local store, the API client, the sync
// coordinator and the connectivity watcher behind an interactive REPL.
type App struct {
	config      *config.Config
	repos       *client.Repositories
	apiClient   client.Client
	auth        *services.AuthService
	coordinator *services.Coordinator
	watcher     *connectivity.Watcher
	log         logging.Logger

	userName string
	Mode     Mode
	reader   *bufio.Reader
}

// NewApp builds the full client object graph. The connectivity watcher is
// the single connectivity authority: the coordinator consults it before
// every remote attempt, and its offline-to-online edges trigger replay.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerEndpointURL)

	return newApp(c, repos, apiClient, log), nil
}

func newApp(c *config.Config, repos *client.Repositories, apiClient client.Client, log logging.Logger) *App {
	watcher := connectivity.NewWatcher(apiClient, c.OnlineCheckInterval, log)

	coordinator := services.NewCoordinator(
		apiClient, repos.Entries, repos.Pending, repos.KV, watcher.Online, log)

	app := &App{
		config:      c,
		repos:       repos,
		apiClient:   apiClient,
		auth:        services.NewAuthService(apiClient, repos.KV, log),
		coordinator: coordinator,
		watcher:     watcher,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
	}

	// The health probe answers before authentication, so the watcher can
	// flip online while no session exists. A replay fired then would only
	// collect 401s; gate the edge on a live session and let afterLogin
	// drain the backlog instead.
	watcher.OnOnline(func(ctx context.Context) {
		if app.isLoggedIn() {
			coordinator.Replay(ctx)
		}
	})

	coordinator.OnNotice(app.showNotice)

	return app
}

// afterLogin bootstraps a fresh session: refresh the connectivity state,
// publish the local diary, and drain any queue left over from a previous
// offline session. The watcher's edge only covers transitions that happen
// mid-session; a queue that predates the login is replayed here.
func (a *App) afterLogin(ctx context.Context) {
	a.watcher.Check(ctx)
	a.coordinator.Load(ctx)
	if a.Mode == ModeOnline {
		a.coordinator.Replay(ctx)
	}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		fmt.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.Mode == ModeOnline || a.Mode == ModeOffline
}

func (a *App) showNotice(n services.Notice) {
	printlnFn(n.Message)
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if n := a.coordinator.Snapshot().PendingSyncCount; n > 0 {
		s = fmt.Sprintf("%s, %d pending", s, n)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the connectivity watcher, prompts for credentials, loads the
// diary and enters the REPL. It blocks until the user exits or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.coordinator.Close()
		_ = a.apiClient.Close()
		_ = a.repos.DB.Close()
	}()

	go a.watcher.Run(ctx)

	printlnFn("Welcome to snapdiary CLI (type 'help' for commands)")

	_ = a.Login(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
