package cli

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avasilenko/snapdiary/internal/client/services"
	"github.com/avasilenko/snapdiary/internal/logging"
)

func testApp() *App {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &App{
		coordinator: services.NewCoordinator(nil, nil, nil, nil, func() bool { return false }, log),
		log:         log,
	}
}

func TestGetStatus(t *testing.T) {
	a := testApp()

	assert.Equal(t, "", a.getStatus())

	a.userName = "anna@example.com"
	a.Mode = ModeOnline
	assert.Equal(t, "(anna@example.com online)", a.getStatus())

	a.userName = ""
	a.Mode = ModeOffline
	assert.Equal(t, "(offline)", a.getStatus())
}

func TestIsLoggedIn(t *testing.T) {
	a := testApp()

	assert.False(t, a.isLoggedIn())

	a.Mode = ModeOnline
	assert.True(t, a.isLoggedIn())

	a.Mode = ModeOffline
	assert.True(t, a.isLoggedIn())

	a.Mode = ModeDisabled
	assert.False(t, a.isLoggedIn())
}

func TestSetMode_Idempotent(t *testing.T) {
	a := testApp()

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode)

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode)
}
