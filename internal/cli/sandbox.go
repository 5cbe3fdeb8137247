package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amterp/ra"

	"github.com/amterp/trellis/internal/config"
	"github.com/amterp/trellis/internal/sandbox"
)

func registerSandbox(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("sandbox")
	cmd.SetDescription("Run a local stand-in for the service")

	ctx.SandboxPort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(0).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on (will try incrementally if in use). Defaults to the config value.").
		Register(cmd)

	ctx.SandboxSeed, _ = ra.NewString("seed").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("YAML seed file. Built-in demo data if not given.").
		Register(cmd)

	ctx.SandboxUsed, _ = parent.RegisterCmd(cmd)
}

func runSandbox(port int, seedPath string) {
	app := mustApp(false)
	cfg := app.Config.Sandbox

	if port == 0 {
		port = cfg.Port
	}
	if seedPath == "" {
		seedPath = cfg.SeedFile
	}

	seed, err := loadSeed(seedPath)
	if err != nil {
		Fatal(err)
	}

	creds := sandboxCredentials(cfg)
	actualPort := findAvailablePort(port)
	server := sandbox.NewServer(sandbox.Options{
		Port:        actualPort,
		Credentials: creds,
		Seed:        seed,
		Logger:      app.Log,
	})

	baseURL := fmt.Sprintf("http://localhost:%d%s", actualPort, sandbox.APIPrefix)
	PrintSuccess("Sandbox running at %s", RenderURL(baseURL))
	fmt.Println(LabelValue("Key", creds.Key, 6))
	fmt.Println(LabelValue("Token", creds.Token, 6))
	PrintInfo("Point trellis at it with: trellis login --base-url %s --key %s --token %s", baseURL, creds.Key, creds.Token)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			Fatal(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			Fatal(err)
		}
	}
}

func loadSeed(path string) (*sandbox.Seed, error) {
	if path == "" {
		return sandbox.DefaultSeed()
	}
	return sandbox.LoadSeedFile(path)
}

// sandboxCredentials returns the configured sandbox credentials, falling
// back to fixed development values so the sandbox never runs open.
func sandboxCredentials(cfg config.SandboxConfig) sandbox.Credentials {
	creds := sandbox.Credentials{Key: cfg.Key, Token: cfg.Token}
	if creds.Key == "" {
		creds.Key = "sandbox-key"
	}
	if creds.Token == "" {
		creds.Token = "sandbox-token"
	}
	return creds
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// If we couldn't find a port after maxAttempts, return the original and let it fail naturally
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
