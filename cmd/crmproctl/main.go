package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/larsks/crmpro/internal/config"
	_ "github.com/larsks/crmpro/internal/logsetup"
	"github.com/larsks/crmpro/internal/theme"
	"github.com/larsks/crmpro/internal/trail"
	"github.com/larsks/crmpro/internal/version"
	"github.com/spf13/pflag"
)

const (
	defaultServerURL = "http://localhost:8080"
)

type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Theme     string `json:"theme,omitempty"`
	RootClass string `json:"root_class,omitempty"`
}

type TrailResponse struct {
	Status  string       `json:"status"`
	Theme   string       `json:"theme"`
	Enabled bool         `json:"enabled"`
	Config  trail.Config `json:"config"`
}

type Config struct {
	ServerURL          string `mapstructure:"server-url"`
	ConfigFile         string `mapstructure:"config-file"`
	ThemeFile          string `mapstructure:"theme-file"`
	explicitConfigFile bool   // Track if config file was explicitly set
}

func getDefaultServerURL() string {
	if url := os.Getenv("CRMPRO_SERVER_URL"); url != "" {
		return url
	}
	return defaultServerURL
}

func getDefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "crmpro", "crmproctl.toml")
}

func getDefaultThemeFile() string {
	return filepath.Join(xdg.StateHome, "crmpro", "crmproctl-theme")
}

func NewConfig() *Config {
	return &Config{
		ServerURL: getDefaultServerURL(),
		ThemeFile: getDefaultThemeFile(),
	}
}

func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", getDefaultConfigFile(), "Config file to use")
	fs.StringVar(&c.ServerURL, "server-url", c.ServerURL, "Landing server URL")
	fs.StringVar(&c.ThemeFile, "theme-file", c.ThemeFile, "File holding this client's theme preference")
}

func (c *Config) LoadConfigWithFlagSet(fs *pflag.FlagSet) error {
	c.explicitConfigFile = c.ConfigFile != getDefaultConfigFile()

	if _, err := os.Stat(c.ConfigFile); os.IsNotExist(err) {
		if c.explicitConfigFile {
			return fmt.Errorf("config file not found: %s", c.ConfigFile)
		}
		// Default config file doesn't exist, don't try to load it
		c.ConfigFile = ""
	}

	loader := config.NewConfigLoader()
	loader.SetConfigFile(c.ConfigFile)
	loader.SetDefaults(map[string]any{
		"server-url": getDefaultServerURL(),
		"theme-file": getDefaultThemeFile(),
	})

	return loader.LoadConfigWithFlagSet(c, fs)
}

// HTTPClient interface for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CLI represents the command line interface
type CLI struct {
	config     *Config
	httpClient HTTPClient
	persister  theme.Persister
	stdout     io.Writer
	stderr     io.Writer
}

// NewCLI creates a new CLI instance. The client keeps its own theme
// preference so the server sees a returning visitor.
func NewCLI(cfg *Config, httpClient HTTPClient, stdout, stderr io.Writer) *CLI {
	return &CLI{
		config:     cfg,
		httpClient: httpClient,
		persister:  theme.NewFilePersister(cfg.ThemeFile),
		stdout:     stdout,
		stderr:     stderr,
	}
}

// CommandArgs represents parsed command line arguments
type CommandArgs struct {
	Command string
	Args    []string
	Config  *Config
}

// ParseArgs parses command line arguments using pflag.CommandLine
func ParseArgs(args []string) (*CommandArgs, error) {
	return ParseArgsWithFlagSet(args, pflag.CommandLine)
}

// ParseArgsWithFlagSet parses command line arguments with a custom flag set (for testing)
func ParseArgsWithFlagSet(args []string, fs *pflag.FlagSet) (*CommandArgs, error) {
	versionFlag := fs.Bool("version", false, "Show version and exit")
	helpFlag := fs.BoolP("help", "h", false, "Show help")

	cfg := NewConfig()
	cfg.AddFlags(fs)

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *versionFlag {
		return &CommandArgs{Command: "version", Config: cfg}, nil
	}

	if *helpFlag {
		return &CommandArgs{Command: "help", Config: cfg}, nil
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		return &CommandArgs{Command: "help", Config: cfg}, nil
	}

	if err := cfg.LoadConfigWithFlagSet(fs); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &CommandArgs{
		Command: remainingArgs[0],
		Args:    remainingArgs[1:],
		Config:  cfg,
	}, nil
}

// Execute runs the specified command
func (c *CLI) Execute(cmdArgs *CommandArgs) error {
	switch cmdArgs.Command {
	case "version":
		version.WriteVersion(c.stdout)
		return nil
	case "help":
		c.showHelp()
		return nil
	case "theme":
		return c.cmdTheme(cmdArgs.Args)
	case "toggle":
		return c.cmdToggle(cmdArgs.Args)
	case "set":
		return c.cmdSet(cmdArgs.Args)
	case "trail":
		return c.cmdTrail(cmdArgs.Args)
	default:
		return fmt.Errorf("unknown command: %s", cmdArgs.Command)
	}
}

func (c *CLI) showHelp() {
	//nolint:errcheck
	fmt.Fprintf(c.stdout, `crmproctl - Command line tool for the CRM Pro landing server

Usage: crmproctl [flags] <command> [arguments]

Commands:
  theme                 Show the current theme
  toggle                Switch between light and dark
  set <light|dark>      Choose a theme
  trail [light|dark]    Show the cursor trail settings
  help                  Show this help
  version               Show version information

Flags:
  --config string       Config file to use (default "%s")
  -h, --help            Show help
  --server-url string   Landing server URL (default "%s")
  --theme-file string   File holding this client's theme preference
  --version             Show version and exit
`, getDefaultConfigFile(), defaultServerURL)
}

func (c *CLI) cmdTheme(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("theme command takes no arguments")
	}

	apiResp, err := c.themeRequest("GET", "/api/theme", nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Theme: %s\n", apiResp.Theme) //nolint:errcheck
	return nil
}

func (c *CLI) cmdToggle(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("toggle command takes no arguments")
	}

	apiResp, err := c.themeRequest("POST", "/api/theme/toggle", nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Theme switched to: %s\n", apiResp.Theme) //nolint:errcheck
	return nil
}

func (c *CLI) cmdSet(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("set command requires exactly one theme argument")
	}

	mode, err := theme.ParseMode(args[0])
	if err != nil {
		return err
	}

	reqBody, err := json.Marshal(map[string]string{"theme": mode.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	apiResp, err := c.themeRequest("PUT", "/api/theme", reqBody)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Theme set to: %s\n", apiResp.Theme) //nolint:errcheck
	return nil
}

func (c *CLI) cmdTrail(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("trail command takes at most one theme argument")
	}

	path := "/api/trail/config"
	if len(args) == 1 {
		mode, err := theme.ParseMode(args[0])
		if err != nil {
			return err
		}
		path += "?" + url.Values{"theme": {mode.String()}}.Encode()
	}

	resp, err := c.makeAPIRequest("GET", path, nil)
	if err != nil {
		return err
	}

	var trailResp TrailResponse
	if err := json.Unmarshal(resp, &trailResp); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}

	enabled := "disabled"
	if trailResp.Enabled {
		enabled = "enabled"
	}

	fmt.Fprintf(c.stdout, "Trail: %s (%s theme)\n", enabled, trailResp.Theme) //nolint:errcheck
	fmt.Fprintf(c.stdout, "Color: %s\n", trailResp.Config.Color)              //nolint:errcheck
	fmt.Fprintf(c.stdout, "Size: %.1f\n", trailResp.Config.Size)              //nolint:errcheck
	fmt.Fprintf(c.stdout, "Length: %d\n", trailResp.Config.Length)            //nolint:errcheck
	fmt.Fprintf(c.stdout, "Opacity: %.2f\n", trailResp.Config.Opacity)        //nolint:errcheck
	fmt.Fprintf(c.stdout, "Speed: %.2f\n", trailResp.Config.Speed)            //nolint:errcheck
	return nil
}

// themeRequest calls a theme endpoint and remembers the theme the
// server settled on.
func (c *CLI) themeRequest(method, path string, body []byte) (*APIResponse, error) {
	resp, err := c.makeAPIRequest(method, path, body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(resp, &apiResp); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if apiResp.Status != "ok" {
		return nil, fmt.Errorf("API error: %s", apiResp.Message)
	}

	if method != "GET" {
		mode, err := theme.ParseMode(apiResp.Theme)
		if err != nil {
			return nil, fmt.Errorf("server returned %w", err)
		}
		if err := c.persister.Save(mode); err != nil {
			fmt.Fprintf(c.stderr, "Warning: theme preference not saved: %v\n", err) //nolint:errcheck
		}
	}

	return &apiResp, nil
}

func (c *CLI) makeAPIRequest(method, path string, body []byte) ([]byte, error) {
	url := strings.TrimSuffix(c.config.ServerURL, "/") + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = strings.NewReader(string(body))
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if mode, err := c.persister.Load(); err == nil {
		req.AddCookie(&http.Cookie{Name: theme.DefaultCookieName, Value: mode.String()})
	} else if !errors.Is(err, theme.ErrNoPreference) {
		fmt.Fprintf(c.stderr, "Warning: ignoring stored theme: %v\n", err) //nolint:errcheck
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for HTTP errors and try to parse API error message
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiResp APIResponse
		if err := json.Unmarshal(respBody, &apiResp); err == nil && apiResp.Message != "" {
			return nil, fmt.Errorf("API error: %s", apiResp.Message)
		}
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	return respBody, nil
}

func main() {
	cmdArgs, err := ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err) //nolint:errcheck
		os.Exit(1)
	}

	cli := NewCLI(cmdArgs.Config, &http.Client{}, os.Stdout, os.Stderr)

	if err := cli.Execute(cmdArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err) //nolint:errcheck
		os.Exit(1)
	}
}
