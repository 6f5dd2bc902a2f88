package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// isolate points the config at an empty home so the developer's own files
// and variables do not leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SKILLSWAP_HOME", home)
	for _, v := range []string{
		"SKILLSWAP_API_URL", "SKILLSWAP_CONFIG", "SKILLSWAP_HTTP_TIMEOUT",
		"SKILLSWAP_UNLOCK_WINDOW", "SKILLSWAP_DEFAULT_DURATION", "SKILLSWAP_SESSION_REFRESH",
		"SKILLSWAP_CLOCK_TICK", "SKILLSWAP_CHAT_POLL", "SKILLSWAP_REQUESTS_POLL",
		"SKILLSWAP_LOG_FILE", "SKILLSWAP_LOG_LEVEL",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v) //nolint:errcheck
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Home != home {
		t.Errorf("Home = %q, want %q", cfg.Home, home)
	}
	if cfg.UnlockWindow != 15*time.Minute || cfg.DefaultDuration != time.Hour {
		t.Errorf("gate defaults = %s/%s, want 15m/1h", cfg.UnlockWindow, cfg.DefaultDuration)
	}
	if cfg.SessionRefresh != 10*time.Second || cfg.ChatPoll != 3*time.Second || cfg.RequestsPoll != 5*time.Second {
		t.Errorf("poll intervals = %s/%s/%s", cfg.SessionRefresh, cfg.ChatPoll, cfg.RequestsPoll)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty when no file exists", cfg.ConfigPath)
	}
	if got := cfg.IdentityPath(); got != filepath.Join(home, "identity.json") {
		t.Errorf("IdentityPath() = %q", got)
	}
}

func TestLoadHomeConfigFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "api_url: https://api.example.com/\nunlock_window: 5m\nchat_poll: 1s\n")

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("APIURL = %q, want trimmed file value", cfg.APIURL)
	}
	if cfg.UnlockWindow != 5*time.Minute {
		t.Errorf("UnlockWindow = %s, want 5m", cfg.UnlockWindow)
	}
	if cfg.ChatPoll != time.Second {
		t.Errorf("ChatPoll = %s, want 1s", cfg.ChatPoll)
	}
	if cfg.SessionRefresh != 10*time.Second {
		t.Errorf("SessionRefresh = %s, want default kept", cfg.SessionRefresh)
	}
	if p := cfg.Policy(); p.UnlockWindow != 5*time.Minute {
		t.Errorf("Policy().UnlockWindow = %s", p.UnlockWindow)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "api_url: https://file.example.com\nlog_level: warn\nclock_tick: 2s\n")
	t.Setenv("SKILLSWAP_API_URL", "https://env.example.com")
	t.Setenv("SKILLSWAP_CLOCK_TICK", "500ms")

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "https://env.example.com" {
		t.Errorf("env should beat file: APIURL = %q", cfg.APIURL)
	}
	if cfg.ClockTick != 500*time.Millisecond {
		t.Errorf("ClockTick = %s, want 500ms", cfg.ClockTick)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want file value", cfg.LogLevel)
	}

	cfg, err = Load(Overrides{APIURL: "https://flag.example.com", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "https://flag.example.com" || cfg.LogLevel != "debug" {
		t.Errorf("flags should beat env: %q %q", cfg.APIURL, cfg.LogLevel)
	}
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	home := isolate(t)

	_, err := Load(Overrides{ConfigPath: filepath.Join(home, "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !strings.Contains(err.Error(), "read config") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "other.yaml")
	writeFile(t, path, "requests_poll: 7s\n")
	t.Setenv("SKILLSWAP_CONFIG", path)

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RequestsPoll != 7*time.Second {
		t.Errorf("RequestsPoll = %s, want 7s", cfg.RequestsPoll)
	}
	if cfg.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, path)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		want string
	}{
		{"bad url", map[string]string{"SKILLSWAP_API_URL": "localhost:8080"}, "", "api url"},
		{"zero refresh", map[string]string{"SKILLSWAP_SESSION_REFRESH": "0s"}, "", "session refresh"},
		{"negative window", nil, "unlock_window: -1m\n", "unlock window"},
		{"bad level", map[string]string{"SKILLSWAP_LOG_LEVEL": "loud"}, "", "log level"},
		{"bad duration", map[string]string{"SKILLSWAP_CHAT_POLL": "soon"}, "", "parse env"},
		{"bad yaml", nil, "api_url: [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				writeFile(t, filepath.Join(home, "config.yaml"), tt.file)
			}
			_, err := Load(Overrides{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestOverridesRegister(t *testing.T) {
	var o Overrides
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.Register(fs)
	if err := fs.Parse([]string{"sessions", "--api-url", "https://x.example.com", "--log-file=/tmp/s.log"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if o.APIURL != "https://x.example.com" || o.LogFile != "/tmp/s.log" {
		t.Errorf("overrides = %+v", o)
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "sessions" {
		t.Errorf("Args() = %v, want [sessions]", got)
	}
}
