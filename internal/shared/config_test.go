package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tapedeck.db" {
			t.Errorf("expected database path ./tapedeck.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.YouTube.SearchURL != "http://127.0.0.1:8080" {
			t.Errorf("expected search URL http://127.0.0.1:8080, got %s", config.Credentials.YouTube.SearchURL)
		}

		if config.Download.AudioFormat != "mp3" {
			t.Errorf("expected audio format mp3, got %s", config.Download.AudioFormat)
		}

		if config.Download.Throttle() != 200*time.Millisecond {
			t.Errorf("expected 200ms throttle, got %v", config.Download.Throttle())
		}

		if config.Tagging.CoverMinBytes != 500 {
			t.Errorf("expected cover min bytes 500, got %d", config.Tagging.CoverMinBytes)
		}

		if config.Tagging.CoverTimeout() != 10*time.Second {
			t.Errorf("expected 10s cover timeout, got %v", config.Tagging.CoverTimeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[download]
music_dir = "/srv/music"
throttle_ms = 0
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}
		if config.Download.MusicDir != "/srv/music" {
			t.Errorf("expected music dir /srv/music, got %s", config.Download.MusicDir)
		}
		if config.Download.Throttle() != 0 {
			t.Errorf("expected throttle disabled, got %v", config.Download.Throttle())
		}
		if config.Download.AudioQuality != "192K" {
			t.Errorf("missing values should keep defaults, got audio quality %q", config.Download.AudioQuality)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault Missing File", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected default config, got port %d", config.Server.Port)
		}
	})

	t.Run("SaveConfig Round Trip Token", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()

		expiry := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		err := config.Credentials.Spotify.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       expiry,
		})
		if err != nil {
			t.Fatalf("failed to update token: %v", err)
		}

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		token := loaded.Credentials.Spotify.Token()
		if token == nil {
			t.Fatal("expected token after reload")
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("unexpected token %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Token Empty", func(t *testing.T) {
		if tok := (SpotifyConfig{}).Token(); tok != nil {
			t.Errorf("expected nil token, got %+v", tok)
		}
	})

	t.Run("Update Keeps Refresh Token", func(t *testing.T) {
		cfg := SpotifyConfig{RefreshToken: "old_refresh"}
		if err := cfg.Update(&oauth2.Token{AccessToken: "new_access"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RefreshToken != "old_refresh" {
			t.Errorf("expected refresh token to be kept, got %s", cfg.RefreshToken)
		}
		if cfg.AccessToken != "new_access" {
			t.Errorf("expected new access token, got %s", cfg.AccessToken)
		}
	})

	t.Run("Update Rejects Empty", func(t *testing.T) {
		cfg := SpotifyConfig{}
		if err := cfg.Update(nil); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Map", func(t *testing.T) {
		m := SpotifyConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "uri"}.Map()
		if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "uri" {
			t.Errorf("unexpected map %v", m)
		}
	})
}
