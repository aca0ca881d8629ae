package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProfileValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{
			name:    "sqlite defaults DSN",
			profile: Profile{Mode: "dev", Driver: "sqlite", Data: dir, Port: 8081},
		},
		{
			name:    "postgres requires DSN",
			profile: Profile{Mode: "prod", Driver: "postgres", Data: dir, Port: 8081},
			wantErr: true,
		},
		{
			name:    "unknown driver rejected",
			profile: Profile{Mode: "dev", Driver: "mysql", Data: dir, Port: 8081},
			wantErr: true,
		},
		{
			name:    "invalid port rejected",
			profile: Profile{Mode: "dev", Driver: "sqlite", Data: dir, Port: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, tt.profile.DSN)
		})
	}
}

func TestProfileFromEnvDefaults(t *testing.T) {
	var p Profile
	p.FromEnv()

	require.Equal(t, "https://api.openai.com/v1", p.AIBaseURL)
	require.Equal(t, "text-embedding-3-small", p.AIEmbeddingModel)
	require.Equal(t, 10*time.Minute, p.SessionIdleTimeout)
}

func TestProfileFromEnvOverrides(t *testing.T) {
	t.Setenv("LIFEINBOX_AI_API_KEY", "sk-test")
	t.Setenv("LIFEINBOX_SESSION_IDLE_TIMEOUT", "3m")

	var p Profile
	p.FromEnv()

	require.True(t, p.IsAIEnabled())
	require.Equal(t, 3*time.Minute, p.SessionIdleTimeout)
}
