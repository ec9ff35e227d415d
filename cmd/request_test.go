package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/share"
)

func parseRequest(t *testing.T, args ...string) (engine.JobRequest, error) {
	t.Helper()

	var flags requestFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.Flags().Parse(args))

	return flags.request(cmd)
}

func TestRequestFromFlags(t *testing.T) {
	req, err := parseRequest(t,
		"--role", "Estate Manager",
		"-l", "New York, NY",
		"-t", "immediate",
		"-b", "120k-180k",
		"--languages", "French,Spanish",
	)
	require.NoError(t, err)

	assert.Equal(t, "Estate Manager", req.Role)
	assert.Equal(t, "New York, NY", req.Location)
	assert.Equal(t, engine.TimelineImmediate, req.Timeline)
	assert.Equal(t, "120k-180k", req.Budget.Range)
	assert.Nil(t, req.Budget.Amount)
	assert.Equal(t, engine.DiscretionStandard, req.Discretion)
	assert.Equal(t, engine.TravelMinimal, req.Travel)
	assert.Equal(t, []string{"French", "Spanish"}, req.Languages)
}

func TestRequestFromFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
role: Butler
location: Dallas, TX
timeline: flexible
travel: frequent
budget:
  range: 80k-120k
languages: [French]
key_requirements: Formal service
`), 0o600))

	req, err := parseRequest(t, "--request", path, "-l", "Miami, FL", "--budget", "130000")
	require.NoError(t, err)

	assert.Equal(t, "Butler", req.Role)
	assert.Equal(t, "Miami, FL", req.Location)
	assert.Equal(t, engine.TimelineFlexible, req.Timeline)
	assert.Equal(t, engine.TravelFrequent, req.Travel)
	assert.Equal(t, "80k-120k", req.Budget.Range)
	require.NotNil(t, req.Budget.Amount)
	assert.Equal(t, 130000.0, *req.Budget.Amount)
	assert.Equal(t, []string{"French"}, req.Languages)
	assert.Equal(t, "Formal service", req.KeyRequirements)
}

func TestRequestFromShareToken(t *testing.T) {
	token := share.Encode(engine.JobRequest{
		Role:       "House Manager",
		Location:   "Aspen, CO",
		Timeline:   engine.TimelineStandard,
		Budget:     engine.Budget{Range: "120k-180k"},
		Discretion: engine.DiscretionElevated,
		Travel:     engine.TravelOccasional,
	})

	req, err := parseRequest(t, "--share", token)
	require.NoError(t, err)

	assert.Equal(t, "House Manager", req.Role)
	assert.Equal(t, "Aspen, CO", req.Location)
	assert.Equal(t, engine.DiscretionElevated, req.Discretion)
	assert.Equal(t, engine.TravelOccasional, req.Travel)
}

func TestRequestErrors(t *testing.T) {
	tests := map[string]struct {
		args     []string
		contains string
	}{
		"missing role": {
			args:     []string{"-l", "Dallas, TX"},
			contains: "role is required",
		},
		"missing location": {
			args:     []string{"--role", "Butler"},
			contains: "location is required",
		},
		"unknown timeline": {
			args:     []string{"--role", "Butler", "-l", "Dallas", "-t", "yesterday"},
			contains: "unknown timeline",
		},
		"unknown travel": {
			args:     []string{"--role", "Butler", "-l", "Dallas", "--travel", "always"},
			contains: "unknown travel",
		},
		"unknown budget range": {
			args:     []string{"--role", "Butler", "-l", "Dallas", "-b", "lots"},
			contains: "unknown budget range",
		},
		"negative budget": {
			args:     []string{"--role", "Butler", "-l", "Dallas", "--budget", "-5"},
			contains: "budget must be positive",
		},
		"bad share token": {
			args:     []string{"--share", "%%%"},
			contains: "invalid share token",
		},
		"missing file": {
			args:     []string{"--request", filepath.Join(t.TempDir(), "nope.yaml")},
			contains: "reading request file",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseRequest(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCheckOutput(t *testing.T) {
	assert.NoError(t, checkOutput(outputText))
	assert.NoError(t, checkOutput(outputJSON))
	assert.Error(t, checkOutput("xml"))
}
