package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-a", "http://localhost:8080", "-x", "junk", "-i", "5"}
	got := FilterArgs(args, []string{"-a", "-i"})
	require.Equal(t, []string{"-a", "http://localhost:8080", "-i", "5"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--config=conf.json", "--other=1", "-a=srv:99"}
	got := FilterArgs(args, []string{"--config", "-a"})
	require.Equal(t, []string{"--config=conf.json", "-a=srv:99"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	args := []string{"-v", "-a", "-i", "3"}
	got := FilterArgs(args, []string{"-a", "-i"})
	// -a is followed by another flag, so it keeps no value
	require.Equal(t, []string{"-a", "-i", "3"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	require.NotNil(t, got)
	require.Empty(t, got)
}
