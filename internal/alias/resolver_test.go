package alias

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanpelt/trr/internal/executor"
)

func TestResolveLiteral(t *testing.T) {
	resolver := NewResolver(map[string]string{
		"@f": "feature",
		"@b": "bugfix",
	}, executor.NewFake())

	tests := []struct {
		token    string
		expected string
	}{
		{"@f/test", "feature/test"},
		{"@b/123", "bugfix/123"},
		{"@f", "feature"},
		{"no-alias", "no-alias"},
		{"main", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			resolved, err := resolver.Resolve(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resolved)
		})
	}
}

func TestResolveNoMatchReturnsTokenUnchanged(t *testing.T) {
	resolver := NewResolver(map[string]string{"@f": "feature"}, executor.NewFake())

	resolved, err := resolver.Resolve("hotfix/urgent")
	require.NoError(t, err)
	assert.Equal(t, "hotfix/urgent", resolved)
}

func TestResolveLongestKeyWins(t *testing.T) {
	resolver := NewResolver(map[string]string{
		"@f":  "feature",
		"@fx": "fix",
	}, executor.NewFake())

	resolved, err := resolver.Resolve("@fx/crash")
	require.NoError(t, err)
	assert.Equal(t, "fix/crash", resolved)

	resolved, err = resolver.Resolve("@f/api")
	require.NoError(t, err)
	assert.Equal(t, "feature/api", resolved)
}

func TestResolveDynamic(t *testing.T) {
	fake := executor.NewFake()
	fake.Script("sh -c echo feature/$(date +%Y%m%d-%H%M%S)", executor.FakeResult{
		Stdout: "feature/20240101-000000\n",
	})
	resolver := NewResolver(map[string]string{
		"@t": "!echo feature/$(date +%Y%m%d-%H%M%S)",
	}, fake)

	resolved, err := resolver.Resolve("@t")
	require.NoError(t, err)
	assert.Equal(t, "feature/20240101-000000", resolved)
}

func TestResolveDynamicSuffixPreserved(t *testing.T) {
	fake := executor.NewFake()
	fake.Script("sh -c echo experiment", executor.FakeResult{Stdout: "experiment\n"})
	resolver := NewResolver(map[string]string{"@e": "!echo experiment"}, fake)

	resolved, err := resolver.Resolve("@e/variant-a")
	require.NoError(t, err)
	assert.Equal(t, "experiment/variant-a", resolved)
}

func TestResolveDynamicFreshEachInvocation(t *testing.T) {
	count := 0
	fake := executor.NewFake()
	fake.Handler = func(call executor.FakeCall) (executor.FakeResult, bool) {
		count++
		return executor.FakeResult{Stdout: fmt.Sprintf("feature/%d\n", count)}, true
	}
	resolver := NewResolver(map[string]string{"@t": "!date-ish"}, fake)

	first, err := resolver.Resolve("@t")
	require.NoError(t, err)
	second, err := resolver.Resolve("@t")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "dynamic aliases must not be cached")
	assert.Equal(t, 2, count)
}

func TestResolveDynamicFailures(t *testing.T) {
	t.Run("NonZeroExit", func(t *testing.T) {
		fake := executor.NewFake()
		fake.Script("sh -c boom", executor.FakeResult{
			Stderr: "boom: command not found",
			Err:    executor.ExitError("sh", 127),
		})
		resolver := NewResolver(map[string]string{"@x": "!boom"}, fake)

		_, err := resolver.Resolve("@x")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecution)
		assert.Contains(t, err.Error(), "command not found")
	})

	t.Run("EmptyOutput", func(t *testing.T) {
		fake := executor.NewFake()
		fake.Script("sh -c true", executor.FakeResult{Stdout: "  \n"})
		resolver := NewResolver(map[string]string{"@x": "!true"}, fake)

		_, err := resolver.Resolve("@x")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecution)
	})
}

func TestResolveInvalidBranchNames(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"Absolute", "/etc/passwd"},
		{"Traversal", "../escape"},
		{"NestedTraversal", "feature/../../escape"},
		{"EmptySegment", "feature//api"},
		{"Space", "feature/two words"},
		{"Colon", "feature:x"},
		{"LeadingDash", "-rf"},
	}

	resolver := NewResolver(nil, executor.NewFake())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBranch)
		})
	}
}

func TestResolveDynamicResultValidated(t *testing.T) {
	fake := executor.NewFake()
	fake.Script("sh -c evil", executor.FakeResult{Stdout: "../../outside\n"})
	resolver := NewResolver(map[string]string{"@x": "!evil"}, fake)

	_, err := resolver.Resolve("@x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBranch)
}
