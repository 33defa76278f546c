package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Run("ReplacesEveryOccurrence", func(t *testing.T) {
		text := `claude "@@args"
echo '@@args done'`
		rendered := Render(text, "fix the bug")
		assert.Equal(t, "claude \"fix the bug\"\necho 'fix the bug done'", rendered)
	})

	t.Run("EmptyArgsClearPlaceholder", func(t *testing.T) {
		rendered := Render(`if [ -n "@@args" ]; then claude "@@args"; else claude; fi`, "")
		assert.Equal(t, `if [ -n "" ]; then claude ""; else claude; fi`, rendered)
	})

	t.Run("NoPlaceholderLeavesTextAlone", func(t *testing.T) {
		assert.Equal(t, "git reset --hard", Render("git reset --hard", "anything"))
	})

	t.Run("NoRecursiveExpansion", func(t *testing.T) {
		rendered := Render("run @@args", "@@args")
		assert.Equal(t, "run @@args", rendered)
	})
}
