package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCmd_Use(t *testing.T) {
	assert.Equal(t, "suggest", suggestCmd.Use)
}

func TestSuggestCmd_PrintsQuestions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	answerService.(*mockAnswerService).questions = []string{
		"Yıllık izin hakları nedir?",
		"Mesai saatleri nedir?",
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"suggest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "1. Yıllık izin hakları nedir?")
	assert.Contains(t, buf.String(), "2. Mesai saatleri nedir?")
}

func TestSuggestCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"suggest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No suggestions available.")
}
