package assistant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDefaultScript(t *testing.T) {
	script := DefaultScript()

	cases := []struct {
		text   string
		intent string
		typ    MessageType
	}{
		{"Can you give me a FAKE CALL?", "fake_call", TypeFakeCall},
		{"fake call, I'm scared", "fake_call", TypeFakeCall},
		{"I need help finding a safe route", "distress", TypeGuidance},
		{"I'm scared", "distress", TypeGuidance},
		{"there is danger here", "distress", TypeGuidance},
		{"best route home?", "route", TypeGuidance},
		{"is this area safe", "route", TypeGuidance},
		{"check on me", "status", TypeGuidance},
		{"what's my status", "status", TypeGuidance},
		{"hello", "general", TypeText},
		{"", "general", TypeText},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got := script.Classify(tc.text)
			assert.Equal(t, tc.intent, got.Name)
			assert.Equal(t, tc.typ, got.Type)
			assert.NotEmpty(t, got.Reply)
		})
	}
}

func TestParseScriptNormalizes(t *testing.T) {
	script, err := ParseScript([]byte(`
greeting: hi
intents:
  - keywords: ["PANIC"]
    reply: stay calm
fallback:
  reply: ok
`))
	require.NoError(t, err)
	require.Len(t, script.Intents, 1)
	assert.Equal(t, "intent_1", script.Intents[0].Name)
	assert.Equal(t, []string{"panic"}, script.Intents[0].Keywords)
	assert.Equal(t, TypeText, script.Intents[0].Type)
	assert.Equal(t, TypeText, script.Fallback.Type)
	assert.Equal(t, "stay calm", script.Classify("I panic").Reply)
}

func TestParseScriptRejectsInvalid(t *testing.T) {
	bad := map[string]string{
		"no greeting":  "fallback: {reply: ok}",
		"no fallback":  "greeting: hi",
		"bad type":     "greeting: hi\nfallback: {reply: ok}\nintents: [{keywords: [a], reply: b, type: video}]",
		"no keywords":  "greeting: hi\nfallback: {reply: ok}\nintents: [{reply: b}]",
		"no reply":     "greeting: hi\nfallback: {reply: ok}\nintents: [{keywords: [a]}]",
		"invalid yaml": "greeting: [",
		"blank keyword": "greeting: hi\nfallback: {reply: ok}\nintents: [{keywords: [help, \"  \"], reply: b}]",
	}
	for name, doc := range bad {
		_, err := ParseScript([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte("greeting: hey\nfallback: {reply: sure}\n"), 0o600))

	script, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "hey", script.Greeting)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
