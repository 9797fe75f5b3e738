// Package envfile persists the confirmed channel binding into a
// line-oriented KEY=value file, the one durable artifact of pairing.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Recognized keys in the env file.
const (
	KeyBotToken = "TELEGRAM_BOT_TOKEN"
	KeyChatID   = "TELEGRAM_CHAT_ID"
)

// Binding links a verified bot token to the one confirmed conversation.
type Binding struct {
	Token          string
	ConversationID string
}

func (b Binding) pairs() []pair {
	return []pair{
		{KeyBotToken, b.Token},
		{KeyChatID, b.ConversationID},
	}
}

type pair struct {
	key, value string
}

// Save merges the binding into the env file at path. Existing lines for a
// key are replaced in place; missing keys are appended. Every other line
// is preserved verbatim and in order, so applying the same binding twice
// is a no-op after the first.
func Save(path string, b Binding) error {
	var lines []string
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read env file: %w", err)
	}
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	merged := mergeLines(lines, b.pairs())

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create env dir: %w", err)
	}
	content := strings.Join(merged, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}

// mergeLines replaces the value of any line whose key matches a pair and
// appends pairs that matched no line, preserving all other lines.
func mergeLines(lines []string, pairs []pair) []string {
	seen := make(map[string]bool, len(pairs))
	out := make([]string, 0, len(lines)+len(pairs))

	for _, line := range lines {
		replaced := false
		for _, p := range pairs {
			if strings.HasPrefix(line, p.key+"=") {
				out = append(out, p.key+"="+p.value)
				seen[p.key] = true
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, line)
		}
	}

	for _, p := range pairs {
		if !seen[p.key] {
			out = append(out, p.key+"="+p.value)
		}
	}
	return out
}

// Apply mirrors the binding into the process environment. The file stays
// authoritative across restarts; this only updates the running process.
func Apply(b Binding) {
	os.Setenv(KeyBotToken, b.Token)
	os.Setenv(KeyChatID, b.ConversationID)
}

// Current reads the binding from the process environment, if any.
func Current() (Binding, bool) {
	b := Binding{
		Token:          os.Getenv(KeyBotToken),
		ConversationID: os.Getenv(KeyChatID),
	}
	return b, b.Token != "" && b.ConversationID != ""
}
