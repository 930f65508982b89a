package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMessageRoundTrip(t *testing.T) {
	var session ChatSession
	session.SetMessages([]ChatMessage{
		{Role: RoleUser, Content: "What is influenza?"},
		{Role: RoleAssistant, Content: "A viral infection."},
	})

	msgs := session.MessageList()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "A viral infection.", msgs[1].Content)
}

func TestSessionEmptyAndCorruptMessages(t *testing.T) {
	var session ChatSession
	assert.Nil(t, session.MessageList())

	session.SetMessages(nil)
	assert.Equal(t, "[]", session.Messages)
	assert.Empty(t, session.MessageList())

	session.Messages = "not json"
	assert.Empty(t, session.MessageList())
}

func TestSummaryNeverHasNilMessages(t *testing.T) {
	session := ChatSession{ID: 3, Title: "broken", Messages: "not json"}
	summary := session.Summary()
	assert.NotNil(t, summary.Messages)
	assert.Empty(t, summary.Messages)

	session.SetMessages([]ChatMessage{{Role: RoleUser, Content: "hi"}})
	summary = session.Summary()
	require.Len(t, summary.Messages, 1)
	assert.Equal(t, "hi", summary.Messages[0].Content)
}
