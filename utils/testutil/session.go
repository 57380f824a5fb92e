// Package testutil holds fakes shared by handler and service tests.
package testutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// ErrUnknownMessage mimics Discord's answer for a deleted message.
var ErrUnknownMessage = errors.New("HTTP 404 Not Found, Unknown Message")

// SentMessage is a channel message sent through the fake.
type SentMessage struct {
	ID        string
	ChannelID string
	Data      *discordgo.MessageSend
}

// FakeSession records everything the bot sends. It satisfies model.Session
// and panel.Messenger. Safe for concurrent use.
type FakeSession struct {
	mu        sync.Mutex
	next      int
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
	messages  []SentMessage
	live      map[string]bool
	deleted   []string

	// FailSend makes every channel send fail.
	FailSend error
	// FailRespond makes every interaction response fail.
	FailRespond error
}

// NewFakeSession creates an empty FakeSession.
func NewFakeSession() *FakeSession {
	return &FakeSession{live: make(map[string]bool)}
}

func (f *FakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRespond != nil {
		return f.FailRespond
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *FakeSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *FakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func (f *FakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSend != nil {
		return nil, f.FailSend
	}
	f.next++
	id := fmt.Sprintf("msg-%d", f.next)
	f.messages = append(f.messages, SentMessage{ID: id, ChannelID: channelID, Data: data})
	f.live[id] = true
	return &discordgo.Message{ID: id, ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	if !f.live[messageID] {
		return ErrUnknownMessage
	}
	delete(f.live, messageID)
	return nil
}

// Responses returns the interaction responses in order.
func (f *FakeSession) Responses() []*discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.InteractionResponse(nil), f.responses...)
}

// LastResponse returns the latest interaction response or nil.
func (f *FakeSession) LastResponse() *discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return nil
	}
	return f.responses[len(f.responses)-1]
}

// LastContent is the content of the latest response, or of the latest edit
// when it came after a deferred response.
func (f *FakeSession) LastContent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) > 0 {
		if c := f.edits[len(f.edits)-1].Content; c != nil {
			return *c
		}
	}
	if len(f.responses) == 0 || f.responses[len(f.responses)-1].Data == nil {
		return ""
	}
	return f.responses[len(f.responses)-1].Data.Content
}

// Edits returns the response edits in order.
func (f *FakeSession) Edits() []*discordgo.WebhookEdit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.WebhookEdit(nil), f.edits...)
}

// Followups returns the follow-up messages in order.
func (f *FakeSession) Followups() []*discordgo.WebhookParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.WebhookParams(nil), f.followups...)
}

// Messages returns all channel messages ever sent, deleted ones included.
func (f *FakeSession) Messages() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage(nil), f.messages...)
}

// LiveMessages returns the sent messages of channelID that were not deleted.
func (f *FakeSession) LiveMessages(channelID string) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, m := range f.messages {
		if m.ChannelID == channelID && f.live[m.ID] {
			out = append(out, m)
		}
	}
	return out
}

// Deleted returns the IDs passed to ChannelMessageDelete.
func (f *FakeSession) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}
