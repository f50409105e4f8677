package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOps struct {
	listCalls int
	histNames []string
	capsCalls int
	panics    bool
}

func (f *fakeOps) ListChannels(context.Context) string {
	if f.panics {
		panic("slack client gone")
	}
	f.listCalls++
	return "channel list"
}

func (f *fakeOps) ChannelHistory(_ context.Context, name string) string {
	f.histNames = append(f.histNames, name)
	return "history of " + name
}

func (f *fakeOps) Capabilities() string {
	f.capsCalls++
	return "caps text"
}

type fakeOrchestrator struct {
	reply   string
	err     error
	queries []string
	extras  []map[string]any
}

func (f *fakeOrchestrator) Execute(_ context.Context, request string, extra map[string]any) (string, error) {
	f.queries = append(f.queries, request)
	f.extras = append(f.extras, extra)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newWorkspaceFixture() (*fakePoster, *fakeOps, *fakeOrchestrator, *WorkspaceHandler) {
	poster := &fakePoster{}
	ops := &fakeOps{}
	orch := &fakeOrchestrator{reply: "agent answer"}
	h := NewWorkspaceHandler(poster, ops, orch, discardLogger())
	return poster, ops, orch, h
}

func TestWorkspaceChannelList(t *testing.T) {
	poster, ops, _, h := newWorkspaceFixture()

	err := h.Handle(context.Background(), "What channels do we have?", "C1")

	require.NoError(t, err)
	assert.Equal(t, 1, ops.listCalls)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, post{channel: "C1", text: "channel list"}, msgs[0])
}

func TestWorkspaceListBeatsCapabilities(t *testing.T) {
	// "can" alone would hit the capabilities branch, but the channel
	// listing check runs first.
	poster, ops, _, h := newWorkspaceFixture()

	err := h.Handle(context.Background(), "can you list our channels", "C1")

	require.NoError(t, err)
	assert.Equal(t, 1, ops.listCalls)
	assert.Equal(t, 0, ops.capsCalls)
	require.Len(t, poster.messages(), 1)
}

func TestWorkspaceHistory(t *testing.T) {
	poster, ops, _, h := newWorkspaceFixture()

	err := h.Handle(context.Background(), "what was discussed in #general?", "C1")

	require.NoError(t, err)
	assert.Equal(t, []string{"general"}, ops.histNames)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "history of general", msgs[0].text)
}

func TestWorkspaceHistoryWithoutChannelPrompts(t *testing.T) {
	poster, ops, _, h := newWorkspaceFixture()

	err := h.Handle(context.Background(), "any messages for me?", "C1")

	require.NoError(t, err)
	assert.Empty(t, ops.histNames)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Please specify which channel you'd like to check. Example: 'What was discussed in #general?'", msgs[0].text)
}

func TestWorkspaceCapabilities(t *testing.T) {
	poster, ops, _, h := newWorkspaceFixture()

	err := h.Handle(context.Background(), "what tools do you support", "C1")

	require.NoError(t, err)
	assert.Equal(t, 1, ops.capsCalls)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "caps text", msgs[0].text)
}

func TestWorkspaceComplexQueryGoesToAgent(t *testing.T) {
	poster, _, orch, h := newWorkspaceFixture()

	err := h.Handle(context.Background(), "who should review the deploy runbook", "C7")

	require.NoError(t, err)
	require.Equal(t, []string{"who should review the deploy runbook"}, orch.queries)
	require.Len(t, orch.extras, 1)
	assert.Equal(t, map[string]any{
		"slack_channel":     "C7",
		"can_send_to_slack": false,
	}, orch.extras[0])
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "agent answer", msgs[0].text)
}

func TestWorkspaceComplexQueryFailure(t *testing.T) {
	poster, _, orch, h := newWorkspaceFixture()
	orch.err = errors.New("completion provider not available")

	err := h.Handle(context.Background(), "who should review the deploy runbook", "C1")

	require.NoError(t, err)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "❌ Unable to process complex query.", msgs[0].text)
}

func TestWorkspacePanicPostsFault(t *testing.T) {
	poster := &fakePoster{}
	ops := &fakeOps{panics: true}
	h := NewWorkspaceHandler(poster, ops, &fakeOrchestrator{}, discardLogger())

	err := h.Handle(context.Background(), "show the channel list", "C1")

	require.NoError(t, err)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "❌ Unable to process Slack query.", msgs[0].text)
}
