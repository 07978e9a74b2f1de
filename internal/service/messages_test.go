package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-gateway-go/internal/model"
)

func TestMessageService_CreateWithoutUserNeverCallsUpstream(t *testing.T) {
	up := &fakeUpstream{}
	svc := NewMessageService(up)

	_, err := svc.Create(context.Background(), uuid.New(), "", model.MessageCreate{Content: "hi"})
	requireAPIError(t, err, http.StatusBadRequest)
	assert.Empty(t, up.requests())
}

func TestMessageService_MutationsForwardUser(t *testing.T) {
	threadID := uuid.New()
	messageID := uuid.New()
	body := `{"id":"` + messageID.String() + `","thread_id":"` + threadID.String() + `","user_id":"` + uuid.NewString() + `","content":"hi"}`
	up := &fakeUpstream{respond: reply(body)}
	svc := NewMessageService(up)

	msg, err := svc.Create(context.Background(), threadID, "user-1", model.MessageCreate{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, messageID, msg.ID)

	content := "edited"
	_, err = svc.Update(context.Background(), threadID, messageID, "user-1", model.MessageUpdate{Content: &content})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), threadID, messageID, "user-1"))

	reqs := up.requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "/threads/"+threadID.String()+"/messages", reqs[0].Path)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/threads/"+threadID.String()+"/messages/"+messageID.String(), reqs[2].Path)
	for _, r := range reqs {
		assert.Equal(t, "user-1", r.Header.Get("X-User-Id"))
	}
}

func TestMessageService_DeleteAndUpdateRequireUser(t *testing.T) {
	up := &fakeUpstream{}
	svc := NewMessageService(up)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), "  ", model.MessageUpdate{})
	requireAPIError(t, err, http.StatusBadRequest)
	err = svc.Delete(context.Background(), uuid.New(), uuid.New(), "")
	requireAPIError(t, err, http.StatusBadRequest)
	assert.Empty(t, up.requests())
}

func TestMessageService_ListOmitsAbsentCursor(t *testing.T) {
	up := &fakeUpstream{respond: reply(`{"items":[],"has_more":false}`)}
	svc := NewMessageService(up)

	_, err := svc.List(context.Background(), uuid.New(), 50, nil)
	require.NoError(t, err)
	q := up.requests()[0].Query
	assert.Equal(t, "50", q.Get("limit"))
	_, present := q["cursor"]
	assert.False(t, present)

	cursor := "abc"
	_, err = svc.List(context.Background(), uuid.New(), 10, &cursor)
	require.NoError(t, err)
	assert.Equal(t, "abc", up.requests()[1].Query.Get("cursor"))
}
