package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	msg, err := NewNotification("task.created", map[string]interface{}{"board_id": "b1"})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeNotification, msg.Type)
	assert.Empty(t, msg.ID)

	var payload map[string]string
	require.NoError(t, msg.ParsePayload(&payload))
	assert.Equal(t, "b1", payload["board_id"])
}

func TestNewError(t *testing.T) {
	msg, err := NewError("7", ActionBoardSubscribe, ErrorCodeValidation, "board_id is required", nil)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeError, msg.Type)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"code":"VALIDATION_ERROR"`)
	assert.NotContains(t, string(raw), "details")
}

func TestParsePayload_Empty(t *testing.T) {
	var target struct{ BoardID string }
	assert.NoError(t, (&Message{}).ParsePayload(&target))
	assert.Empty(t, target.BoardID)
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	d.RegisterFunc(ActionHealthCheck, func(_ context.Context, msg *Message) (*Message, error) {
		return NewResponse(msg.ID, msg.Action, map[string]string{"status": "ok"})
	})
	assert.True(t, d.HasHandler(ActionHealthCheck))
	assert.False(t, d.HasHandler("nope"))

	resp, err := d.Dispatch(context.Background(), &Message{ID: "1", Action: ActionHealthCheck})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeResponse, resp.Type)
	assert.Equal(t, "1", resp.ID)

	resp, err = d.Dispatch(context.Background(), &Message{ID: "2", Action: "nope"})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeError, resp.Type)
	var payload ErrorPayload
	require.NoError(t, resp.ParsePayload(&payload))
	assert.Equal(t, ErrorCodeUnknownAction, payload.Code)
}
