package events

import (
	"encoding/json"
	"testing"

	"planning-poker-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowImageUsesWireCasing(t *testing.T) {
	session := entity.Session{
		Id:       uuid.New(),
		RoomCode: "AB12CD",
		Name:     "Sprint 1",
	}

	ev := NewRowChange(TableSessions, ActionUpdate, session.Id, session.Id, session)

	var row map[string]interface{}
	require.NoError(t, json.Unmarshal(ev.Row, &row))
	assert.Contains(t, row, "room_code", "row image keys match the REST casing")
	assert.Contains(t, row, "votes_revealed")
	assert.NotContains(t, row, "RoomCode")

	var decoded entity.Session
	require.NoError(t, json.Unmarshal(ev.Row, &decoded))
	assert.Equal(t, session.RoomCode, decoded.RoomCode)
	assert.Equal(t, session.Id, decoded.Id)
}

func TestRowChangeSubject(t *testing.T) {
	sessionId := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ev := NewRowChange(TableParticipants, ActionDelete, sessionId, uuid.New(), nil)

	assert.Equal(t, "feed.6ba7b810-9dad-11d1-80b4-00c04fd430c8.participants.delete", ev.Subject())
	assert.Nil(t, ev.Row, "deletes carry no row image")
}
