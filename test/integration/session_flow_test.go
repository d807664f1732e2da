package integration

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"planning-poker-be/internal/dto"
	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/internal/repository/memory"
	"planning-poker-be/internal/repository/specification"
	"planning-poker-be/internal/repository/unitofwork"
	"planning-poker-be/internal/service"
	"planning-poker-be/pkg/database"
	"planning-poker-be/pkg/roomcode"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	uowFactory   unitofwork.RepositoryFactory
	sessions     service.ISessionService
	participants service.IParticipantService
	stories      service.IStoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	testLogger := logger.NewIsolatedLogger(t.TempDir() + "/integration.log")

	// Nothing subscribes; publishes fall on the floor, which is exactly what
	// a store-focused test wants from a fire-and-forget feed.
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	feed := service.NewFeedPublisherService("ROW_CHANGES", pubSub, testLogger)

	return &fixture{
		db:           gormDB,
		uowFactory:   uowFactory,
		sessions:     service.NewSessionService(uowFactory, memory.NewRoomCodeCache(), feed),
		participants: service.NewParticipantService(uowFactory, feed),
		stories:      service.NewStoryService(uowFactory, feed),
	}
}

func (f *fixture) createSession(t *testing.T, name string) *dto.CreateSessionResponse {
	t.Helper()
	res, err := f.sessions.Create(context.Background(), &dto.CreateSessionRequest{
		Name:          name,
		OrganizerName: "Organizer",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.sessions.Delete(context.Background(), res.Id)
	})
	return res
}

func TestSessionCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createSession(t, "Sprint Planning")
	assert.True(t, roomcode.Valid(created.RoomCode))

	view, err := f.sessions.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Sprint Planning", view.Session.Name)
	assert.False(t, view.Session.VotesRevealed)
	assert.Nil(t, view.Session.CurrentStoryId)

	// The organizer exists from the first read; no window without it.
	require.Len(t, view.Participants, 1)
	assert.Equal(t, created.OrganizerId, view.Participants[0].Id)
	assert.True(t, view.Participants[0].IsOrganizer)
	assert.True(t, view.AllVoted, "no voters yet means vacuously complete")
}

func TestJoinByRoomCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createSession(t, "Joining")

	t.Run("case insensitive code", func(t *testing.T) {
		joined, err := f.sessions.Join(ctx, &dto.JoinSessionRequest{
			RoomCode: strings.ToLower(created.RoomCode),
			Name:     "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, created.Id, joined.SessionId)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := f.sessions.Join(ctx, &dto.JoinSessionRequest{
			RoomCode: created.RoomCode,
			Name:     "Alice",
		})
		require.Error(t, err)
		appErr, ok := serverutils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("different case is a different name", func(t *testing.T) {
		_, err := f.sessions.Join(ctx, &dto.JoinSessionRequest{
			RoomCode: created.RoomCode,
			Name:     "alice",
		})
		assert.NoError(t, err)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := f.sessions.Join(ctx, &dto.JoinSessionRequest{
			RoomCode: "ZZZZ99",
			Name:     "Nobody",
		})
		require.Error(t, err)
		appErr, ok := serverutils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestVoteLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createSession(t, "Voting")
	alice, err := f.sessions.Join(ctx, &dto.JoinSessionRequest{RoomCode: created.RoomCode, Name: "Alice"})
	require.NoError(t, err)
	bob, err := f.sessions.Join(ctx, &dto.JoinSessionRequest{RoomCode: created.RoomCode, Name: "Bob"})
	require.NoError(t, err)

	_, err = f.participants.CastVote(ctx, alice.ParticipantId, &dto.CastVoteRequest{Vote: "5"})
	require.NoError(t, err)

	view, err := f.sessions.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.False(t, view.AllVoted)
	for _, p := range view.Participants {
		assert.Nil(t, p.Vote, "votes stay hidden until reveal")
	}

	_, err = f.participants.CastVote(ctx, bob.ParticipantId, &dto.CastVoteRequest{Vote: "8"})
	require.NoError(t, err)

	view, err = f.sessions.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, view.AllVoted, "organizer does not vote; both players did")

	require.NoError(t, f.sessions.Reveal(ctx, created.Id))

	view, err = f.sessions.Show(ctx, created.Id)
	require.NoError(t, err)
	votesSeen := map[string]bool{}
	for _, p := range view.Participants {
		if p.Vote != nil {
			votesSeen[*p.Vote] = true
		}
	}
	assert.True(t, votesSeen["5"] && votesSeen["8"])
	require.NotNil(t, view.Summary)
	assert.Equal(t, 2, view.Summary.Total)
	require.NotNil(t, view.Summary.Average)
	assert.InDelta(t, 6.5, *view.Summary.Average, 1e-9)

	t.Run("repeated reveal is a no-op", func(t *testing.T) {
		require.NoError(t, f.sessions.Reveal(ctx, created.Id))

		after, err := f.sessions.Show(ctx, created.Id)
		require.NoError(t, err)
		assert.True(t, after.Session.VotesRevealed)
		assert.Equal(t, view.Summary, after.Summary)
		require.Len(t, after.Participants, len(view.Participants))
		for i, p := range after.Participants {
			assert.Equal(t, view.Participants[i].HasVoted, p.HasVoted)
			assert.Equal(t, view.Participants[i].Vote, p.Vote)
		}
	})

	t.Run("voting after reveal refused", func(t *testing.T) {
		_, err := f.participants.CastVote(ctx, alice.ParticipantId, &dto.CastVoteRequest{Vote: "13"})
		require.Error(t, err)
		appErr, ok := serverutils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("reset clears every vote and hides again", func(t *testing.T) {
		require.NoError(t, f.sessions.Reset(ctx, created.Id))

		view, err := f.sessions.Show(ctx, created.Id)
		require.NoError(t, err)
		assert.False(t, view.Session.VotesRevealed)
		assert.Nil(t, view.Summary)
		for _, p := range view.Participants {
			assert.False(t, p.HasVoted)
			assert.Nil(t, p.Vote)
		}
	})
}

func TestStoryOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createSession(t, "Backlog")

	var ids []uuid.UUID
	for _, title := range []string{"First", "Second", "Third"} {
		res, err := f.stories.Create(ctx, &dto.CreateStoryRequest{SessionId: created.Id, Title: title})
		require.NoError(t, err)
		ids = append(ids, res.Id)
	}

	titles := func() []string {
		view, err := f.sessions.Show(ctx, created.Id)
		require.NoError(t, err)
		out := make([]string, 0, len(view.Stories))
		for _, s := range view.Stories {
			out = append(out, s.Title)
		}
		return out
	}

	assert.Equal(t, []string{"First", "Second", "Third"}, titles())

	t.Run("move up swaps with the predecessor", func(t *testing.T) {
		_, err := f.stories.Move(ctx, &dto.MoveStoryRequest{Id: ids[1], Direction: "up"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Second", "First", "Third"}, titles())
	})

	t.Run("move up at the top is a no-op", func(t *testing.T) {
		_, err := f.stories.Move(ctx, &dto.MoveStoryRequest{Id: ids[1], Direction: "up"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Second", "First", "Third"}, titles())
	})

	t.Run("move down at the bottom is a no-op", func(t *testing.T) {
		_, err := f.stories.Move(ctx, &dto.MoveStoryRequest{Id: ids[2], Direction: "down"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Second", "First", "Third"}, titles())
	})

	t.Run("selecting a story resets the round", func(t *testing.T) {
		require.NoError(t, f.sessions.Reveal(ctx, created.Id))
		require.NoError(t, f.sessions.SelectStory(ctx, created.Id, ids[0]))

		view, err := f.sessions.Show(ctx, created.Id)
		require.NoError(t, err)
		require.NotNil(t, view.Session.CurrentStoryId)
		assert.Equal(t, ids[0], *view.Session.CurrentStoryId)
		assert.False(t, view.Session.VotesRevealed)
	})

	t.Run("story from another session refused", func(t *testing.T) {
		other := f.createSession(t, "Other Backlog")
		err := f.sessions.SelectStory(ctx, other.Id, ids[0])
		require.Error(t, err)
	})
}

func TestParticipantRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createSession(t, "Removal")
	alice, err := f.sessions.Join(ctx, &dto.JoinSessionRequest{RoomCode: created.RoomCode, Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, f.participants.Remove(ctx, alice.ParticipantId))

	view, err := f.sessions.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Len(t, view.Participants, 1)

	// The name is free again after a hard delete.
	_, err = f.sessions.Join(ctx, &dto.JoinSessionRequest{RoomCode: created.RoomCode, Name: "Alice"})
	assert.NoError(t, err)
}

func TestSessionDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.sessions.Create(ctx, &dto.CreateSessionRequest{
		Name:          "Ephemeral",
		OrganizerName: "Organizer",
	})
	require.NoError(t, err)

	_, err = f.stories.Create(ctx, &dto.CreateStoryRequest{SessionId: res.Id, Title: "Orphan-to-be"})
	require.NoError(t, err)

	require.NoError(t, f.sessions.Delete(ctx, res.Id))

	uow := f.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.ParticipantRepository().Count(ctx, specification.BySessionID{SessionID: res.Id})
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = uow.StoryRepository().Count(ctx, specification.BySessionID{SessionID: res.Id})
	require.NoError(t, err)
	assert.Zero(t, count)
}
