package syncclient

import (
	"planning-poker-be/internal/entity"
	"planning-poker-be/pkg/votes"

	"github.com/google/uuid"
)

// Snapshot is the mirrored state of one session plus flags the reconcile
// loop derives along the way.
type Snapshot struct {
	Session      *entity.Session
	Participants []*entity.Participant
	Stories      []*entity.Story

	// Self is the local participant id, uuid.Nil for observers.
	Self uuid.UUID

	// SelfRemoved is set when the own participant row disappeared from a
	// refetch: the organizer kicked this client.
	SelfRemoved bool

	// SessionDeleted is set when the session row itself was deleted.
	SessionDeleted bool
}

// AllVoted reports whether every non-organizer participant has voted.
func (s Snapshot) AllVoted() bool {
	for _, p := range s.Participants {
		if !p.IsOrganizer && !p.HasVoted {
			return false
		}
	}
	return true
}

// VisibleVote returns a participant's vote, or nil while the session-wide
// reveal gate is closed.
func (s Snapshot) VisibleVote(p *entity.Participant) *string {
	if s.Session == nil || !s.Session.VotesRevealed {
		return nil
	}
	return p.Vote
}

// Summary aggregates the revealed votes; nil while votes are hidden.
func (s Snapshot) Summary() *votes.Summary {
	if s.Session == nil || !s.Session.VotesRevealed {
		return nil
	}
	var cast []string
	for _, p := range s.Participants {
		if p.Vote != nil {
			cast = append(cast, *p.Vote)
		}
	}
	summary := votes.Summarize(cast)
	return &summary
}

// CurrentStory resolves the session's current-story pointer against the
// mirrored story set.
func (s Snapshot) CurrentStory() *entity.Story {
	if s.Session == nil || s.Session.CurrentStoryId == nil {
		return nil
	}
	for _, st := range s.Stories {
		if st.Id == *s.Session.CurrentStoryId {
			return st
		}
	}
	return nil
}
