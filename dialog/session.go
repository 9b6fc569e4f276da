package dialog

import (
	"sync"

	"github.com/m3rciful/courtbot/nba"
)

// Topic names a multi-step dialogue flow.
type Topic string

const (
	// TopicNone means no dialogue is in progress.
	TopicNone Topic = ""
	// TopicGames browses games by team/season/date filters.
	TopicGames Topic = "games"
	// TopicPlayerSearch finds a player by name.
	TopicPlayerSearch Topic = "player_search"
	// TopicSeasonStats shows season averages for the resolved player.
	TopicSeasonStats Topic = "season_stats"
	// TopicGameStats shows per-game box scores for the resolved player.
	TopicGameStats Topic = "game_stats"
)

// Player is the identity remembered after a unique search match.
type Player struct {
	ID        int64
	FirstName string
	LastName  string
}

// Answer is one recorded step value: either a branch flag or literal text.
type Answer struct {
	Step   string
	Text   string
	Flag   bool
	IsFlag bool
}

// Answers is the ordered sequence collected for the active topic.
type Answers []Answer

// Flag returns the recorded branch flag for a step id.
func (a Answers) Flag(step string) (bool, bool) {
	for _, ans := range a {
		if ans.Step == step && ans.IsFlag {
			return ans.Flag, true
		}
	}
	return false, false
}

// Text returns the recorded literal answer for a step id.
func (a Answers) Text(step string) (string, bool) {
	for _, ans := range a {
		if ans.Step == step && !ans.IsFlag {
			return ans.Text, true
		}
	}
	return "", false
}

// Session is the per-user dialogue state. All fields are guarded by the
// session mutex; callers lock around a full message turn so each user has at
// most one writer at a time while distinct users never block each other.
type Session struct {
	mu sync.Mutex

	Topic   Topic
	Answers Answers
	Player  *Player
	Book    *Bookmark

	// Candidates holds the last multi-match search page so an inline pick
	// can resolve a player without another upstream call.
	Candidates []nba.Player
}

// Lock acquires the per-session mutex.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// Start switches to a topic with an empty answer list. Any pagination
// bookmark belongs to the previous result set and goes with it.
func (s *Session) Start(topic Topic) {
	s.Topic = topic
	s.Answers = nil
	s.Book = nil
}

// Push appends an answer and returns the new length.
func (s *Session) Push(ans Answer) int {
	s.Answers = append(s.Answers, ans)
	return len(s.Answers)
}

// PopOrClear removes the last answer if any exist; with no answers it clears
// the active topic. Returns true when the topic was cleared.
func (s *Session) PopOrClear() bool {
	if len(s.Answers) > 0 {
		s.Answers = s.Answers[:len(s.Answers)-1]
		return false
	}
	s.Topic = TopicNone
	return true
}

// ResetToHome drops the dialogue and pagination state but keeps the resolved
// player, so stats topics remain one tap away.
func (s *Session) ResetToHome() {
	s.Topic = TopicNone
	s.Answers = nil
	s.Book = nil
	s.Candidates = nil
}

// Clear is the Home button: everything goes, resolved player included.
func (s *Session) Clear() {
	s.ResetToHome()
	s.Player = nil
}

// Finish ends a topic after query execution, keeping the pagination bookmark
// when one was opened.
func (s *Session) Finish(book *Bookmark) {
	s.Topic = TopicNone
	s.Answers = nil
	s.Candidates = nil
	s.Book = book
}

// Store holds sessions keyed by user id for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore builds an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the session for a user, creating it on first contact.
func (st *Store) Get(userID int64) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok = st.sessions[userID]; ok {
		return sess
	}
	sess = &Session{}
	st.sessions[userID] = sess
	return sess
}
