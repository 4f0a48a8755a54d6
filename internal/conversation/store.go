package conversation

import "sync"

// Store keeps one session per user in memory. Sessions do not survive a
// restart. Callers serialize access to a user through Lock.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	locks    map[int64]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*userLock),
	}
}

// Lock acquires the user's lock and returns its release func. Locks are
// reference counted and dropped once no goroutine holds or waits for them.
func (s *Store) Lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.Unlock()
			s.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, userID)
			}
			s.mu.Unlock()
		})
	}
}

// Len returns the number of active sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

func (s *Store) put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
}

func (s *Store) delete(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

func (s *Store) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
