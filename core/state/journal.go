package state

import "halochain/core/types"

// The undo machinery: before any create/modify/remove/balance write the
// store appends an inverse entry to the innermost open session. Committing a
// nested session folds its entries into the parent; committing the outermost
// discards them. Undoing replays the entries in reverse.

type undoEntry interface {
	revert(s *Store)
}

type createdEntry struct {
	id types.ObjectID
}

func (e *createdEntry) revert(s *Store) {
	if obj, ok := s.objects[e.id]; ok {
		s.indexRemove(obj)
		delete(s.objects, e.id)
	}
	// Instance ids stay dense: creation is only ever undone in LIFO order,
	// so rolling the counter back cannot collide with a later allocation.
	s.nextInstance[spaceType{e.id.Space, e.id.Type}] = e.id.Instance
}

type modifiedEntry struct {
	prev Object
}

func (e *modifiedEntry) revert(s *Store) {
	id := e.prev.ObjectID()
	if current, ok := s.objects[id]; ok {
		s.indexRemove(current)
	}
	s.objects[id] = e.prev
	s.indexInsert(e.prev)
}

type removedEntry struct {
	prev Object
}

func (e *removedEntry) revert(s *Store) {
	s.objects[e.prev.ObjectID()] = e.prev
	s.indexInsert(e.prev)
}

type balanceEntry struct {
	key  balanceKey
	prev types.ShareType
}

func (e *balanceEntry) revert(s *Store) {
	if e.prev == 0 {
		delete(s.balances, e.key)
		return
	}
	s.balances[e.key] = e.prev
}

type journal struct {
	entries []undoEntry
	done    bool
}

// Session is one open undo scope. Exactly one of Commit or Undo must be
// called; a Session left open keeps every enclosing scope revertable.
type Session struct {
	store   *Store
	journal *journal
}

// StartUndoSession opens a new undo scope. Sessions nest by stacking
// journals: transaction application inside speculative block building inside
// fork switching all compose.
func (s *Store) StartUndoSession() *Session {
	j := &journal{}
	s.sessions = append(s.sessions, j)
	return &Session{store: s, journal: j}
}

func (s *Store) record(entry undoEntry) {
	if len(s.sessions) == 0 {
		return
	}
	j := s.sessions[len(s.sessions)-1]
	j.entries = append(j.entries, entry)
}

func (s *Store) popSession(j *journal) {
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if s.sessions[i] == j {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return
		}
	}
}

// Commit closes the session keeping its effects. Inside an enclosing
// session the entries migrate upward so an outer Undo still reverts them.
func (sess *Session) Commit() {
	if sess.journal.done {
		return
	}
	sess.journal.done = true
	s := sess.store
	s.popSession(sess.journal)
	if len(s.sessions) > 0 {
		parent := s.sessions[len(s.sessions)-1]
		parent.entries = append(parent.entries, sess.journal.entries...)
	}
	sess.journal.entries = nil
}

// Undo reverts every mutation recorded in the session, newest first.
func (sess *Session) Undo() {
	if sess.journal.done {
		return
	}
	sess.journal.done = true
	s := sess.store
	s.popSession(sess.journal)
	for i := len(sess.journal.entries) - 1; i >= 0; i-- {
		sess.journal.entries[i].revert(s)
	}
	sess.journal.entries = nil
}
