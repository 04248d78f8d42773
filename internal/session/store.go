// Package session holds the in-memory working state of one user's creative
// session: the brand, its inspiration collection, open edit sessions, draft
// sets, and the asset gallery. Nothing here survives process restart by
// design.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/domain"
	"brandforge/internal/pipeline"
)

// Session is the per-user workspace. All mutation goes through the Store so
// locking stays in one place.
type Session struct {
	ID           string
	Brand        *domain.BrandSpecification
	Inspirations []domain.InspirationCue
	Drafts       map[string]*domain.DraftSet
	Edits        map[string]*domain.EditSession
	Script       string
	Keyframes    []pipeline.Keyframe
	Gallery      []domain.GeneratedAsset
	LastActivity time.Time
}

// Store is a mutex-guarded in-memory session registry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session and returns it.
func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:           uuid.NewString(),
		Drafts:       make(map[string]*domain.DraftSet),
		Edits:        make(map[string]*domain.EditSession),
		LastActivity: time.Now(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session by id, or domain.ErrNotFound.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sess.LastActivity = time.Now()
	return sess, nil
}

// Snapshot is a consistent copy of the generation inputs one request needs.
// The brand pointer is shared but treated as immutable: logo replacement
// installs a fresh value rather than mutating the shared one in place.
type Snapshot struct {
	Brand        *domain.BrandSpecification
	Inspirations []domain.InspirationCue
	Script       string
	Keyframes    []pipeline.Keyframe
}

// Snapshot returns a consistent read of the session's generation inputs.
func (s *Store) Snapshot(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, domain.ErrNotFound
	}
	sess.LastActivity = time.Now()
	snap := Snapshot{Brand: sess.Brand, Script: sess.Script}
	snap.Inspirations = append(snap.Inspirations, sess.Inspirations...)
	snap.Keyframes = append(snap.Keyframes, sess.Keyframes...)
	return snap, nil
}

// SetBrand installs the synthesized brand specification.
func (s *Store) SetBrand(id string, brand *domain.BrandSpecification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.Brand = brand
	return nil
}

// SetBrandLogo installs a logo on the session's brand. The brand value is
// replaced wholesale so concurrent readers holding the old pointer keep a
// consistent view; logo source precedence still applies.
func (s *Store) SetBrandLogo(id string, logo *domain.LogoImage) (*domain.BrandSpecification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Brand == nil {
		return nil, domain.ErrNotFound
	}
	brand := *sess.Brand
	brand.SetLogo(logo)
	sess.Brand = &brand
	return sess.Brand, nil
}

// AddInspiration appends a cue to the session's inspiration collection.
func (s *Store) AddInspiration(id string, cue domain.InspirationCue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.Inspirations = append(sess.Inspirations, cue)
	return nil
}

// RemoveInspiration drops a cue by id; removing an unknown id is a no-op.
func (s *Store) RemoveInspiration(id, cueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	kept := sess.Inspirations[:0]
	for _, cue := range sess.Inspirations {
		if cue.ID != cueID {
			kept = append(kept, cue)
		}
	}
	sess.Inspirations = kept
	return nil
}

// PutDrafts stores a draft set and returns its key.
func (s *Store) PutDrafts(id string, set *domain.DraftSet) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	key := uuid.NewString()
	sess.Drafts[key] = set
	return key, nil
}

// Draft returns one draft image plus its set's category and subtype.
func (s *Store) Draft(id, setID string, index int) (domain.ImagePayload, domain.AssetCategory, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ImagePayload{}, "", "", domain.ErrNotFound
	}
	set, ok := sess.Drafts[setID]
	if !ok || index < 0 || index >= len(set.Drafts) {
		return domain.ImagePayload{}, "", "", domain.ErrNotFound
	}
	return set.Drafts[index], set.Category, set.Subtype, nil
}

// OpenEdit starts an edit session over the given image.
func (s *Store) OpenEdit(id string, category domain.AssetCategory, subtype string, img domain.ImagePayload) (*domain.EditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	edit := &domain.EditSession{
		ID:       uuid.NewString(),
		Category: category,
		Subtype:  subtype,
		Working:  img,
	}
	sess.Edits[edit.ID] = edit
	return edit, nil
}

// Edit returns an open edit session.
func (s *Store) Edit(id, editID string) (*domain.EditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	edit, ok := sess.Edits[editID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return edit, nil
}

// CloseEdit discards an edit session, finalized or not.
func (s *Store) CloseEdit(id, editID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		delete(sess.Edits, editID)
	}
}

// CommitAsset appends a finalized asset to the gallery.
func (s *Store) CommitAsset(id string, asset domain.GeneratedAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.Gallery = append(sess.Gallery, asset)
	return nil
}

// Assets returns a copy of the gallery.
func (s *Store) Assets(id string) ([]domain.GeneratedAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.GeneratedAsset, len(sess.Gallery))
	copy(out, sess.Gallery)
	return out, nil
}

// SetKeyframes replaces the session's storyboard keyframes.
func (s *Store) SetKeyframes(id string, frames []pipeline.Keyframe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.Keyframes = frames
	return nil
}

// SetScript stores the current (possibly user-edited) ad script.
func (s *Store) SetScript(id, script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sess.Script = script
	return nil
}
