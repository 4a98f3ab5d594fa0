// Package draft keeps the single in-progress post draft and mirrors it to a
// state repository so it survives restarts.
package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/kimchi-drafts/internal/model"
	"github.com/debemdeboas/kimchi-drafts/internal/repository"
)

const DefaultKey = "kimchi-post-draft"

var ErrCorruptState = errors.New("corrupt draft state")

var storeLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

// state is the persisted record. A nil Draft means the store is empty.
type state struct {
	Draft *model.PostDraft `json:"draft" yaml:"draft" toml:"draft,omitempty"`
}

type Store struct {
	mu    sync.Mutex
	draft *model.PostDraft

	repo   repository.StateRepository
	key    string
	codec  Codec
	now    func() time.Time
	log    zerolog.Logger
	strict bool
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithCodec(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithStrict makes Open fail with ErrCorruptState instead of starting empty
// when the stored record cannot be decoded.
func WithStrict(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// Open builds a store on repo and restores whatever draft is stored there.
func Open(ctx context.Context, repo repository.StateRepository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:  repo,
		key:   DefaultKey,
		codec: JSONCodec{},
		now:   time.Now,
		log:   storeLogger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) restore(ctx context.Context) error {
	data, err := s.repo.GetItem(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Debug().Str("key", s.key).Msg("No stored draft")
		return nil
	}
	if errors.Is(err, repository.ErrCorruptValue) {
		return s.discard(err)
	}
	if err != nil {
		return fmt.Errorf("error reading draft state %s: %w", s.key, err)
	}

	d, err := DecodeState(s.codec, data)
	if err != nil {
		return s.discard(err)
	}

	if d != nil && !d.Type.Valid() {
		s.log.Warn().Str("key", s.key).Str("type", string(d.Type)).Msg("Restored draft has an unknown post type")
	}
	s.draft = d
	s.log.Debug().Str("key", s.key).Bool("has_draft", s.draft != nil).Msg("Draft state restored")
	return nil
}

// discard handles a stored record that cannot be read back: strict stores
// fail, lenient ones start empty.
func (s *Store) discard(err error) error {
	if s.strict {
		return fmt.Errorf("%w: %s: %v", ErrCorruptState, s.key, err)
	}
	s.log.Warn().Err(err).Str("key", s.key).Str("codec", s.codec.Name()).Msg("Discarding undecodable draft state")
	return nil
}

// Save replaces the held draft with in, stamped with the current time, and
// persists it. Input with blank title and content is ignored.
func (s *Store) Save(ctx context.Context, in model.DraftInput) error {
	if in.IsBlank() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = model.NewPostDraft(in, s.now().UTC().Truncate(time.Millisecond))
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("error saving draft: %w", err)
	}

	s.log.Debug().Str("type", string(in.Type)).Str("title", in.Title).Msg("Draft saved")
	return nil
}

// Clear drops the held draft and persists the empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = nil
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("error clearing draft: %w", err)
	}

	s.log.Debug().Msg("Draft cleared")
	return nil
}

func (s *Store) HasDraft() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draft != nil && !s.draft.IsBlank()
}

// Draft returns a copy of the held draft.
func (s *Store) Draft() (*model.PostDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, false
	}
	return s.draft.Clone(), true
}

func (s *Store) Key() string {
	return s.key
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	data, err := EncodeState(s.codec, s.draft)
	if err != nil {
		return err
	}
	return s.repo.SetItem(ctx, s.key, data)
}

// EncodeState serializes the persisted record for d; nil encodes the empty state.
func EncodeState(c Codec, d *model.PostDraft) ([]byte, error) {
	data, err := c.Marshal(state{Draft: d})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Name(), err)
	}
	return data, nil
}

// DecodeState parses a persisted record. A record without a draft yields nil.
func DecodeState(c Codec, data []byte) (*model.PostDraft, error) {
	var st state
	if err := c.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
	}
	return st.Draft, nil
}
