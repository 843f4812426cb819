package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/skillshare-dao/skillshare-dao/internal/events"
	"github.com/skillshare-dao/skillshare-dao/internal/proposal"
	"github.com/skillshare-dao/skillshare-dao/internal/store"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
	"github.com/skillshare-dao/skillshare-dao/pkg/metrics"
)

// Service defines the proposal governance operations.
type Service interface {
	Create(ctx context.Context, title, description string) (*proposal.Proposal, string, error)
	Vote(ctx context.Context, id, userID string, vote bool) (string, error)
	Close(ctx context.Context, id string) (string, error)
	Get(ctx context.Context, id string) (*proposal.Proposal, error)
	List(ctx context.Context) ([]*proposal.Proposal, error)
	ArchiveURL(ctx context.Context, id string) (string, error)
}

// Archiver stores a frozen snapshot of a closed proposal.
type Archiver interface {
	Archive(ctx context.Context, p proposal.Proposal) error
	PresignedURL(ctx context.Context, id string, expires time.Duration) (string, error)
}

// Option configures optional collaborators.
type Option func(*proposalService)

// WithPublisher publishes lifecycle events after each successful mutation.
func WithPublisher(p events.Publisher) Option {
	return func(s *proposalService) {
		if p != nil {
			s.events = p
		}
	}
}

// WithArchiver archives proposals when they are closed.
func WithArchiver(a Archiver) Option {
	return func(s *proposalService) { s.archive = a }
}

// WithIDGenerator overrides UUID generation (tests use predictable ids).
func WithIDGenerator(gen func() string) Option {
	return func(s *proposalService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

const archiveURLExpiry = 15 * time.Minute

type proposalService struct {
	proposals store.Map[proposal.Proposal]
	events    events.Publisher
	archive   Archiver
	newID     func() string
	locks     keyedMutex
}

// New returns a Service persisting proposals in the given map.
func New(proposals store.Map[proposal.Proposal], opts ...Option) Service {
	s := &proposalService{
		proposals: proposals,
		events:    events.Nop{},
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *proposalService) Create(ctx context.Context, title, description string) (*proposal.Proposal, string, error) {
	p := proposal.Proposal{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Votes:       map[string]bool{},
		Status:      proposal.StatusOpen,
	}
	if err := s.proposals.Insert(ctx, p.ID, p); err != nil {
		return nil, "", apperror.Internal("failed to store proposal", err)
	}
	metrics.ProposalsCreated.Inc()
	s.publish(ctx, events.Event{Type: events.TypeProposalCreated, Subject: p.ID, Status: string(p.Status)})
	return &p, fmt.Sprintf("Proposal %q created with ID %s", title, p.ID), nil
}

func (s *proposalService) Vote(ctx context.Context, id, userID string, vote bool) (string, error) {
	if err := s.vote(ctx, id, userID, vote); err != nil {
		return "", err
	}
	metrics.VotesRecorded.WithLabelValues(strconv.FormatBool(vote)).Inc()
	s.publish(ctx, events.Event{Type: events.TypeProposalVoted, Subject: id, Actor: userID, Vote: &vote})
	return fmt.Sprintf("Vote registered for proposal %s", id), nil
}

// vote performs the read-modify-write under the proposal's lock.
func (s *proposalService) vote(ctx context.Context, id, userID string, vote bool) error {
	unlock := s.locks.lock(id)
	defer unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsOpen() {
		return apperror.InvalidState(fmt.Sprintf("Proposal with ID %s is closed.", id))
	}
	if p.Votes == nil {
		p.Votes = map[string]bool{}
	}
	p.Votes[userID] = vote
	if err := s.proposals.Insert(ctx, id, *p); err != nil {
		return apperror.Internal("failed to store vote", err)
	}
	return nil
}

// Close is idempotent: closing a closed proposal rewrites the same state and
// returns the same message. Only the first close is counted, published and
// archived.
func (s *proposalService) Close(ctx context.Context, id string) (string, error) {
	p, wasOpen, err := s.close(ctx, id)
	if err != nil {
		return "", err
	}
	if wasOpen {
		metrics.ProposalsClosed.Inc()
		s.publish(ctx, events.Event{Type: events.TypeProposalClosed, Subject: id, Status: string(p.Status)})
		if s.archive != nil {
			if err := s.archive.Archive(ctx, *p); err != nil {
				logger.Warnf("archive proposal %s: %v", id, err)
			}
		}
	}
	return fmt.Sprintf("Proposal %s has been closed.", id), nil
}

func (s *proposalService) close(ctx context.Context, id string) (*proposal.Proposal, bool, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	wasOpen := p.IsOpen()
	p.Status = proposal.StatusClosed
	if err := s.proposals.Insert(ctx, id, *p); err != nil {
		return nil, false, apperror.Internal("failed to close proposal", err)
	}
	return p, wasOpen, nil
}

func (s *proposalService) Get(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.load(ctx, id)
}

func (s *proposalService) List(ctx context.Context) ([]*proposal.Proposal, error) {
	all, err := s.proposals.Values(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list proposals", err)
	}
	out := make([]*proposal.Proposal, 0, len(all))
	for i := range all {
		out = append(out, &all[i])
	}
	return out, nil
}

// ArchiveURL returns a time-limited download link for a closed proposal's snapshot.
func (s *proposalService) ArchiveURL(ctx context.Context, id string) (string, error) {
	if s.archive == nil {
		return "", apperror.Unavailable("proposal archive is not configured")
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if p.IsOpen() {
		return "", apperror.InvalidState(fmt.Sprintf("Proposal with ID %s is still open.", id))
	}
	url, err := s.archive.PresignedURL(ctx, id, archiveURLExpiry)
	if err != nil {
		return "", apperror.Upstream("failed to sign archive url", err)
	}
	return url, nil
}

func (s *proposalService) load(ctx context.Context, id string) (*proposal.Proposal, error) {
	p, err := s.proposals.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("Proposal with ID %s not found.", id))
		}
		return nil, apperror.Internal("failed to load proposal", err)
	}
	return &p, nil
}

func (s *proposalService) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		logger.Warnf("publish %s for %s: %v", ev.Type, ev.Subject, err)
	}
}
